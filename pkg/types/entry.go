package types

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EntryKind distinguishes the three node kinds a Source can produce.
type EntryKind int

const (
	// File is a regular file (or anything that is neither a directory nor a symlink)
	File EntryKind = iota
	// Dir is a directory
	Dir
	// Symlink is a symbolic link
	Symlink
)

// Entry represents one filesystem-like node produced by a Source.
// Listing-derived entries carry no metadata; MetaValid reports whether
// Size, ModTime, Mode and the ownership fields are meaningful.
type Entry struct {
	Name    string      // base name
	Path    string      // full path as walked
	Kind    EntryKind   // file, directory or symlink
	Depth   int         // root = 0, its children = 1
	Size    int64       // bytes
	ModTime time.Time   // last modification
	Mode    os.FileMode // permission and type bits
	UID     uint32      // owner id, when the platform exposes one
	GID     uint32      // group id, when the platform exposes one
	Target  string      // symlink target, when Kind == Symlink
	LinkDir bool        // symlink target is a directory

	MetaValid bool // metadata fields above are populated
	SizeValid bool // Size alone is known (tar listings carry sizes)
	Last      bool // last sibling in its parent's filtered, sorted list
}

// IsDir reports whether the entry should be descended into: a real
// directory, or a symlink whose target is one.
func (e Entry) IsDir() bool {
	return e.Kind == Dir || (e.Kind == Symlink && e.LinkDir)
}

// Executable reports whether the entry is a regular file with any
// execute bit set.
func (e Entry) Executable() bool {
	return e.MetaValid && e.Kind == File && e.Mode&0o111 != 0 && e.Mode&os.ModeType == 0
}

// Socket reports whether the entry is a unix domain socket.
func (e Entry) Socket() bool {
	return e.MetaValid && e.Mode&os.ModeSocket != 0
}

// FIFO reports whether the entry is a named pipe.
func (e Entry) FIFO() bool {
	return e.MetaValid && e.Mode&os.ModeNamedPipe != 0
}

// Ext returns the lower-cased extension without the leading dot.
func (e Entry) Ext() string {
	ext := filepath.Ext(e.Name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(ext[1:])
}
