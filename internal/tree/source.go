// Package tree implements the traversal, filter, sort and render
// pipeline behind the treels command. The walk is a single synchronous
// depth-first pass driven by an explicit work-stack; entries are
// produced one directory at a time and discarded after rendering.
package tree

import (
	"os"
	"path/filepath"
	"syscall"

	"treels/internal/errors"
	"treels/internal/log"
	"treels/pkg/types"
)

// Source produces the roots and, per directory, the direct children of
// a hierarchy. The filesystem walker and the listing reader both
// satisfy it; the walker never cares which one it is driving.
type Source interface {
	// Root resolves a root location into an Entry at depth 0.
	Root(path string) (types.Entry, error)
	// Children returns the direct children of a directory-like entry,
	// unfiltered and unsorted, each at parent depth + 1.
	Children(parent types.Entry) ([]types.Entry, error)
}

// fsSource reads real directories.
type fsSource struct{}

// NewFilesystemSource returns a Source backed by the real filesystem.
func NewFilesystemSource() Source {
	return &fsSource{}
}

func (s *fsSource) Root(path string) (types.Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return types.Entry{}, errors.RootError(path, err)
	}
	// The root keeps the path exactly as the user gave it.
	return entryFromInfo(path, path, info, 0), nil
}

func (s *fsSource) Children(parent types.Entry) ([]types.Entry, error) {
	dirents, err := os.ReadDir(parent.Path)
	if err != nil {
		return nil, errors.WalkError(parent.Path, err)
	}

	entries := make([]types.Entry, 0, len(dirents))
	for _, d := range dirents {
		full := filepath.Join(parent.Path, d.Name())
		info, err := os.Lstat(full)
		if err != nil {
			// The entry vanished between ReadDir and Lstat.
			log.Warnf("skipping %s: %v", full, err)
			continue
		}
		entries = append(entries, entryFromInfo(d.Name(), full, info, parent.Depth+1))
	}
	return entries, nil
}

func entryFromInfo(name, path string, info os.FileInfo, depth int) types.Entry {
	e := types.Entry{
		Name:      name,
		Path:      path,
		Depth:     depth,
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		Mode:      info.Mode(),
		MetaValid: true,
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		e.Kind = types.Symlink
		if target, err := os.Readlink(path); err == nil {
			e.Target = target
		}
		if ti, err := os.Stat(path); err == nil && ti.IsDir() {
			e.LinkDir = true
		}
	case info.IsDir():
		e.Kind = types.Dir
	default:
		e.Kind = types.File
	}

	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		e.UID = uint32(st.Uid)
		e.GID = uint32(st.Gid)
	}
	return e
}
