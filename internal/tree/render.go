package tree

import (
	"fmt"
	"io"
	"math"
	"os/user"
	"strconv"
	"strings"
	"time"

	"treels/internal/config"
	"treels/pkg/types"
)

// Glyph sets for the indentation prefix and the entry connectors.
const (
	glyphTee    = "├── "
	glyphCorner = "└── "
	glyphBar    = "│   "
	glyphBlank  = "    "

	asciiTee    = "|-- "
	asciiCorner = "`-- "
	asciiBar    = "|   "
)

const errorSuffix = " [error opening dir]"

// Renderer turns entries into output lines. It owns the single sink
// for the whole invocation; the summary goes to the same place as the
// entry lines.
type Renderer struct {
	cfg *config.Config
	out io.Writer
	pal *Palette

	owners map[uint32]string
	groups map[uint32]string
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(cfg *config.Config, out io.Writer, pal *Palette) *Renderer {
	return &Renderer{
		cfg:    cfg,
		out:    out,
		pal:    pal,
		owners: make(map[uint32]string),
		groups: make(map[uint32]string),
	}
}

// Root prints the root line, undecorated, the way the path was given.
func (r *Renderer) Root(e types.Entry, readErr bool) {
	line := r.pal.Colorize(e, e.Path)
	if readErr {
		line += errorSuffix
	}
	fmt.Fprintln(r.out, line)
}

// RootMissing prints the line for a root that could not be resolved.
func (r *Renderer) RootMissing(path string) {
	fmt.Fprintln(r.out, path+errorSuffix)
}

// Entry prints one entry line: ancestor prefix, connector, decoration
// block, name, symlink target and classify suffix. readErr marks a
// directory whose children could not be listed.
func (r *Renderer) Entry(e types.Entry, prefix string, readErr bool) {
	var b strings.Builder

	switch {
	case r.cfg.FullPath, r.cfg.NoIndent:
		// Both modes suppress the glyph prefix entirely.
	case e.Last:
		b.WriteString(prefix)
		b.WriteString(r.corner())
	default:
		b.WriteString(prefix)
		b.WriteString(r.tee())
	}

	if block := r.decorations(e); block != "" {
		b.WriteString(block)
		b.WriteString("  ")
	}

	name := e.Name
	if r.cfg.FullPath {
		name = e.Path
	}
	b.WriteString(r.pal.Colorize(e, name))

	if e.Kind == types.Symlink {
		b.WriteString(" -> ")
		b.WriteString(e.Target)
	}
	if r.cfg.Classify {
		b.WriteString(classify(e))
	}
	if readErr {
		b.WriteString(errorSuffix)
	}

	fmt.Fprintln(r.out, b.String())
}

// Summary prints the trailing count line in its fixed form.
func (r *Renderer) Summary(dirs, files int) {
	fmt.Fprintf(r.out, "\n%d directories, %d files\n", dirs, files)
}

// ChildPrefix extends prefix for the children of e: a continuing bar
// while e still has pending siblings, blank padding once it is last.
func (r *Renderer) ChildPrefix(prefix string, e types.Entry) string {
	if e.Last {
		return prefix + glyphBlank
	}
	if r.cfg.ASCII {
		return prefix + asciiBar
	}
	return prefix + glyphBar
}

func (r *Renderer) tee() string {
	if r.cfg.ASCII {
		return asciiTee
	}
	return glyphTee
}

func (r *Renderer) corner() string {
	if r.cfg.ASCII {
		return asciiCorner
	}
	return glyphCorner
}

// decorations builds the bracketed metadata block in its fixed order:
// permissions, owner, group, size, date. Fields a source cannot supply
// render as placeholders.
func (r *Renderer) decorations(e types.Entry) string {
	var fields []string

	if r.cfg.Permissions {
		fields = append(fields, permString(e))
	}
	if r.cfg.Owner {
		fields = append(fields, r.ownerName(e))
	}
	if r.cfg.Group {
		fields = append(fields, r.groupName(e))
	}
	if r.cfg.SizeMode != types.SizeOff {
		fields = append(fields, r.sizeField(e))
	}
	if r.cfg.ModDate {
		if e.MetaValid {
			fields = append(fields, formatDate(e.ModTime))
		} else {
			fields = append(fields, "-")
		}
	}

	if len(fields) == 0 {
		return ""
	}
	return "[" + strings.Join(fields, " ") + "]"
}

func (r *Renderer) sizeField(e types.Entry) string {
	if !e.MetaValid && !e.SizeValid {
		return "-"
	}
	if r.cfg.SizeMode == types.SizeHuman {
		return humanSize(e.Size)
	}
	return strconv.FormatInt(e.Size, 10)
}

func (r *Renderer) ownerName(e types.Entry) string {
	if !e.MetaValid {
		return "?"
	}
	if name, ok := r.owners[e.UID]; ok {
		return name
	}
	name := strconv.FormatUint(uint64(e.UID), 10)
	if u, err := user.LookupId(name); err == nil && u.Username != "" {
		name = u.Username
	}
	r.owners[e.UID] = name
	return name
}

func (r *Renderer) groupName(e types.Entry) string {
	if !e.MetaValid {
		return "?"
	}
	if name, ok := r.groups[e.GID]; ok {
		return name
	}
	name := strconv.FormatUint(uint64(e.GID), 10)
	if g, err := user.LookupGroupId(name); err == nil && g.Name != "" {
		name = g.Name
	}
	r.groups[e.GID] = name
	return name
}

// permString renders a ls-style mode string: type character plus the
// nine rwx bits.
func permString(e types.Entry) string {
	if !e.MetaValid {
		return "??????????"
	}

	var b [10]byte
	switch {
	case e.Kind == types.Dir:
		b[0] = 'd'
	case e.Kind == types.Symlink:
		b[0] = 'l'
	case e.Socket():
		b[0] = 's'
	case e.FIFO():
		b[0] = 'p'
	default:
		b[0] = '-'
	}

	perm := e.Mode.Perm()
	chars := [3]byte{'r', 'w', 'x'}
	for i := 0; i < 9; i++ {
		if perm&(1<<(8-i)) != 0 {
			b[i+1] = chars[i%3]
		} else {
			b[i+1] = '-'
		}
	}
	return string(b[:])
}

// classify returns the file-type indicator suffix: / for directories,
// * for executables, = for sockets, | for FIFOs, nothing for regular
// files.
func classify(e types.Entry) string {
	switch {
	case e.Kind == types.Dir:
		return "/"
	case e.Socket():
		return "="
	case e.FIFO():
		return "|"
	case e.Executable():
		return "*"
	}
	return ""
}

var sizeUnits = [7]string{"B", "K", "M", "G", "T", "P", "E"}

// humanSize scales bytes to the largest unit where the value is still
// at least one, rounded to the nearest whole number.
func humanSize(size int64) string {
	v := float64(size)
	unit := 0
	for unit < len(sizeUnits)-1 && v >= 1024 {
		v /= 1024
		unit++
	}
	if unit == 0 {
		return strconv.FormatInt(size, 10) + "B"
	}
	return strconv.FormatInt(int64(math.Round(v)), 10) + sizeUnits[unit]
}

// formatDate matches the ls convention: recent timestamps show the
// clock time, older ones the year.
func formatDate(t time.Time) string {
	if time.Since(t) > 182*24*time.Hour || time.Until(t) > time.Hour {
		return t.Format("Jan _2  2006")
	}
	return t.Format("Jan _2 15:04")
}
