package tree

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"treels/internal/errors"
	"treels/pkg/types"
)

// listingSource reconstructs a hierarchy from a flat list of paths
// instead of reading a real filesystem. Two input formats are
// recognized: newline-separated relative paths (a trailing separator
// marks an explicit directory) and tar listings, both the bare `tar -tf`
// form and the verbose `tar -tvf` form with permission, size and date
// columns. Entries carry no filesystem metadata.
type listingSource struct {
	children map[string][]*listNode // parent rel path ("." = top level) -> ordered children
	nodes    map[string]*listNode
}

type listNode struct {
	name      string
	rel       string
	isDir     bool
	size      int64
	sizeValid bool
}

// NewListingSource parses a path listing from r.
func NewListingSource(r io.Reader) (Source, error) {
	s := &listingSource{
		children: make(map[string][]*listNode),
		nodes:    make(map[string]*listNode),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.RootError("listing input", err)
	}

	if looksLikeTar(lines) {
		for _, line := range lines {
			s.addTarLine(line)
		}
	} else {
		for _, line := range lines {
			s.addSimpleLine(line)
		}
	}
	return s, nil
}

func (s *listingSource) Root(string) (types.Entry, error) {
	// Listings have no real root; everything hangs off ".".
	return types.Entry{Name: ".", Path: ".", Kind: types.Dir}, nil
}

func (s *listingSource) Children(parent types.Entry) ([]types.Entry, error) {
	nodes := s.children[parent.Path]
	entries := make([]types.Entry, 0, len(nodes))
	for _, n := range nodes {
		e := types.Entry{
			Name:      n.name,
			Path:      n.rel,
			Depth:     parent.Depth + 1,
			Size:      n.size,
			SizeValid: n.sizeValid,
			Kind:      types.File,
		}
		if n.isDir {
			e.Kind = types.Dir
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// looksLikeTar reports whether the first few lines resemble `tar -tvf`
// output: a permission column plus at least five more fields.
func looksLikeTar(lines []string) bool {
	for i, line := range lines {
		if i == 5 {
			break
		}
		if len(strings.Fields(line)) >= 6 && hasPermPrefix(line) {
			return true
		}
	}
	return false
}

func hasPermPrefix(line string) bool {
	return strings.HasPrefix(line, "drwx") ||
		strings.HasPrefix(line, "-rw") ||
		strings.HasPrefix(line, "-rwx") ||
		strings.HasPrefix(line, "lrwx")
}

func (s *listingSource) addSimpleLine(line string) {
	isDir := strings.HasSuffix(line, "/")
	clean := strings.TrimSuffix(line, "/")
	if clean == "" {
		return
	}
	s.add(clean, isDir, 0, false)
}

func (s *listingSource) addTarLine(line string) {
	if !strings.HasPrefix(line, "d") && !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "l") {
		// Bare `tar -tf` line mixed into verbose output.
		s.addSimpleLine(line)
		return
	}

	parts := strings.Fields(line)
	if len(parts) < 6 {
		return
	}
	isDir := strings.HasPrefix(parts[0], "d")

	var size int64
	var sizeValid bool
	if n, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
		size = n
		sizeValid = true
	}

	// The path is everything after the last column; symlink lines carry
	// a "path -> target" tail.
	path := parts[len(parts)-1]
	if i := strings.Index(line, " -> "); i >= 0 {
		head := strings.Fields(line[:i])
		path = head[len(head)-1]
	}
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return
	}
	s.add(path, isDir, size, sizeValid)
}

// add records one path, synthesizing any intermediate directories and
// promoting previously-seen files that turn out to have children.
func (s *listingSource) add(rel string, isDir bool, size int64, sizeValid bool) {
	segments := strings.Split(rel, "/")

	parent := "."
	for i, seg := range segments {
		if seg == "" || seg == "." {
			continue
		}
		nodePath := strings.Join(segments[:i+1], "/")
		last := i == len(segments)-1

		n, seen := s.nodes[nodePath]
		if !seen {
			n = &listNode{name: seg, rel: nodePath}
			s.nodes[nodePath] = n
			s.children[parent] = append(s.children[parent], n)
		}
		if last {
			n.isDir = n.isDir || isDir
			if sizeValid {
				n.size = size
				n.sizeValid = true
			}
		} else {
			// An intermediate segment is a directory by construction.
			n.isDir = true
		}
		parent = nodePath
	}
}
