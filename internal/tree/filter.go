package tree

import (
	"strings"

	"github.com/gobwas/glob"

	"treels/internal/config"
	"treels/internal/errors"
	"treels/pkg/types"
)

// Matcher is a compiled wildcard pattern. Alongside the usual `*`, `?`
// and `[...]`/`[^...]` forms it supports `|` as a top-level alternation
// separator: a name matches when any alternative matches.
type Matcher struct {
	globs []glob.Glob
}

// CompileMatcher compiles pattern, or returns nil for the empty pattern.
func CompileMatcher(pattern string) (*Matcher, error) {
	if pattern == "" {
		return nil, nil
	}

	var globs []glob.Glob
	for _, alt := range splitAlternatives(pattern) {
		// gobwas/glob negates classes with '!' where tree uses '^'.
		g, err := glob.Compile(strings.ReplaceAll(alt, "[^", "[!"))
		if err != nil {
			return nil, errors.ConfigErrorf("invalid pattern %q: %v", pattern, err)
		}
		globs = append(globs, g)
	}
	return &Matcher{globs: globs}, nil
}

// Match reports whether name matches any alternative.
func (m *Matcher) Match(name string) bool {
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// splitAlternatives splits on '|' outside character classes.
func splitAlternatives(pattern string) []string {
	var alts []string
	depth := 0
	start := 0
	for i, c := range pattern {
		switch c {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '|':
			if depth == 0 {
				alts = append(alts, pattern[start:i])
				start = i + 1
			}
		}
	}
	return append(alts, pattern[start:])
}

// Filter applies the hidden, include, exclude and directories-only
// rules to one directory's raw children. The per-directory entry limit
// is the walker's concern because it suppresses children while keeping
// the directory itself listed.
type Filter struct {
	include    *Matcher
	exclude    *Matcher
	dirsOnly   bool
	showHidden bool
}

// NewFilter compiles the patterns in cfg into a Filter.
func NewFilter(cfg *config.Config) (*Filter, error) {
	include, err := CompileMatcher(cfg.IncludePattern)
	if err != nil {
		return nil, err
	}
	exclude, err := CompileMatcher(cfg.ExcludePattern)
	if err != nil {
		return nil, err
	}
	return &Filter{
		include:    include,
		exclude:    exclude,
		dirsOnly:   cfg.DirsOnly,
		showHidden: cfg.ShowHidden,
	}, nil
}

// Apply returns the children that survive every rule, in input order.
func (f *Filter) Apply(entries []types.Entry) []types.Entry {
	kept := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		if !f.showHidden && strings.HasPrefix(e.Name, ".") {
			continue
		}
		// Directories are exempt from the include pattern so matching
		// files beneath them stay reachable.
		if f.include != nil && !e.IsDir() && !f.include.Match(e.Name) {
			continue
		}
		// Exclusion wins over inclusion.
		if f.exclude != nil && f.exclude.Match(e.Name) {
			continue
		}
		if f.dirsOnly && !e.IsDir() {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
