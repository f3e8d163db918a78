package tree

import (
	"io"

	"treels/internal/config"
	"treels/internal/errors"
	"treels/internal/log"
	"treels/pkg/types"
)

// Walker drives the depth-first traversal over an explicit work-stack,
// so depth is bounded by memory rather than the call stack. It owns the
// counter and the cycle guard; nothing here runs concurrently.
type Walker struct {
	cfg    *config.Config
	src    Source
	filter *Filter
	r      *Renderer
	guard  *cycleGuard

	dirs     int
	files    int
	walkErrs int
}

// NewWalker wires a walker from its collaborators.
func NewWalker(cfg *config.Config, src Source, filter *Filter, r *Renderer) *Walker {
	return &Walker{cfg: cfg, src: src, filter: filter, r: r}
}

// frame is one level of the active descent: a directory's filtered and
// sorted children, a cursor, and the indentation prefix its children
// inherit. The prefix string doubles as the ancestor
// "more siblings pending" state.
type frame struct {
	children []types.Entry
	next     int
	prefix   string
}

// Walk renders one root and everything beneath it. Root errors are
// returned; per-directory errors are recovered and only counted.
func (w *Walker) Walk(rootPath string) error {
	root, err := w.src.Root(rootPath)
	if err != nil {
		w.r.RootMissing(rootPath)
		return err
	}

	var children []types.Entry
	if root.IsDir() {
		children, err = w.fetchChildren(root)
		if err != nil {
			// An unreadable root is an inaccessible root, not a
			// recoverable per-directory failure.
			w.r.Root(root, true)
			return errors.RootError(rootPath, err)
		}
	}
	w.r.Root(root, false)

	w.guard = &cycleGuard{}
	if w.cfg.FollowLinks {
		w.guard.push(w.realOf(root))
	}

	stack := []*frame{{children: children}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.next >= len(f.children) {
			stack = stack[:len(stack)-1]
			if w.cfg.FollowLinks {
				w.guard.pop()
			}
			continue
		}
		e := f.children[f.next]
		f.next++

		descend, real := w.shouldDescend(e)

		var sub []types.Entry
		var subErr error
		if descend {
			sub, subErr = w.fetchChildren(e)
		}

		w.r.Entry(e, f.prefix, subErr != nil)
		w.count(e)

		if subErr != nil {
			w.walkErrs++
			log.Warnf("%v", subErr)
			continue
		}
		if descend && len(sub) > 0 {
			stack = append(stack, &frame{
				children: sub,
				prefix:   w.r.ChildPrefix(f.prefix, e),
			})
			if w.cfg.FollowLinks {
				w.guard.push(real)
			}
		}
	}
	return nil
}

// shouldDescend decides whether e's children are traversed, honoring
// the depth limit, the follow-symlinks flag and the cycle guard. The
// returned real path feeds the guard chain when descending.
func (w *Walker) shouldDescend(e types.Entry) (bool, string) {
	if w.cfg.MaxDepth > 0 && e.Depth >= w.cfg.MaxDepth {
		return false, ""
	}

	switch {
	case e.Kind == types.Dir:
		if !w.cfg.FollowLinks {
			return true, ""
		}
		return true, w.realOf(e)
	case e.Kind == types.Symlink && e.LinkDir && w.cfg.FollowLinks:
		real, err := realPath(e.Path)
		if err != nil {
			return false, ""
		}
		if w.guard.onChain(real) {
			// A chain revisiting its own ancestor: print the link,
			// refuse the descent. Defined terminal case, not an error.
			log.Debugf("symlink cycle at %s", e.Path)
			return false, ""
		}
		return true, real
	}
	return false, ""
}

func (w *Walker) realOf(e types.Entry) string {
	real, err := realPath(e.Path)
	if err != nil {
		return e.Path
	}
	return real
}

// fetchChildren lists, filters and sorts one directory's children, and
// applies the entry limit: over the limit, the directory keeps its own
// line but none of its children appear.
func (w *Walker) fetchChildren(parent types.Entry) ([]types.Entry, error) {
	raw, err := w.src.Children(parent)
	if err != nil {
		return nil, err
	}

	kept := w.filter.Apply(raw)
	if w.cfg.EntryLimit > 0 && len(kept) > w.cfg.EntryLimit {
		log.Debugf("%s: %d entries over filelimit %d, children suppressed",
			parent.Path, len(kept), w.cfg.EntryLimit)
		return nil, nil
	}

	Sort(kept, w.cfg.SortKey, w.cfg.Reverse, w.cfg.DirsFirst)
	if len(kept) > 0 {
		kept[len(kept)-1].Last = true
	}
	return kept, nil
}

// count tallies an entry at the moment its line is emitted. The root
// itself is never counted.
func (w *Walker) count(e types.Entry) {
	if e.IsDir() {
		w.dirs++
	} else {
		w.files++
	}
}

// Run drives a whole invocation: one walker across all roots, one sink
// for lines and summary. The returned error carries the kind that maps
// to the exit status: nil for a clean run, a root error when any root
// failed, a walk error when only per-directory reads failed.
func Run(cfg *config.Config, src Source, out io.Writer, roots []string) error {
	filter, err := NewFilter(cfg)
	if err != nil {
		return err
	}

	r := NewRenderer(cfg, out, NewPalette(cfg.ColorMode, out))
	w := NewWalker(cfg, src, filter, r)

	var rootErr error
	for _, root := range roots {
		if err := w.Walk(root); err != nil {
			log.Errorf("%v", err)
			if rootErr == nil {
				rootErr = err
			}
		}
	}

	if !cfg.NoSummary {
		r.Summary(w.dirs, w.files)
	}

	if rootErr != nil {
		return rootErr
	}
	if w.walkErrs > 0 {
		return errors.Walkf("%d directories could not be read", w.walkErrs)
	}
	return nil
}
