package tree

import "path/filepath"

// cycleGuard tracks the resolved real paths of the directories on the
// current descent. Only a chain revisiting its own ancestor is a cycle;
// a directory reachable through two unrelated symlink chains is visited
// once per chain.
type cycleGuard struct {
	chain []string
}

func (g *cycleGuard) push(real string) {
	g.chain = append(g.chain, real)
}

func (g *cycleGuard) pop() {
	if len(g.chain) > 0 {
		g.chain = g.chain[:len(g.chain)-1]
	}
}

// onChain reports whether real is already an ancestor of the descent.
func (g *cycleGuard) onChain(real string) bool {
	for _, p := range g.chain {
		if p == real {
			return true
		}
	}
	return false
}

func realPath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}
