// Package workspace tracks the project roots the shell has open.
//
// The document lifecycle consults it for one decision: whether a file
// lives inside an open project (which makes it runnable when the project
// carries an index.html).
package workspace

import (
	"strings"
	"sync"
)

// Roots is the set of open project roots.
//
// Roots is safe for concurrent use.
type Roots struct {
	mu    sync.RWMutex
	roots map[string]bool
}

// NewRoots creates an empty root set.
func NewRoots() *Roots {
	return &Roots{roots: make(map[string]bool)}
}

// Add registers an open project root.
func (r *Roots) Add(root string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots[strings.TrimSuffix(root, "/")] = true
}

// Remove unregisters a project root.
func (r *Roots) Remove(root string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roots, strings.TrimSuffix(root, "/"))
}

// Find returns the deepest open root containing the URI.
func (r *Roots) Find(uri string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best string
	for root := range r.roots {
		if !strings.HasPrefix(uri, root+"/") && uri != root {
			continue
		}
		if len(root) > len(best) {
			best = root
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// All returns the open roots in no particular order.
func (r *Roots) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.roots))
	for root := range r.roots {
		out = append(out, root)
	}
	return out
}
