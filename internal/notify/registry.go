package notify

import (
	"context"
	"sort"
	"sync"
)

// Registry fans a failure out to every registered reporter, in name order.
type Registry struct {
	mu        sync.RWMutex
	reporters map[string]Reporter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		reporters: make(map[string]Reporter),
	}
}

// Register adds or replaces the reporter stored under name.
func (r *Registry) Register(name string, rep Reporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reporters[name] = rep
}

// Get returns the reporter for the given name, or false if not registered.
func (r *Registry) Get(name string) (Reporter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.reporters[name]
	return rep, ok
}

// Report implements Reporter.
func (r *Registry) Report(ctx context.Context, f Failure) {
	r.mu.RLock()
	names := make([]string, 0, len(r.reporters))
	for name := range r.reporters {
		names = append(names, name)
	}
	sort.Strings(names)
	reps := make([]Reporter, 0, len(names))
	for _, name := range names {
		reps = append(reps, r.reporters[name])
	}
	r.mu.RUnlock()

	for _, rep := range reps {
		rep.Report(ctx, f)
	}
}
