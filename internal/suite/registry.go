package suite

import (
	"fmt"
	"sync"
)

// Registry holds suites in registration order.
type Registry struct {
	mu     sync.Mutex
	suites []Suite
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends s. Suites with the same name are kept in order and all run.
func (r *Registry) Add(s Suite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suites = append(r.suites, s)
}

// All returns the registered suites in registration order.
func (r *Registry) All() []Suite {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Suite, len(r.suites))
	copy(out, r.suites)
	return out
}

// Resolve returns the suites with the given names, in the order of names.
// An empty names list selects every suite. Unknown names are an error.
func (r *Registry) Resolve(names ...string) ([]Suite, error) {
	all := r.All()
	if len(names) == 0 {
		return all, nil
	}
	var out []Suite
	for _, name := range names {
		found := false
		for _, s := range all {
			if s.Name() == name {
				out = append(out, s)
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown suite %q", name)
		}
	}
	return out, nil
}

// Default is the registry that Register adds to. Programs that link suites
// into the binary register them from init functions.
var Default = NewRegistry()

// Register adds s to Default.
func Register(s Suite) {
	Default.Add(s)
}
