// Package registry holds the named questionnaire graphs of a deployment and
// owns the global variable table shared by all sessions.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/verdanta/greenflow/pkg/domain"
)

// Registry implements ports.GraphRegistry and ports.GlobalVariables.
// Graphs are registered once at boot (or via the admin import endpoint) and
// handed out as shared read-only values. Global variable writes are
// serialized by the mutex so concurrent sessions never lose updates.
type Registry struct {
	mu      sync.RWMutex
	graphs  map[string]*domain.Graph
	globals map[string]float64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		graphs:  make(map[string]*domain.Graph),
		globals: make(map[string]float64),
	}
}

// Register adds a graph under its name. Re-registering a name replaces the
// graph; in-flight sessions keep the pointer they already resolved.
func (r *Registry) Register(g *domain.Graph) error {
	if g == nil {
		return fmt.Errorf("cannot register nil graph")
	}
	if g.Name == "" {
		return fmt.Errorf("cannot register graph without a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs[g.Name] = g
	return nil
}

// Graph returns the named graph or domain.ErrGraphNotFound.
func (r *Registry) Graph(name string) (*domain.Graph, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.graphs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrGraphNotFound, name)
	}
	return g, nil
}

// Names lists registered graph names, sorted for deterministic output.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.graphs))
	for name := range r.graphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global returns the current value of a global variable, zero if unset.
func (r *Registry) Global(name string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.globals[name]
}

// SetGlobal stores a global variable value.
func (r *Registry) SetGlobal(name string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globals[name] = value
}

// Globals returns a snapshot copy of the global variable table.
func (r *Registry) Globals() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]float64, len(r.globals))
	for k, v := range r.globals {
		snap[k] = v
	}
	return snap
}
