// Package typeregistry owns the class descriptors user objects are laid out
// against. Objects in package runtime only hold a descriptor reference; the
// registry keeps descriptors alive and resolves them by name.
package typeregistry

import (
	"fmt"
	"sort"
	"sync"

	"able/valuecore/pkg/runtime"
)

// Registry maps class names to descriptors. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*ClassType
}

func New() *Registry {
	return &Registry{classes: make(map[string]*ClassType)}
}

// Define creates and registers a class. Redefining a name is an error.
func (r *Registry) Define(name string, attributes ...string) (*ClassType, error) {
	if name == "" {
		return nil, fmt.Errorf("typeregistry: empty class name")
	}
	ct, err := NewClassType(name, attributes...)
	if err != nil {
		return nil, err
	}
	if err := r.Register(ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// Register adds an existing descriptor.
func (r *Registry) Register(ct *ClassType) error {
	if ct == nil {
		return fmt.Errorf("typeregistry: nil class")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.classes[ct.name]; exists {
		return fmt.Errorf("typeregistry: class %q already defined", ct.name)
	}
	r.classes[ct.name] = ct
	return nil
}

func (r *Registry) Lookup(name string) (*ClassType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.classes[name]
	return ct, ok
}

// MustLookup panics when name is not registered.
func (r *Registry) MustLookup(name string) *ClassType {
	ct, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("typeregistry: class %q not defined", name))
	}
	return ct
}

// Names lists registered classes in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate builds a fresh object of the named class.
func (r *Registry) Instantiate(name string) (*runtime.Object, error) {
	ct, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("typeregistry: class %q not defined", name)
	}
	return ct.Instantiate(), nil
}
