package container

import (
	"fmt"
	"sync"
)

// Registry holds bean definitions keyed by name, preserving insertion
// order. It is mutable until the engine drains it during Refresh; the
// engine never mutates it.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*BeanDefinition
	order []string
}

func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]*BeanDefinition),
	}
}

func (r *Registry) Register(def *BeanDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return NewError(
			ErrCodeDuplicateBean,
			fmt.Sprintf("bean already registered under name %q", def.Name),
			nil,
		).WithBean(def.Name)
	}

	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

func (r *Registry) Get(name string) (*BeanDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.defs[name]
	return def, exists
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.defs[name]
	return exists
}

// All returns the definitions in registration order.
func (r *Registry) All() []*BeanDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*BeanDefinition, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.defs[name])
	}
	return all
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.defs)
}

// Clear resets the registry to empty. Meant for test isolation and
// re-composition, not for use during resolution.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defs = make(map[string]*BeanDefinition)
	r.order = nil
}
