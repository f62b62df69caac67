package mapping

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry tracks the document types known to an application. Go has no
// classpath scanning, so documents are registered explicitly, usually from
// an init function or application wiring code. Registration order is
// preserved for deterministic iteration.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]reflect.Type)}
}

// Register adds a document type, given as a value or pointer of the type.
// Registering a non-struct or a duplicate name is an error.
func (r *Registry) Register(doc any) error {
	t := reflect.TypeOf(doc)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("register: document must be a struct, got %T", doc)
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("register: anonymous struct types cannot be registered")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("register: document %q already registered", name)
	}
	r.byName[name] = t
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register, panicking on error. Intended for init-time wiring.
func (r *Registry) MustRegister(doc any) {
	if err := r.Register(doc); err != nil {
		panic(err)
	}
}

// Lookup returns the type registered under the given short name.
func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Names returns registered document names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Types returns registered document types in registration order.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]reflect.Type, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}
