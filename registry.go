package restrec

import (
	"errors"
	"fmt"
	"sync"
)

// Registry maps type names to their runtime descriptors. Relation loading
// resolves target types through the registry that defined them.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]*Type{}}
}

// Default is the package-level registry used by Define and Resolve.
var Default = NewRegistry()

// Define registers a type described by def. The name must be non-empty and
// unused.
func (reg *Registry) Define(def Definition) (*Type, error) {
	if def.Name == "" {
		return nil, errors.New("restrec: type name is required")
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.types[def.Name]; exists {
		return nil, fmt.Errorf("restrec: type %q already defined", def.Name)
	}
	t := newType(def, reg)
	reg.types[def.Name] = t
	return t, nil
}

// MustDefine is Define that panics on error, for package-level setup.
func (reg *Registry) MustDefine(def Definition) *Type {
	t, err := reg.Define(def)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve returns the type registered under name.
func (reg *Registry) Resolve(name string) (*Type, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	t, ok := reg.types[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return t, nil
}

// Define registers a type in the Default registry.
func Define(def Definition) (*Type, error) { return Default.Define(def) }

// MustDefine registers a type in the Default registry, panicking on error.
func MustDefine(def Definition) *Type { return Default.MustDefine(def) }

// Resolve returns a type from the Default registry.
func Resolve(name string) (*Type, error) { return Default.Resolve(name) }
