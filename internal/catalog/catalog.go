// Package catalog resolves the ordered property set of a document type,
// walking embedded (anonymous) structs as the inheritance chain. Results
// are memoized per type: later compilation steps rely on a single stable
// resolution, so memoization is part of the contract, not an optimization.
package catalog

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dshills/esmapper/internal/annotation"
	"github.com/dshills/esmapper/pkg/mapping"
)

// Property is one resolved property of a document type: the struct field
// together with its parsed declarations. Declarations are read from the
// annotation source exactly once per type.
type Property struct {
	Name         string
	Field        reflect.StructField
	Declarations []mapping.Declaration
}

// Catalog memoizes property resolution per type. It is safe for concurrent
// use; concurrent resolutions of the same type are collapsed so the
// annotation source is still read only once.
type Catalog struct {
	source annotation.Source

	mu       sync.RWMutex
	resolved map[reflect.Type][]Property
	group    singleflight.Group
}

// New creates a catalog backed by the given annotation source.
func New(source annotation.Source) *Catalog {
	return &Catalog{
		source:   source,
		resolved: make(map[reflect.Type][]Property),
	}
}

// Resolve returns the de-duplicated, ordered property list of a struct
// type. Own fields come first in declaration order; fields promoted from
// embedded structs follow, and an own field shadows a promoted field with
// the same name.
func (c *Catalog) Resolve(t reflect.Type) ([]Property, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("catalog: cannot resolve %s, not a struct", t)
	}

	c.mu.RLock()
	props, ok := c.resolved[t]
	c.mu.RUnlock()
	if ok {
		return props, nil
	}

	v, err, _ := c.group.Do(t.String(), func() (any, error) {
		// Re-check under the group: a previous caller may have stored the
		// result between the RLock miss and the flight.
		c.mu.RLock()
		props, ok := c.resolved[t]
		c.mu.RUnlock()
		if ok {
			return props, nil
		}

		props, err := c.build(t, map[reflect.Type]bool{t: true})
		if err != nil {
			return nil, err
		}
		return props, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Property), nil
}

// Reset drops all memoized resolutions. Tests use this between cases.
func (c *Catalog) Reset() {
	c.mu.Lock()
	c.resolved = make(map[reflect.Type][]Property)
	c.mu.Unlock()
}

// build resolves t and stores the result. The visiting set breaks cycles
// through pointer self-embedding; types already on the chain contribute no
// further fields.
func (c *Catalog) build(t reflect.Type, visiting map[reflect.Type]bool) ([]Property, error) {
	var props []Property
	seen := make(map[string]bool)
	var promoted []reflect.StructField

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			promoted = append(promoted, f)
			continue
		}
		if !f.IsExported() {
			continue
		}
		decls, err := c.source.Declarations(f)
		if err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", t, err)
		}
		props = append(props, Property{Name: f.Name, Field: f, Declarations: decls})
		seen[f.Name] = true
	}

	// Promote fields from embedded structs for names not already taken.
	for _, f := range promoted {
		base := f.Type
		for base.Kind() == reflect.Pointer {
			base = base.Elem()
		}
		if base.Kind() != reflect.Struct || visiting[base] {
			continue
		}

		c.mu.RLock()
		parent, ok := c.resolved[base]
		c.mu.RUnlock()
		if !ok {
			visiting[base] = true
			var err error
			parent, err = c.build(base, visiting)
			delete(visiting, base)
			if err != nil {
				return nil, err
			}
		}
		for _, p := range parent {
			if seen[p.Name] {
				continue
			}
			props = append(props, p)
			seen[p.Name] = true
		}
	}

	c.mu.Lock()
	c.resolved[t] = props
	c.mu.Unlock()
	return props, nil
}
