package extract

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/dshills/esmapper/internal/cache"
	"github.com/dshills/esmapper/internal/catalog"
	"github.com/dshills/esmapper/pkg/mapping"
)

// Extractor turns a document type's property declarations into a mapping
// fragment, recursing into embedded types. As a side effect each extracted
// type's field-name tables are written to the metadata cache, keyed by the
// fully qualified type name.
type Extractor struct {
	catalog *catalog.Catalog
	store   cache.Store

	// saveMu serializes the read-modify-write table merges so concurrent
	// extractions in one process do not drop each other's entries. Writers
	// in other processes remain last-writer-wins.
	saveMu sync.Mutex
}

// New creates an extractor.
func New(c *catalog.Catalog, store cache.Store) *Extractor {
	return &Extractor{catalog: c, store: store}
}

// Extract compiles the mapping fragment for a struct type. Tables for the
// type and for every embedded type reached are rebuilt in the cache; a
// repeated extraction overwrites them rather than merging.
func (e *Extractor) Extract(ctx context.Context, t reflect.Type) (mapping.Fragment, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return e.extract(ctx, t, map[reflect.Type]bool{})
}

func (e *Extractor) extract(ctx context.Context, t reflect.Type, visiting map[reflect.Type]bool) (mapping.Fragment, error) {
	if visiting[t] {
		return nil, fmt.Errorf("%s: %w", mapping.TypeName(t), ErrCircularEmbedding)
	}
	visiting[t] = true
	// Siblings may embed the same type again; only the active chain counts.
	defer delete(visiting, t)

	props, err := e.catalog.Resolve(t)
	if err != nil {
		return nil, err
	}

	className := mapping.TypeName(t)
	objectFields := mapping.FieldTable{}   // Go field name -> schema name
	arrayFields := mapping.FieldTable{}    // schema name -> Go field name
	embeddedFields := mapping.FieldTable{} // Go field name -> embedded type name
	fragment := mapping.Fragment{}

	for _, p := range props {
		for _, decl := range p.Declarations {
			schemaName := decl.SchemaName(p.Name)

			switch d := decl.(type) {
			case mapping.ScalarField:
				fragment[schemaName] = d.Settings()

			case mapping.EmbeddedField:
				kind, err := objectKindOf(d.Target)
				if err != nil {
					return nil, err
				}
				child, err := e.extract(ctx, d.Target, visiting)
				if err != nil {
					return nil, fmt.Errorf("field %s: %w", p.Name, err)
				}

				fm := mapping.Fragment{"type": string(kind)}
				if len(child) > 0 {
					fm["properties"] = child
				}
				fragment[schemaName] = fm
				embeddedFields[p.Name] = mapping.TypeName(d.Target)

			default:
				// closed variant, unreachable
				continue
			}

			objectFields[p.Name] = schemaName
			arrayFields[schemaName] = p.Name
		}
	}

	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if len(embeddedFields) > 0 {
		if err := cache.MergeTable(ctx, e.store, cache.KeyEmbeddedFields, className, embeddedFields); err != nil {
			return nil, err
		}
	}
	// Object and array tables are written even when empty so consumers can
	// tell "extracted, no mapped fields" from "never extracted".
	if err := cache.MergeTable(ctx, e.store, cache.KeyObjectFields, className, objectFields); err != nil {
		return nil, err
	}
	if err := cache.MergeTable(ctx, e.store, cache.KeyArrayFields, className, arrayFields); err != nil {
		return nil, err
	}

	return fragment, nil
}

var (
	objectMarker = reflect.TypeOf((*mapping.ObjectMapped)(nil)).Elem()
	nestedMarker = reflect.TypeOf((*mapping.NestedMapped)(nil)).Elem()
)

// objectKindOf determines the mapping kind of an embeddable type from its
// marker interface. Exactly one marker must be present.
func objectKindOf(t reflect.Type) (mapping.ObjectKind, error) {
	ptr := reflect.PointerTo(t)
	isObject := t.Implements(objectMarker) || ptr.Implements(objectMarker)
	isNested := t.Implements(nestedMarker) || ptr.Implements(nestedMarker)

	switch {
	case isObject && isNested:
		return "", fmt.Errorf("%s: %w", mapping.TypeName(t), ErrAmbiguousObjectKind)
	case isObject:
		return mapping.KindObject, nil
	case isNested:
		return mapping.KindNested, nil
	default:
		return "", fmt.Errorf("%s: %w", mapping.TypeName(t), ErrUnknownObjectKind)
	}
}
