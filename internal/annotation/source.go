// Package annotation reads the declarations attached to document types:
// the index declaration from the Document interface and property
// declarations from "es" struct tags.
package annotation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/esmapper/pkg/mapping"
)

// TagName is the struct tag read for property declarations.
const TagName = "es"

// Source supplies the declarations attached to document types and their
// fields. Absence of a declaration is a valid "not annotated" signal, not
// an error. The interface exists so tests can substitute instrumented
// sources.
type Source interface {
	// Index returns the index-level declaration for a type, with defaults
	// applied, and whether the type carries one at all.
	Index(t reflect.Type) (mapping.Index, bool)

	// Declarations returns the property declarations for a struct field.
	// Fields without an "es" tag yield none.
	Declarations(f reflect.StructField) ([]mapping.Declaration, error)
}

// TagSource reads declarations from marker interfaces and "es" struct tags.
// It is stateless and safe for concurrent use.
type TagSource struct{}

var timeType = reflect.TypeOf(time.Time{})

// Index implements Source. The declaration comes from the Document
// interface; the pointer method set is checked so both receiver forms work.
func (TagSource) Index(t reflect.Type) (mapping.Index, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return mapping.Index{}, false
	}

	doc, ok := reflect.New(t).Interface().(mapping.Document)
	if !ok {
		return mapping.Index{}, false
	}

	decl := doc.ElasticsearchIndex()
	if decl.Alias == "" {
		decl.Alias = mapping.SnakeCase(t.Name())
	}
	if decl.TypeName == "" {
		decl.TypeName = mapping.DefaultTypeName
	}
	return decl, true
}

// Declarations implements Source.
func (TagSource) Declarations(f reflect.StructField) ([]mapping.Declaration, error) {
	tag, ok := f.Tag.Lookup(TagName)
	if !ok || tag == "-" {
		return nil, nil
	}

	name, opts, err := parseTag(tag)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Name, err)
	}

	base, repeated := baseType(f.Type)
	if base.Kind() == reflect.Struct && base != timeType {
		if len(opts) > 0 {
			return nil, fmt.Errorf("field %s: embedded fields take no settings, got %v", f.Name, optKeys(opts))
		}
		return []mapping.Declaration{mapping.EmbeddedField{
			Name:     name,
			Target:   base,
			Repeated: repeated,
		}}, nil
	}

	d := mapping.ScalarField{Name: name}
	for key, value := range opts {
		switch key {
		case "type":
			d.Type = value
		case "analyzer":
			d.Analyzer = value
		case "search_analyzer":
			d.SearchAnalyzer = value
		case "search_quote_analyzer":
			d.SearchQuoteAnalyzer = value
		default:
			if d.Extra == nil {
				d.Extra = make(map[string]any)
			}
			d.Extra[key] = coerce(value)
		}
	}
	return []mapping.Declaration{d}, nil
}

// parseTag splits an "es" tag into the optional schema name override and
// its key=value options. The name is always the first element, possibly
// empty: `es:",type=text"` derives the name from the field.
func parseTag(tag string) (name string, opts map[string]string, err error) {
	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found || key == "" {
			return "", nil, fmt.Errorf("malformed %s tag option %q", TagName, part)
		}
		if opts == nil {
			opts = make(map[string]string)
		}
		opts[key] = value
	}
	return name, opts, nil
}

// baseType strips pointers, slices and arrays, reporting whether the field
// is multi-valued.
func baseType(t reflect.Type) (base reflect.Type, repeated bool) {
	for {
		switch t.Kind() {
		case reflect.Pointer:
			t = t.Elem()
		case reflect.Slice, reflect.Array:
			repeated = true
			t = t.Elem()
		default:
			return t, repeated
		}
	}
}

// coerce turns tag option values into typed settings so that numeric and
// boolean options survive JSON encoding as their natural types.
func coerce(value string) any {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

func optKeys(opts map[string]string) []string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	return keys
}
