package mapping

import "reflect"

// Declaration is a property-level declaration parsed from a struct tag.
// It is a closed variant: ScalarField or EmbeddedField.
type Declaration interface {
	// SchemaName returns the wire name for the property, falling back to
	// the snake-cased Go field name when no override was declared.
	SchemaName(fieldName string) string
}

// ScalarField declares a leaf schema field.
type ScalarField struct {
	// Name is the explicit schema field name override, empty when derived.
	Name string
	// Type is the Elasticsearch field type (text, keyword, date, ...).
	Type string

	Analyzer            string
	SearchAnalyzer      string
	SearchQuoteAnalyzer string

	// Extra holds additional declared settings (format, ignore_above, ...).
	Extra map[string]any
}

// SchemaName implements Declaration.
func (d ScalarField) SchemaName(fieldName string) string {
	if d.Name != "" {
		return d.Name
	}
	return SnakeCase(fieldName)
}

// Settings builds the field-mapping fragment for the declaration.
// Empty facets are dropped so that only declared settings are emitted.
func (d ScalarField) Settings() Fragment {
	f := Fragment{}
	for k, v := range d.Extra {
		if v == nil || v == "" {
			continue
		}
		f[k] = v
	}
	set := func(key, value string) {
		if value != "" {
			f[key] = value
		}
	}
	set("type", d.Type)
	set("analyzer", d.Analyzer)
	set("search_analyzer", d.SearchAnalyzer)
	set("search_quote_analyzer", d.SearchQuoteAnalyzer)
	return f
}

// EmbeddedField declares a field whose value is a structured sub-document.
// The mapping kind (object or nested) is derived from the target type's
// marker interface, not from the declaration itself.
type EmbeddedField struct {
	// Name is the explicit schema field name override, empty when derived.
	Name string
	// Target is the embedded struct type, with pointers and slices stripped.
	Target reflect.Type
	// Repeated records whether the Go field is a slice or array. The search
	// engine does not distinguish single from multi-valued fields, so this
	// only informs hydration outside the compiler.
	Repeated bool
}

// SchemaName implements Declaration.
func (d EmbeddedField) SchemaName(fieldName string) string {
	if d.Name != "" {
		return d.Name
	}
	return SnakeCase(fieldName)
}
