package mapping

// DefaultTypeName is the legacy mapping type name used when an index
// declaration does not override it. Modern Elasticsearch accepts only a
// single type per index, conventionally "_doc".
const DefaultTypeName = "_doc"

// Index is the index-level declaration attached to a document type.
// A document type opts in by implementing the Document interface; all
// fields are optional and zero values are replaced with defaults during
// compilation.
type Index struct {
	// Alias is the index alias. Defaults to the snake-cased type name.
	Alias string
	// Default marks this document's index as the application default.
	Default bool
	// TypeName is the legacy mapping type name. Defaults to DefaultTypeName.
	TypeName string
	// Settings holds free-form index settings (number_of_shards, ...).
	Settings map[string]any
}

// Fragment is a recursive mapping tree: schema field name to field settings.
// Embedded fields carry their child Fragment under the "properties" key.
type Fragment map[string]any

// AnalysisConfig maps an analysis component kind (analyzer, tokenizer,
// filter, normalizer, char_filter) to named component definitions.
type AnalysisConfig map[string]map[string]any

// IndexDefinition is the compiled index document shipped to the search
// engine: settings plus mappings, with empty values pruned.
type IndexDefinition map[string]any

// Settings returns the "settings" section, or nil when absent.
func (d IndexDefinition) Settings() map[string]any {
	s, _ := d["settings"].(map[string]any)
	return s
}

// Mappings returns the "mappings" section, or nil when absent.
func (d IndexDefinition) Mappings() map[string]any {
	m, _ := d["mappings"].(map[string]any)
	return m
}

// Empty reports whether the definition carries no content, which is the
// compiler's result for types without an index declaration.
func (d IndexDefinition) Empty() bool {
	return len(d) == 0
}

// FieldTable is a flat field-name lookup table. Depending on the cache key
// it maps Go field names to schema names, schema names to Go field names,
// or Go field names to embedded type names.
type FieldTable map[string]string
