// Package extract implements the field metadata extractor: the recursive
// walk that turns a document type's property declarations into a mapping
// fragment and the field-name lookup tables.
//
// For each resolved property the extractor derives the schema field name
// (explicit override or snake-cased Go name), builds the field settings
// with empty facets dropped, and for embedded fields recurses into the
// target type, nesting its fragment under "properties". Three tables are
// produced per type and written to the metadata cache: Go field→schema
// name, schema name→Go field, and Go field→embedded type name.
//
// Embedding a type that declares neither marker interface, or both, or
// that embeds itself through any chain, aborts extraction with a distinct
// error.
package extract
