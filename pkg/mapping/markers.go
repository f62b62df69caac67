package mapping

// Document is implemented by types that compile to their own index.
// Types without it still compile as embedded objects but produce an empty
// index definition at the top level.
type Document interface {
	ElasticsearchIndex() Index
}

// ObjectMapped marks an embeddable type as mapping to the "object" kind.
// Exactly one of ObjectMapped or NestedMapped must be implemented by a
// type used as an embedded field.
type ObjectMapped interface {
	ElasticsearchObject()
}

// NestedMapped marks an embeddable type as mapping to the "nested" kind.
type NestedMapped interface {
	ElasticsearchNested()
}

// ObjectKind is the mapping kind of an embedded type.
type ObjectKind string

const (
	KindObject ObjectKind = "object"
	KindNested ObjectKind = "nested"
)
