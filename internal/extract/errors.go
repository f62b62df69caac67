package extract

import "errors"

var (
	// ErrUnknownObjectKind means an embedded type declares neither the
	// object nor the nested marker.
	ErrUnknownObjectKind = errors.New("embedded type must be declared object or nested")

	// ErrAmbiguousObjectKind means an embedded type declares both markers.
	// The declaring author almost certainly intended only one; failing is
	// safer than picking.
	ErrAmbiguousObjectKind = errors.New("embedded type declares both object and nested")

	// ErrCircularEmbedding means a type embeds itself, directly or through
	// a chain of embedded fields.
	ErrCircularEmbedding = errors.New("circular embedding")
)
