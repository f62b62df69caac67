// Package compile assembles complete index definitions: settings from the
// index declaration plus the minimized analysis configuration, and
// mappings from the extracted property fragment, keyed by the legacy type
// name. It also exposes the alias accessors and the alias→type reverse
// lookup backed by the metadata cache.
package compile
