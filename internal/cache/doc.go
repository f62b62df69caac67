// Package cache is the persistent metadata cache the extractor writes its
// field-name lookup tables into. The hydration layer of the consuming
// application reads the same store to translate between Go field names and
// schema field names, possibly from a different process.
//
// Three drivers are provided: memory (tests, one-shot builds), SQLite
// (file-shared, driver selected by build tag, see build_cgo.go and
// build_purego.go) and Redis (multi-process deployments).
//
// The store is key→value with contains/fetch/save semantics. Writes are
// last-writer-wins per key; the object, array and embedded tables are
// written as separate keys, so a concurrent reader can observe one table
// updated and another stale.
package cache
