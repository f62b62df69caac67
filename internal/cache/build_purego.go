//go:build !sqlite_cgo
// +build !sqlite_cgo

package cache

// This file is compiled when building without the sqlite_cgo tag.
//
// Build command:
//
//	CGO_ENABLED=0 go build ./...
//
// The pure Go implementation needs no C compiler and cross-compiles
// cleanly, which suits schema-build tooling run in CI.
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
