//go:build sqlite_cgo
// +build sqlite_cgo

package cache

// This file is compiled when building with CGO and the sqlite_cgo tag.
//
// Build command:
//
//	CGO_ENABLED=1 go build -tags sqlite_cgo ./...
//
// The C implementation is faster and is the one most hosting images
// already ship; prefer it for long-lived deployments.
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
