// Package mcp exposes the schema compiler over the Model Context Protocol
// so agent tooling can inspect an application's index definitions and
// field tables without a custom integration. Three tools are served on
// stdio: compile_schema, list_documents and field_tables.
package mcp
