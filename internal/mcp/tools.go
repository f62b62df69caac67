package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/esmapper/internal/cache"
	"github.com/dshills/esmapper/pkg/mapping"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeUnknownDocument = -32001 // Document name not registered
	ErrorCodeCompileFailed   = -32002 // Declarations could not be compiled
)

// handleCompileSchema handles the compile_schema tool invocation
func (s *Server) handleCompileSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, mcpErr := s.documentParam(request)
	if mcpErr != nil {
		return nil, mcpErr
	}

	def, err := s.compiler.Compile(ctx, t)
	if err != nil {
		return nil, newMCPError(ErrorCodeCompileFailed, "compilation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"document":   t.Name(),
		"alias":      s.compiler.Alias(t),
		"default":    s.compiler.IsDefault(t),
		"definition": def,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListDocuments handles the list_documents tool invocation
func (s *Server) handleListDocuments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documents := make([]map[string]interface{}, 0, len(s.registry.Names()))
	for _, t := range s.registry.Types() {
		decl := s.compiler.Declaration(t)
		entry := map[string]interface{}{
			"document": t.Name(),
			"type":     mapping.TypeName(t),
			"declared": decl != nil,
		}
		if decl != nil {
			entry["alias"] = decl.Alias
			entry["default"] = decl.Default
		}
		documents = append(documents, entry)
	}

	response := map[string]interface{}{
		"count":     len(documents),
		"documents": documents,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFieldTables handles the field_tables tool invocation. Compilation
// runs first so the tables reflect the current declarations, then the
// per-class tables are read back from the metadata cache.
func (s *Server) handleFieldTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t, mcpErr := s.documentParam(request)
	if mcpErr != nil {
		return nil, mcpErr
	}

	if _, err := s.compiler.Compile(ctx, t); err != nil {
		return nil, newMCPError(ErrorCodeCompileFailed, "compilation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	className := mapping.TypeName(t)
	response := map[string]interface{}{
		"document": t.Name(),
		"type":     className,
	}
	for field, key := range map[string]string{
		"object_fields":   cache.KeyObjectFields,
		"array_fields":    cache.KeyArrayFields,
		"embedded_fields": cache.KeyEmbeddedFields,
	} {
		tables, err := cache.FetchTables(ctx, s.store, key)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "metadata cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		response[field] = tables[className]
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// documentParam extracts and resolves the required "document" parameter.
func (s *Server) documentParam(request mcp.CallToolRequest) (reflect.Type, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["document"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "document parameter is required", map[string]interface{}{
			"param":  "document",
			"reason": "missing or empty",
		})
	}

	t, ok := s.registry.Lookup(name)
	if !ok {
		return nil, newMCPError(ErrorCodeUnknownDocument, "document is not registered", map[string]interface{}{
			"document":   name,
			"registered": s.registry.Names(),
		})
	}
	return t, nil
}

func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a response map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}
