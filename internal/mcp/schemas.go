package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// compileSchemaTool returns the tool definition for compile_schema
func compileSchemaTool() mcp.Tool {
	return mcp.Tool{
		Name:        "compile_schema",
		Description: "Compile the Elasticsearch index definition (settings and mappings) for a registered document type",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document": map[string]interface{}{
					"type":        "string",
					"description": "Registered document type name (see list_documents)",
				},
			},
			Required: []string{"document"},
		},
	}
}

// listDocumentsTool returns the tool definition for list_documents
func listDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_documents",
		Description: "List registered document types with their index aliases and default-index flags",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// fieldTablesTool returns the tool definition for field_tables
func fieldTablesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "field_tables",
		Description: "Return the field-name lookup tables (Go field to schema name and back, plus embedded types) for a registered document type",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document": map[string]interface{}{
					"type":        "string",
					"description": "Registered document type name (see list_documents)",
				},
			},
			Required: []string{"document"},
		},
	}
}
