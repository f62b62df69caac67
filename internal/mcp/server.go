package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/esmapper/internal/cache"
	"github.com/dshills/esmapper/internal/compile"
	"github.com/dshills/esmapper/internal/config"
	"github.com/dshills/esmapper/pkg/mapping"
)

const (
	// ServerName is the MCP server name
	ServerName = "esmapper"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	compiler *compile.Compiler
	registry *mapping.Registry
	store    cache.Store
}

// NewServer creates a new MCP server instance over the given document
// registry and process configuration.
func NewServer(reg *mapping.Registry, cfg *config.Config) (*Server, error) {
	store, err := cfg.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata cache: %w", err)
	}

	analysisCfg, err := cfg.LoadAnalysis()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load analysis config: %w", err)
	}

	compiler := compile.New(store, compile.WithAnalysisConfig(analysisCfg))

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		compiler: compiler,
		registry: reg,
		store:    store,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(compileSchemaTool(), s.handleCompileSchema)
	s.mcp.AddTool(listDocumentsTool(), s.handleListDocuments)
	s.mcp.AddTool(fieldTablesTool(), s.handleFieldTables)
}
