// Package mcp exposes block indexing and search over the Model Context
// Protocol so AI agents can query indexed projects directly.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/blockdex/internal/indexer"
	"github.com/ziadkadry99/blockdex/internal/project"
	"github.com/ziadkadry99/blockdex/internal/search"
	"github.com/ziadkadry99/blockdex/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes block search tools.
type Server struct {
	store    store.Store
	projects *project.Manager
	engine   *search.Engine
	indexer  *indexer.Indexer
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(st store.Store, projects *project.Manager, engine *search.Engine, ix *indexer.Indexer) *Server {
	s := &Server{
		store:    st,
		projects: projects,
		engine:   engine,
		indexer:  ix,
	}

	s.mcp = server.NewMCPServer(
		"blockdex",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchBlocksTool, s.handleSearchBlocks)
	s.mcp.AddTool(indexProjectTool, s.handleIndexProject)
	s.mcp.AddTool(listProjectsTool, s.handleListProjects)
	s.mcp.AddTool(projectSummaryTool, s.handleProjectSummary)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
