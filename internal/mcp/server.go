// Package mcp exposes the code index to AI agents over the Model Context
// Protocol on stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/agentic/internal/retriever"
	"github.com/ziadkadry99/agentic/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes codebase search tools.
type Server struct {
	retriever *retriever.Retriever
	store     store.Store
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(ret *retriever.Retriever, st store.Store) *Server {
	s := &Server{
		retriever: ret,
		store:     st,
	}

	s.mcp = server.NewMCPServer(
		"agentic",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchCodebaseTool, s.handleSearchCodebase)
	s.mcp.AddTool(indexStatsTool, s.handleIndexStats)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
