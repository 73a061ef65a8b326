package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"casa/pkg/api/schema"
	"casa/pkg/db"
	"casa/pkg/discovery"
	"casa/pkg/fleet"
)

// Server wraps the MCP server with Casa's switch fleet functionality
type Server struct {
	mcpServer *server.MCPServer
	db        *db.DB
	commander *fleet.Commander
	runner    *discovery.Runner
	validator *schema.Validator
}

// NewServer creates a new MCP server for fleet control
func NewServer(database *db.DB, commander *fleet.Commander, runner *discovery.Runner, validator *schema.Validator) *Server {
	s := &Server{
		db:        database,
		commander: commander,
		runner:    runner,
		validator: validator,
	}

	s.mcpServer = server.NewMCPServer(
		"casa",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
