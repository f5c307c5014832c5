package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/hexagonal/internal/application"
)

// NewUsersMCPServer creates an MCP server exposing svc as tools and resources.
func NewUsersMCPServer(svc *application.UserService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"hexagonal-users",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svc)
	registerResources(s, svc)

	return s
}
