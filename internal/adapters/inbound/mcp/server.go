package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/testology/psyengine/internal/application"
)

const (
	serverName    = "psyengine"
	serverVersion = "0.1.0"
)

// Services are the application entry points exposed over MCP.
type Services struct {
	Score     *application.ScoreService
	Recommend *application.RecommendService
}

// NewPsyEngineMCPServer creates an MCP server with every psyengine tool and
// resource registered.
func NewPsyEngineMCPServer(svc Services) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, svc)
	registerResources(s, svc)

	return s
}
