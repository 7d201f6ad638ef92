package tools

import (
	"time"

	"github.com/mark3labs/mcp-go/server"
)

// Endpoint paths served by the MCP transports.
const (
	SSEPath        = "/sse"
	SSEMessagePath = "/sse/message"
	StreamablePath = "/mcp"
)

// sseKeepAlive pings idle SSE sessions so dead clients are noticed.
const sseKeepAlive = 30 * time.Second

// NewServer builds an MCP server with every tool registered.
func NewServer(name, version string, d *Dispatcher) *server.MCPServer {
	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
	)
	d.Register(s)
	return s
}

// NewSSEServer serves the legacy SSE transport on /sse and /sse/message.
func NewSSEServer(s *server.MCPServer) *server.SSEServer {
	return server.NewSSEServer(s,
		server.WithSSEEndpoint(SSEPath),
		server.WithMessageEndpoint(SSEMessagePath),
		server.WithKeepAliveInterval(sseKeepAlive),
	)
}

// NewStreamableServer serves the streamable HTTP transport on /mcp.
func NewStreamableServer(s *server.MCPServer) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s,
		server.WithEndpointPath(StreamablePath),
	)
}
