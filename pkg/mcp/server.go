package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/anchor-ui/mcp-server/pkg/catalog"
	"github.com/anchor-ui/mcp-server/pkg/guardrails"
	"github.com/anchor-ui/mcp-server/pkg/mcplog"
)

const (
	serverName    = "anchor-ui-mcp"
	serverVersion = "1.0.0"
)

// Server implements the MCP server for Anchor UI, exposing catalog queries,
// guardrail validation and one resource per component.
type Server struct {
	mcpServer *server.MCPServer
	query     *catalog.QueryService
	validator *guardrails.Validator
	toolLog   *mcplog.Logger // nil disables the JSONL tool log
	logger    *slog.Logger

	resources resourceSet
}

// NewServer creates a new MCP server backed by the given QueryService and
// Validator. toolLog and logger may be nil.
func NewServer(qs *catalog.QueryService, v *guardrails.Validator, toolLog *mcplog.Logger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{query: qs, validator: v, toolLog: toolLog, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
	}
	if toolLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer(serverName, serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: getComponentTool(), Handler: s.handleGetComponent},
		server.ServerTool{Tool: getComponentPartTool(), Handler: s.handleGetComponentPart},
		server.ServerTool{Tool: getUsageExamplesTool(), Handler: s.handleGetUsageExamples},
		server.ServerTool{Tool: validateCodeTool(), Handler: s.handleValidateCode},
		server.ServerTool{Tool: getGuardrailsTool(), Handler: s.handleGetGuardrails},
	)
	s.mcpServer.AddResourceTemplate(componentResourceTemplate(), s.handleReadComponent)

	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
