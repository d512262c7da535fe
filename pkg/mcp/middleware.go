package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/anchor-ui/mcp-server/pkg/mcplog"
)

// loggingMiddleware records every tool call as a JSONL entry. NewServer
// only installs it when a tool log is configured.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)
			elapsed := mcplog.Now().Sub(start).Milliseconds()

			entry := mcplog.LogEntry{
				CallID:        mcplog.NewCallID(),
				Ts:            start.UTC().Format(time.RFC3339),
				Tool:          req.Params.Name,
				Params:        mcplog.SanitizeParams(req.GetArguments()),
				DurationMs:    elapsed,
				ResponseBytes: mcplog.ResponseBytes(result),
				IsError:       err != nil || (result != nil && result.IsError),
				NotFound:      isNotFound(result),
			}
			if msg := errorText(result, err); msg != "" {
				entry.Error = &msg
			}
			if werr := s.toolLog.Write(entry); werr != nil {
				s.logger.Warn("tool log write failed", "tool", entry.Tool, "error", werr)
			}

			return result, err
		}
	}
}

func errorText(result *mcp.CallToolResult, err error) string {
	if err != nil {
		return err.Error()
	}
	if result == nil || !result.IsError || len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}
