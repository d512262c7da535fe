package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/anchor-ui/mcp-server/pkg/catalog"
	"github.com/anchor-ui/mcp-server/pkg/guardrails"
	"github.com/anchor-ui/mcp-server/pkg/metadata"
)

// metaNotFound marks results whose error is an unknown component or part.
const metaNotFound = "notFound"

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString(argCategory, categoryAll)
	if category != categoryAll && !metadata.ValidCategory(category) {
		return mcp.NewToolResultErrorf("Unknown category %q", category), nil
	}
	if category == categoryAll {
		category = ""
	}

	components, err := s.query.List(ctx, category)
	if err != nil {
		return s.internalError("list_components", err), nil
	}
	return jsonResult(components)
}

func (s *Server) handleGetComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString(argComponentName, "")
	if name == "" {
		return mcp.NewToolResultError(argComponentName + " is required"), nil
	}

	info, ok, err := s.query.Get(ctx, name)
	if err != nil {
		return s.internalError("get_component", err), nil
	}
	if !ok {
		return componentNotFound(name), nil
	}
	return jsonResult(info)
}

func (s *Server) handleGetComponentPart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString(argComponentName, "")
	partName := req.GetString(argPartName, "")
	if name == "" || partName == "" {
		return mcp.NewToolResultError(argComponentName + " and " + argPartName + " are required"), nil
	}

	part, ok, err := s.query.GetPart(ctx, name, partName)
	if err != nil {
		return s.internalError("get_component_part", err), nil
	}
	if !ok {
		return notFound(fmt.Sprintf("Part %q not found in component %q", partName, name)), nil
	}
	return jsonResult(part)
}

func (s *Server) handleGetUsageExamples(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString(argComponentName, "")
	if name == "" {
		return mcp.NewToolResultError(argComponentName + " is required"), nil
	}

	examples, ok, err := s.query.GetExamples(ctx, name, catalog.Variant(req.GetString(argVariant, "")))
	if err != nil {
		return s.internalError("get_usage_examples", err), nil
	}
	if !ok {
		return componentNotFound(name), nil
	}
	return jsonResult(examples)
}

func (s *Server) handleValidateCode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := req.GetString(argCode, "")
	if code == "" {
		return mcp.NewToolResultError(argCode + " is required"), nil
	}

	result, err := s.validator.Validate(code, req.GetString(argComponentName, ""))
	if err != nil {
		return s.internalError("validate_code", err), nil
	}
	return jsonResult(result)
}

func (s *Server) handleGetGuardrails(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rules []guardrails.Rule
	if category := req.GetString(argCategory, ""); category != "" {
		rules = s.validator.RulesByCategory(category)
	} else {
		rules = s.validator.Rules()
	}
	return jsonResult(rules)
}

// jsonResult renders v as indented JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func componentNotFound(name string) *mcp.CallToolResult {
	return notFound(fmt.Sprintf("Component %q not found", name))
}

func notFound(msg string) *mcp.CallToolResult {
	result := mcp.NewToolResultError(msg)
	result.Meta = &mcp.Meta{AdditionalFields: map[string]any{metaNotFound: true}}
	return result
}

func isNotFound(result *mcp.CallToolResult) bool {
	if result == nil || result.Meta == nil {
		return false
	}
	v, _ := result.Meta.AdditionalFields[metaNotFound].(bool)
	return v
}

// internalError logs err and reports it to the client as a tool error.
func (s *Server) internalError(tool string, err error) *mcp.CallToolResult {
	s.logger.Error("tool call failed", "tool", tool, "error", err)
	return mcp.NewToolResultErrorFromErr("Error", err)
}
