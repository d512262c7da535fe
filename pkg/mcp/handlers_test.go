package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchor-ui/mcp-server/pkg/catalog"
	"github.com/anchor-ui/mcp-server/pkg/guardrails"
	"github.com/anchor-ui/mcp-server/pkg/mcplog"
	"github.com/anchor-ui/mcp-server/pkg/reference"
	"github.com/anchor-ui/mcp-server/pkg/util"
)

// --- helpers ---

var referenceFiles = map[string]string{
	"dialog-root.json": `{
		"description": "Groups all parts of the dialog.",
		"props": {"open": {"type": "boolean"}, "defaultOpen": {"type": "boolean", "default": false}}
	}`,
	"dialog-trigger.json": `{"description": "A button that opens the dialog."}`,
	"dialog-portal.json":  `{}`,
	"dialog-popup.json":   `{}`,
	"slider-root.json":    `{"description": "Groups all parts of the slider."}`,
	"slider-thumb.json":   `{}`,
}

func writeReference(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range referenceFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newTestServer(t *testing.T, dir string, toolLog *mcplog.Logger) *Server {
	t.Helper()
	store, err := reference.NewStore(dir, reference.WithLogger(util.Discard()))
	require.NoError(t, err)
	b := catalog.NewBuilder(store, nil, catalog.Options{Logger: util.Discard()})
	return NewServer(catalog.NewQueryService(b), guardrails.NewValidator(nil), toolLog, util.Discard())
}

func testServer(t *testing.T) *Server {
	return newTestServer(t, writeReference(t), nil)
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	tool := s.mcpServer.GetTool(req.Params.Name)
	require.NotNil(t, tool, "unknown tool: %s", req.Params.Name)

	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- list_components ---

func TestHandleListComponents_All(t *testing.T) {
	s := testServer(t)
	for _, args := range []map[string]any{nil, {"category": "all"}} {
		result := callTool(t, s, makeRequest("list_components", args))
		assert.False(t, result.IsError)

		var comps []catalog.ComponentInfo
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &comps))
		require.Len(t, comps, 2)
		assert.Equal(t, "Dialog", comps[0].Name)
		assert.Equal(t, "Slider", comps[1].Name)
	}
}

func TestHandleListComponents_ByCategory(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("list_components", map[string]any{"category": "form"}))

	var comps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &comps))
	require.Len(t, comps, 1)
	assert.Equal(t, "Slider", comps[0]["name"])
}

func TestHandleListComponents_UnknownCategory(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("list_components", map[string]any{"category": "widgets"}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), `"widgets"`)
}

func TestHandleListComponents_ReferenceDirRemoved(t *testing.T) {
	dir := writeReference(t)
	s := newTestServer(t, dir, nil)
	require.NoError(t, os.RemoveAll(dir))

	result := callTool(t, s, makeRequest("list_components", nil))
	assert.True(t, result.IsError)
}

// --- get_component ---

func TestHandleGetComponent(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component", map[string]any{"componentName": "Dialog"}))
	assert.False(t, result.IsError)

	var info catalog.ComponentInfo
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &info))
	assert.Equal(t, "Dialog", info.Name)
	assert.Equal(t, "Root", info.Parts[0].Name)
	assert.Subset(t, info.Composition.RequiredParts, []string{"Trigger", "Portal", "Popup"})
}

func TestHandleGetComponent_NotFound(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component", map[string]any{"componentName": "NoSuchComponent"}))
	assert.True(t, result.IsError)
	assert.True(t, isNotFound(result))
	assert.Equal(t, `Component "NoSuchComponent" not found`, resultText(t, result))
}

func TestHandleGetComponent_MissingArgument(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component", nil))
	assert.True(t, result.IsError)
	assert.False(t, isNotFound(result))
	assert.Equal(t, "componentName is required", resultText(t, result))
}

// --- get_component_part ---

func TestHandleGetComponentPart(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component_part", map[string]any{
		"componentName": "Dialog",
		"partName":      "Trigger",
	}))
	assert.False(t, result.IsError)

	var part catalog.ComponentPart
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &part))
	assert.Equal(t, "Trigger", part.Name)
	assert.Equal(t, "button", part.ElementType)
	assert.Equal(t, "A button that opens the dialog.", part.Description)
}

func TestHandleGetComponentPart_NotFound(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component_part", map[string]any{
		"componentName": "Dialog",
		"partName":      "Panel",
	}))
	assert.True(t, result.IsError)
	assert.True(t, isNotFound(result))
	assert.Equal(t, `Part "Panel" not found in component "Dialog"`, resultText(t, result))
}

func TestHandleGetComponentPart_MissingArgument(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_component_part", map[string]any{"componentName": "Dialog"}))
	assert.True(t, result.IsError)
	assert.Equal(t, "componentName and partName are required", resultText(t, result))
}

// --- get_usage_examples ---

func TestHandleGetUsageExamples(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_usage_examples", map[string]any{"componentName": "Slider"}))
	assert.False(t, result.IsError)

	var examples []catalog.UsageExample
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &examples))
	require.Len(t, examples, 2)
	assert.Equal(t, catalog.VariantBasic, examples[0].Variant)
}

func TestHandleGetUsageExamples_Variant(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_usage_examples", map[string]any{
		"componentName": "Slider",
		"variant":       "controlled",
	}))

	var examples []catalog.UsageExample
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &examples))
	require.Len(t, examples, 1)
	assert.Equal(t, catalog.VariantControlled, examples[0].Variant)
	assert.Contains(t, examples[0].Code, "onValueChange")
}

func TestHandleGetUsageExamples_NoMatchingVariant(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_usage_examples", map[string]any{
		"componentName": "Slider",
		"variant":       "custom",
	}))
	assert.False(t, result.IsError)
	assert.Equal(t, "[]", resultText(t, result))
}

func TestHandleGetUsageExamples_NotFound(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_usage_examples", map[string]any{"componentName": "Nope"}))
	assert.True(t, result.IsError)
	assert.True(t, isNotFound(result))
}

// --- validate_code ---

func TestHandleValidateCode(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("validate_code", map[string]any{
		"code": "<div style={{color: 'red'}}>",
	}))
	assert.False(t, result.IsError)

	var vr guardrails.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &vr))
	assert.False(t, vr.Valid)
	require.NotEmpty(t, vr.Errors)
	assert.Equal(t, "no-inline-styles", vr.Errors[0].Rule)
	assert.Equal(t, 1, vr.Errors[0].Line)
}

func TestHandleValidateCode_Clean(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("validate_code", map[string]any{
		"code":          "<Slider.Thumb className=\"thumb\" />",
		"componentName": "Slider",
	}))

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &raw))
	assert.Equal(t, true, raw["valid"])
	assert.Equal(t, []any{}, raw["errors"])
	assert.Equal(t, []any{}, raw["warnings"])
	assert.Equal(t, []any{}, raw["suggestions"])
}

func TestHandleValidateCode_MissingCode(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("validate_code", map[string]any{"code": ""}))
	assert.True(t, result.IsError)
	assert.Equal(t, "code is required", resultText(t, result))
}

func TestHandleValidateCode_BadRule(t *testing.T) {
	store, err := reference.NewStore(writeReference(t), reference.WithLogger(util.Discard()))
	require.NoError(t, err)
	qs := catalog.NewQueryService(catalog.NewBuilder(store, nil, catalog.Options{Logger: util.Discard()}))
	bad := guardrails.NewValidator([]guardrails.Rule{{ID: "broken", Pattern: "(", Severity: guardrails.SeverityError}})
	s := NewServer(qs, bad, nil, util.Discard())

	result := callTool(t, s, makeRequest("validate_code", map[string]any{"code": "x"}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "broken")
}

// --- get_guardrails ---

func TestHandleGetGuardrails(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_guardrails", nil))

	var rules []guardrails.Rule
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &rules))
	assert.Len(t, rules, len(guardrails.DefaultRules()))
}

func TestHandleGetGuardrails_Category(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, makeRequest("get_guardrails", map[string]any{"category": guardrails.CategoryComposition}))

	var rules []guardrails.Rule
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &rules))
	require.NotEmpty(t, rules)
	for _, r := range rules {
		assert.Equal(t, guardrails.CategoryComposition, r.Category)
	}
}

// --- resources ---

func readRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{Params: mcp.ReadResourceParams{URI: uri}}
}

func TestReadComponentResource(t *testing.T) {
	s := testServer(t)
	contents, err := s.handleReadComponent(context.Background(), readRequest("anchor-ui://component/Dialog"))
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)
	assert.Equal(t, "anchor-ui://component/Dialog", text.URI)

	var info catalog.ComponentInfo
	require.NoError(t, json.Unmarshal([]byte(text.Text), &info))
	assert.Equal(t, "Dialog", info.Name)
}

func TestReadComponentResource_Errors(t *testing.T) {
	s := testServer(t)
	_, err := s.handleReadComponent(context.Background(), readRequest("anchor-ui://component/Nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = s.handleReadComponent(context.Background(), readRequest("anchor-ui://component/"))
	assert.Error(t, err)

	_, err = s.handleReadComponent(context.Background(), readRequest("file:///etc/passwd"))
	assert.Error(t, err)
}

func TestSyncComponentResources(t *testing.T) {
	dir := writeReference(t)
	s := newTestServer(t, dir, nil)
	ctx := context.Background()

	require.NoError(t, s.SyncComponentResources(ctx))
	assert.Equal(t, map[string]bool{
		"anchor-ui://component/Dialog": true,
		"anchor-ui://component/Slider": true,
	}, s.resources.uris)

	require.NoError(t, os.Remove(filepath.Join(dir, "slider-root.json")))
	require.NoError(t, os.Remove(filepath.Join(dir, "slider-thumb.json")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tabs-root.json"), []byte(`{}`), 0o644))

	require.NoError(t, s.SyncComponentResources(ctx))
	assert.Equal(t, map[string]bool{
		"anchor-ui://component/Dialog": true,
		"anchor-ui://component/Tabs":   true,
	}, s.resources.uris)
}

// --- tool log ---

func TestLoggingMiddleware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.jsonl")
	toolLog, err := mcplog.NewLogger(path)
	require.NoError(t, err)
	s := newTestServer(t, writeReference(t), toolLog)

	wrapped := s.loggingMiddleware()(s.handleGetComponent)
	_, err = wrapped(context.Background(), makeRequest("get_component", map[string]any{"componentName": "Dialog"}))
	require.NoError(t, err)
	_, err = wrapped(context.Background(), makeRequest("get_component", map[string]any{"componentName": "Nope"}))
	require.NoError(t, err)
	require.NoError(t, toolLog.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []mcplog.LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e mcplog.LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)

	assert.Equal(t, "get_component", entries[0].Tool)
	assert.Equal(t, "Dialog", entries[0].Params["componentName"])
	assert.False(t, entries[0].IsError)
	assert.Nil(t, entries[0].Error)
	assert.Positive(t, entries[0].ResponseBytes)
	assert.NotEmpty(t, entries[0].CallID)

	assert.True(t, entries[1].IsError)
	assert.True(t, entries[1].NotFound)
	require.NotNil(t, entries[1].Error)
	assert.Equal(t, `Component "Nope" not found`, *entries[1].Error)
	assert.NotEqual(t, entries[0].CallID, entries[1].CallID)
}

func TestNewServer_RegistersTools(t *testing.T) {
	s := testServer(t)
	for _, name := range []string{
		"list_components", "get_component", "get_component_part",
		"get_usage_examples", "validate_code", "get_guardrails",
	} {
		assert.NotNil(t, s.MCPServer().GetTool(name), name)
	}
}
