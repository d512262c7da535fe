package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeServers(t *testing.T, data []byte, key string) map[string]any {
	t.Helper()
	var cfg map[string]any
	require.NoError(t, json.Unmarshal(data, &cfg))
	servers, ok := cfg[key].(map[string]any)
	require.True(t, ok, "missing %q object", key)
	return servers
}

// --- mergeServerEntry ---

func TestMergeServerEntry_Empty(t *testing.T) {
	out, err := mergeServerEntry(nil, "mcpServers", nil)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.True(t, bytes.HasSuffix(out, []byte("\n")))

	entry := decodeServers(t, out, "mcpServers")[serverKey].(map[string]any)
	assert.Equal(t, "anchor-mcp", entry["command"])
	assert.Equal(t, []any{"serve"}, entry["args"])
	assert.NotContains(t, entry, "type")
}

func TestMergeServerEntry_VSCodeExtra(t *testing.T) {
	out, err := mergeServerEntry(nil, "servers", map[string]string{"type": "stdio"})
	require.NoError(t, err)

	entry := decodeServers(t, out, "servers")[serverKey].(map[string]any)
	assert.Equal(t, "stdio", entry["type"])
}

func TestMergeServerEntry_PreservesOtherSettings(t *testing.T) {
	existing := []byte(`{"theme": "dark", "mcpServers": {"other": {"command": "other"}}}`)
	out, err := mergeServerEntry(existing, "mcpServers", nil)
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, json.Unmarshal(out, &cfg))
	assert.Equal(t, "dark", cfg["theme"])
	servers := cfg["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "other")
	assert.Contains(t, servers, serverKey)
}

func TestMergeServerEntry_AlreadyPresent(t *testing.T) {
	existing := []byte(`{"mcpServers": {"anchor-ui": {"command": "custom"}}}`)
	out, err := mergeServerEntry(existing, "mcpServers", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestMergeServerEntry_InvalidJSON(t *testing.T) {
	_, err := mergeServerEntry([]byte("{not json"), "mcpServers", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

// --- prompter ---

func newPrompter(input string) (prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return prompter{in: bufio.NewScanner(strings.NewReader(input)), out: out}, out
}

func TestPrompterYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"no\n", false},
		{"maybe\n", false},
		{"", true},
	}
	for _, tt := range tests {
		p, out := newPrompter(tt.input)
		assert.Equal(t, tt.want, p.yesNo("Continue?"), "input %q", tt.input)
		assert.Contains(t, out.String(), "Continue?")
	}
}

func TestPrompterScope(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1\n", "project"},
		{"\n", "project"},
		{"2\n", "user"},
		{"3\n", ""},
		{"", "project"},
	}
	for _, tt := range tests {
		p, out := newPrompter(tt.input)
		assert.Equal(t, tt.want, p.scope("Claude Code"), "input %q", tt.input)
		assert.Contains(t, out.String(), "Claude Code: add the anchor-ui MCP server?")
	}
}

func TestPrompterSharesScanner(t *testing.T) {
	p, _ := newPrompter("n\n2\n")
	assert.False(t, p.yesNo("first?"))
	assert.Equal(t, "user", p.scope("Codex"))
}

// --- detection ---

func fakeEnv(onPath []string, existing []string) setupEnv {
	env := defaultSetupEnv()
	env.lookPath = func(name string) (string, error) {
		for _, p := range onPath {
			if p == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
	env.stat = func(name string) (os.FileInfo, error) {
		for _, e := range existing {
			if e == name {
				return nil, nil
			}
		}
		return nil, os.ErrNotExist
	}
	env.runAgent = func(string, []string, io.Writer) error {
		return errors.New("unexpected agent run")
	}
	return env
}

func TestDetect_CLIOnPath(t *testing.T) {
	t.Chdir(t.TempDir())
	found := fakeEnv([]string{"claude"}, nil).detect()
	require.Len(t, found, 1)
	assert.Equal(t, "claude_code", found[0].ID)
	assert.False(t, found[0].configured)
}

func TestDetect_NoneDetected(t *testing.T) {
	assert.Empty(t, fakeEnv(nil, nil).detect())
}

func TestDetect_FileBasedAgent(t *testing.T) {
	t.Chdir(t.TempDir())
	found := fakeEnv(nil, []string{".vscode"}).detect()
	require.Len(t, found, 1)
	assert.Equal(t, "vscode_copilot", found[0].ID)
	assert.Equal(t, filepath.Join(".vscode", "mcp.json"), found[0].configPath)
}

func TestDetect_AlreadyConfigured(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, filepath.Join(".cursor", "mcp.json"), `{"mcpServers": {"anchor-ui": {}}}`)

	env := defaultSetupEnv()
	env.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	env.agents = []agent{agents[3]}

	found := env.detect()
	require.Len(t, found, 1)
	assert.Equal(t, "cursor", found[0].ID)
	assert.True(t, found[0].configured)
}

// --- runSetup ---

func TestRunSetup_NoAgents(t *testing.T) {
	out := &bytes.Buffer{}
	runSetup(fakeEnv(nil, nil), strings.NewReader(""), out, false)
	assert.Contains(t, out.String(), "No supported AI agents detected.")
}

func TestRunSetup_AutoModeFileAgent(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll(".vscode", 0o755))

	env := defaultSetupEnv()
	env.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	env.agents = []agent{agents[2]}

	out := &bytes.Buffer{}
	runSetup(env, strings.NewReader(""), out, true)

	data, err := os.ReadFile(filepath.Join(".vscode", "mcp.json"))
	require.NoError(t, err)
	entry := decodeServers(t, data, "servers")[serverKey].(map[string]any)
	assert.Equal(t, "anchor-mcp", entry["command"])
	assert.Equal(t, "stdio", entry["type"])

	assert.Contains(t, out.String(), "VS Code Copilot configured")
}

func TestRunSetup_CLIAgentScope(t *testing.T) {
	t.Chdir(t.TempDir())
	env := fakeEnv([]string{"codex"}, nil)
	var gotBinary string
	var gotArgs []string
	env.runAgent = func(binary string, args []string, _ io.Writer) error {
		gotBinary, gotArgs = binary, args
		return nil
	}

	out := &bytes.Buffer{}
	runSetup(env, strings.NewReader("y\n2\n"), out, false)

	assert.Equal(t, "codex", gotBinary)
	assert.Equal(t, []string{"mcp", "add", "--scope", "user", "anchor-ui", "--", "anchor-mcp", "serve"}, gotArgs)
	assert.Contains(t, out.String(), "OpenAI Codex configured (scope: user)")
}

func TestRunSetup_Declined(t *testing.T) {
	t.Chdir(t.TempDir())
	env := fakeEnv([]string{"claude"}, nil)

	out := &bytes.Buffer{}
	runSetup(env, strings.NewReader("n\n"), out, false)

	assert.Contains(t, out.String(), "Claude Code")
	assert.NotContains(t, out.String(), "configured")
}

func TestRunSetup_AgentFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	env := fakeEnv([]string{"claude"}, nil)
	env.runAgent = func(string, []string, io.Writer) error { return errors.New("exit status 1") }

	out := &bytes.Buffer{}
	runSetup(env, strings.NewReader(""), out, true)
	assert.Contains(t, out.String(), "Claude Code: exit status 1")
}

// --- writeAgentConfig ---

func TestWriteAgentConfig_CreatesAndMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "mcp.json")
	ag := agent{ServersKey: "mcpServers"}

	require.NoError(t, writeAgentConfig(ag, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, decodeServers(t, data, "mcpServers"), serverKey)
}

func TestWriteAgentConfig_MergesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	writeFile(t, path, `{"mcpServers": {"other": {"command": "other"}}}`)

	require.NoError(t, writeAgentConfig(agent{ServersKey: "mcpServers"}, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	servers := decodeServers(t, data, "mcpServers")
	assert.Contains(t, servers, "other", "existing servers are kept")
	assert.Contains(t, servers, serverKey)
}

func TestWriteAgentConfig_LeavesExistingEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.json")
	original := `{"mcpServers": {"anchor-ui": {"command": "custom"}}}`
	writeFile(t, path, original)

	require.NoError(t, writeAgentConfig(agent{ServersKey: "mcpServers"}, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}
