package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// serverKey names the anchor-mcp entry in agent MCP configs.
const serverKey = "anchor-ui"

// agent describes how one AI agent registers MCP servers.
type agent struct {
	ID   string
	Name string
	// Binary is set for agents configured through their own CLI
	// ("<binary> mcp add"); the others are configured by editing a JSON file.
	Binary     string
	Markers    []string      // directories that reveal a project-level agent
	ConfigPath func() string // JSON config for file-based agents
	ServersKey string        // "servers" (VS Code) or "mcpServers"
	Extra      map[string]string
}

func (a agent) usesCLI() bool { return a.Binary != "" }

var agents = []agent{
	{ID: "claude_code", Name: "Claude Code", Binary: "claude"},
	{ID: "openai_codex", Name: "OpenAI Codex", Binary: "codex"},
	{
		ID: "vscode_copilot", Name: "VS Code Copilot",
		Markers:    []string{".vscode"},
		ConfigPath: func() string { return filepath.Join(".vscode", "mcp.json") },
		ServersKey: "servers",
		Extra:      map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", Name: "Cursor",
		Markers:    []string{".cursor"},
		ConfigPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{
		ID: "claude_desktop", Name: "Claude Desktop",
		ConfigPath: claudeDesktopConfigPath,
		ServersKey: "mcpServers",
	},
}

func claudeDesktopConfigPath() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// setupEnv holds the system calls setup makes, replaceable in tests.
type setupEnv struct {
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
	runAgent func(binary string, args []string, out io.Writer) error
	agents   []agent
}

func defaultSetupEnv() setupEnv {
	return setupEnv{
		lookPath: exec.LookPath,
		stat:     os.Stat,
		runAgent: func(binary string, args []string, out io.Writer) error {
			cmd := exec.Command(binary, args...)
			cmd.Stdout = out
			cmd.Stderr = out
			return cmd.Run()
		},
		agents: agents,
	}
}

// detected is an agent found on this machine.
type detected struct {
	agent
	configPath string
	configured bool
}

func (env setupEnv) detect() []detected {
	var found []detected
	for _, ag := range env.agents {
		if ag.usesCLI() {
			if _, err := env.lookPath(ag.Binary); err == nil {
				found = append(found, detected{agent: ag, configured: hasServerEntry(".mcp.json", "mcpServers")})
			}
			continue
		}

		path := ag.ConfigPath()
		present := false
		for _, marker := range ag.Markers {
			if _, err := env.stat(marker); err == nil {
				present = true
				break
			}
		}
		// Agents without markers count as present when their config dir exists.
		if !present && len(ag.Markers) == 0 {
			if _, err := env.stat(filepath.Dir(path)); err == nil {
				present = true
			}
		}
		if present {
			found = append(found, detected{agent: ag, configPath: path, configured: hasServerEntry(path, ag.ServersKey)})
		}
	}
	return found
}

func hasServerEntry(path, serversKey string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var cfg map[string]any
	if err := json.Unmarshal(data, &cfg); err != nil {
		return false
	}
	servers, _ := cfg[serversKey].(map[string]any)
	_, ok := servers[serverKey]
	return ok
}

func serverEntry(extra map[string]string) map[string]any {
	entry := map[string]any{
		"command": "anchor-mcp",
		"args":    []any{"serve"},
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds the anchor-ui entry under serversKey, keeping every
// other setting. It returns nil, nil when the entry already exists.
func mergeServerEntry(existing []byte, serversKey string, extra map[string]string) ([]byte, error) {
	cfg := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &cfg); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := cfg[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverKey]; exists {
		return nil, nil
	}
	servers[serverKey] = serverEntry(extra)
	cfg[serversKey] = servers

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func writeAgentConfig(ag agent, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	merged, err := mergeServerEntry(existing, ag.ServersKey, ag.Extra)
	if err != nil || merged == nil {
		return err
	}
	return os.WriteFile(path, merged, 0o644)
}

// prompter reads answers line by line from one shared scanner.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// yesNo asks a Y/n question. Empty input and EOF mean yes.
func (p prompter) yesNo(question string) bool {
	fmt.Fprintf(p.out, "%s ", question)
	if !p.in.Scan() {
		return true
	}
	answer := strings.ToLower(strings.TrimSpace(p.in.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

// scope asks where a CLI agent should store the entry: "project", "user",
// or "" to skip.
func (p prompter) scope(agentName string) string {
	fmt.Fprintf(p.out, "\n%s: add the anchor-ui MCP server?\n", agentName)
	fmt.Fprintln(p.out, "  [1] Project scope (shared with team)")
	fmt.Fprintln(p.out, "  [2] User scope (personal, global)")
	fmt.Fprintln(p.out, "  [3] Skip")
	fmt.Fprint(p.out, "  > ")
	if !p.in.Scan() {
		return "project"
	}
	switch strings.TrimSpace(p.in.Text()) {
	case "1", "":
		return "project"
	case "2":
		return "user"
	default:
		return ""
	}
}

func newSetupCmd() *cobra.Command {
	var auto bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the server with detected AI agents",
		Long: `Detect installed AI agents (Claude Code, Codex, VS Code, Cursor, Claude
Desktop) and add an "anchor-ui" MCP server entry that runs "anchor-mcp serve".
Existing entries are left alone.`,
		Args:             cobra.NoArgs,
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			runSetup(defaultSetupEnv(), cmd.InOrStdin(), cmd.OutOrStdout(), auto)
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "configure every detected agent without prompting")
	return cmd
}

func runSetup(env setupEnv, in io.Reader, out io.Writer, auto bool) {
	found := env.detect()
	if len(found) == 0 {
		fmt.Fprintln(out, "No supported AI agents detected.")
		return
	}

	fmt.Fprintln(out, "Detected AI agents:")
	for _, d := range found {
		note := ""
		if d.configured {
			note = styleMuted.Render(" (already configured)")
		}
		fmt.Fprintf(out, "  * %s%s\n", d.Name, note)
	}
	fmt.Fprintln(out)

	p := prompter{in: bufio.NewScanner(in), out: out}
	if !auto && !p.yesNo("Configure agents? [Y/n]") {
		return
	}

	for _, d := range found {
		if d.configured {
			fmt.Fprintf(out, "\n%s: already configured, skipping\n", d.Name)
			continue
		}
		env.configure(p, d, auto)
	}
}

func (env setupEnv) configure(p prompter, d detected, auto bool) {
	out := p.out
	if d.usesCLI() {
		scope := "project"
		if !auto {
			if scope = p.scope(d.Name); scope == "" {
				fmt.Fprintln(out, "  skipped")
				return
			}
		}
		args := []string{"mcp", "add", "--scope", scope, serverKey, "--", "anchor-mcp", "serve"}
		if err := env.runAgent(d.Binary, args, out); err != nil {
			fmt.Fprintf(out, "  %s %s: %v\n", styleError.Render("!"), d.Name, err)
			return
		}
		fmt.Fprintf(out, "  %s %s configured (scope: %s)\n", styleSuccess.Render("+"), d.Name, scope)
		return
	}

	if !auto && !p.yesNo(fmt.Sprintf("\n%s: add to %s? [Y/n]", d.Name, d.configPath)) {
		fmt.Fprintln(out, "  skipped")
		return
	}
	if err := writeAgentConfig(d.agent, d.configPath); err != nil {
		fmt.Fprintf(out, "  %s %s: %v\n", styleError.Render("!"), d.Name, err)
		return
	}
	fmt.Fprintf(out, "  %s %s configured (%s)\n", styleSuccess.Render("+"), d.Name, d.configPath)
}
