// Command anchor-mcp serves the Anchor UI component catalog and guardrails
// over MCP and exposes the same data on the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set via ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// errFindings reports a command that ran correctly but found problems
// (guardrail errors, snapshot drift). It exits 1 without an error line.
var errFindings = errors.New("findings reported")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code:
// 0 success, 1 findings, 2 usage or runtime failure.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFindings):
		return 1
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "anchor-mcp",
		Short: "Anchor UI component catalog and guardrails for AI coding agents",
		Long: `anchor-mcp builds a catalog of Anchor UI components from the generated
reference JSON files and serves it over the Model Context Protocol.

Commands:
  serve       Start the MCP server on stdio
  list        List components
  inspect     Show one component
  validate    Check source files against the guardrails
  rules       List guardrail rules
  snapshot    Write or check a catalog snapshot
  setup       Register the server with detected AI agents
  version     Show version info

Settings come from .anchor-ui/config.yaml, a .env file and ANCHOR_UI_*
environment variables; flags override all of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	a.bindFlags(root)

	root.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newInspectCmd(a),
		newValidateCmd(a),
		newRulesCmd(a),
		newSnapshotCmd(a),
		newSetupCmd(),
		newVersionCmd(),
	)
	return root
}
