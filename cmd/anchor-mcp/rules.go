package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/anchor-ui/mcp-server/pkg/guardrails"
)

func newRulesCmd(_ *app) *cobra.Command {
	var category, format string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List guardrail rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			v := guardrails.NewValidator(guardrails.DefaultRules())
			rules := v.Rules()
			if category != "" {
				if !slices.Contains(guardrails.Categories(), category) {
					return fmt.Errorf("unknown rule category %q", category)
				}
				rules = v.RulesByCategory(category)
			}

			w := cmd.OutOrStdout()
			if format != formatText {
				return writeStructured(w, format, rules)
			}
			printRules(w, rules)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list one category")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json, yaml")
	return cmd
}

func printRules(w io.Writer, rules []guardrails.Rule) {
	for i, r := range rules {
		if i > 0 {
			fmt.Fprintln(w)
		}
		sev := fmt.Sprintf("%-9s", "["+string(r.Severity)+"]")
		fmt.Fprintf(w, "%s %s  %s\n", severityStyle(string(r.Severity)).Render(sev), r.ID, styleMuted.Render(r.Category))
		fmt.Fprintf(w, "          %s\n", r.Message)
		if r.Fix != "" {
			fmt.Fprintf(w, "          fix: %s\n", r.Fix)
		}
		if len(r.Components) > 0 {
			fmt.Fprintf(w, "          components: %v\n", r.Components)
		}
	}
}
