package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/anchor-ui/mcp-server/pkg/catalog"
	"github.com/anchor-ui/mcp-server/pkg/metadata"
)

func newListCmd(a *app) *cobra.Command {
	var category, format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List components",
		Long: `List the components found in the reference directory.

Examples:
  anchor-mcp list
  anchor-mcp list --category overlay
  anchor-mcp list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if category != "" && category != "all" && !metadata.ValidCategory(category) {
				return fmt.Errorf("unknown category %q", category)
			}
			if category == "all" {
				category = ""
			}

			qs, err := a.newQueryService()
			if err != nil {
				return err
			}
			components, err := qs.List(cmd.Context(), category)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format != formatText {
				return writeStructured(w, format, components)
			}
			printComponentList(w, components)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list one category (layout, form, overlay, navigation, feedback, utility)")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json, yaml")
	return cmd
}

func printComponentList(w io.Writer, components []catalog.ComponentInfo) {
	if len(components) == 0 {
		fmt.Fprintln(w, styleMuted.Render("No components found."))
		return
	}

	nameW, catW := len("NAME"), len("CATEGORY")
	for _, c := range components {
		nameW = max(nameW, len(c.Name))
		catW = max(catW, len(c.Category))
	}

	fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("%-*s  %-*s  %5s  %s", nameW, "NAME", catW, "CATEGORY", "PARTS", "DESCRIPTION")))
	for _, c := range components {
		fmt.Fprintf(w, "%-*s  %-*s  %5d  %s\n", nameW, c.Name, catW, c.Category, len(c.Parts), c.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleMuted.Render(fmt.Sprintf("%d components", len(components))))
}
