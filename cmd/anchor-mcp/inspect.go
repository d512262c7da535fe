package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anchor-ui/mcp-server/pkg/catalog"
)

const maxWidth = 80

func newInspectCmd(a *app) *cobra.Command {
	var (
		part     string
		examples bool
		format   string
	)
	cmd := &cobra.Command{
		Use:   "inspect <Component>",
		Short: "Show one component",
		Long: `Show the parts, props, accessibility notes and composition rules of a
component.

Examples:
  anchor-mcp inspect Dialog
  anchor-mcp inspect Dialog --part Popup
  anchor-mcp inspect Slider --examples`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			qs, err := a.newQueryService()
			if err != nil {
				return err
			}

			name := args[0]
			info, ok, err := qs.Get(cmd.Context(), name)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("component %q not found", name)
			}

			w := cmd.OutOrStdout()
			if part != "" {
				p, ok := info.Part(part)
				if !ok {
					return fmt.Errorf("part %q not found in component %q", part, name)
				}
				if format != formatText {
					return writeStructured(w, format, p)
				}
				printPartHuman(w, info, p)
				return nil
			}

			if format != formatText {
				return writeStructured(w, format, info)
			}
			printComponentHuman(w, info, examples)
			return nil
		},
	}
	cmd.Flags().StringVar(&part, "part", "", "only show one part (Root, Trigger, Popup, ...)")
	cmd.Flags().BoolVar(&examples, "examples", false, "include usage examples")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json, yaml")
	return cmd
}

// printComponentHuman prints a human-readable component summary.
func printComponentHuman(w io.Writer, info catalog.ComponentInfo, showExamples bool) {
	fmt.Fprintf(w, "%s  %s\n", styleTitle.Render(info.DisplayName), styleMuted.Render("["+string(info.Category)+"]"))

	if info.Description != "" {
		fmt.Fprintln(w)
		printWrapped(w, info.Description, 0, maxWidth)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Docs  %s\n", info.DocumentationURL)

	// Parts
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render("Parts"))
	nameW := 0
	for _, p := range info.Parts {
		nameW = max(nameW, len(p.Name))
	}
	for _, p := range info.Parts {
		req := ""
		if p.Required {
			req = " (required)"
		}
		fmt.Fprintf(w, "  %-*s  <%s>%s\n", nameW, p.Name, p.ElementType, req)
	}

	if root, ok := info.Part("Root"); ok {
		fmt.Fprintln(w)
		printPropsSection(w, "Root Props", root.Props)
	}

	// Accessibility
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render("Accessibility"))
	printList(w, "ARIA", info.Accessibility.AriaAttributes)
	printList(w, "Keyboard", info.Accessibility.KeyboardNavigation)
	printList(w, "Requirements", info.Accessibility.Requirements)
	for _, warn := range info.Accessibility.Warnings {
		fmt.Fprintf(w, "  %s %s\n", styleWarning.Render("!"), warn)
	}

	// Composition
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render("Composition"))
	printList(w, "Required", info.Composition.RequiredParts)
	printList(w, "Optional", info.Composition.OptionalParts)
	if len(info.Composition.Donts) > 0 {
		fmt.Fprintln(w, "  Don'ts")
		for _, d := range info.Composition.Donts {
			fmt.Fprintf(w, "    %s %s\n", styleError.Render("x"), d)
		}
	}

	// Examples (opt-in)
	if showExamples {
		fmt.Fprintln(w)
		if len(info.Composition.Examples) == 0 {
			fmt.Fprintln(w, "Examples  (none)")
			return
		}
		fmt.Fprintln(w, styleTitle.Render("Examples"))
		for _, ex := range info.Composition.Examples {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  %s  %s\n", ex.Title, styleMuted.Render("["+string(ex.Variant)+"]"))
			if ex.Description != "" {
				fmt.Fprintf(w, "  %s\n", ex.Description)
			}
			fmt.Fprintln(w, "  "+strings.Repeat("─", 40))
			for _, line := range strings.Split(ex.Code, "\n") {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
}

// printPartHuman prints one part with its props and data attributes.
func printPartHuman(w io.Writer, info catalog.ComponentInfo, p catalog.ComponentPart) {
	header := fmt.Sprintf("%s.%s", info.Name, p.Name)
	if p.Required {
		header += "  (required)"
	}
	fmt.Fprintf(w, "%s  %s\n", styleTitle.Render(header), styleMuted.Render("<"+p.ElementType+">"))

	if p.Description != "" {
		fmt.Fprintln(w)
		printWrapped(w, p.Description, 0, maxWidth)
	}
	fmt.Fprintln(w)
	printPropsSection(w, "Props", p.Props)
	printDescriptions(w, "Data attributes", p.DataAttributes)
	printDescriptions(w, "CSS variables", p.CSSVariables)
}

// printPropsSection renders the props table with dynamic column widths.
func printPropsSection(w io.Writer, title string, props []catalog.PropInfo) {
	if len(props) == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}

	fmt.Fprintln(w, title)

	nameW := len("NAME")
	typeW := len("TYPE")
	for _, p := range props {
		nameW = max(nameW, len(p.Name))
		// Long unions are wrapped below the row.
		typeW = min(max(typeW, len(p.Type)), 30)
	}

	fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %s\n", nameW, "NAME", typeW, "TYPE", "REQ", "DEFAULT")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", nameW+typeW+20))

	for _, p := range props {
		req := "no"
		if p.Required {
			req = "yes"
		}
		typ := p.Type
		if len(typ) > typeW {
			typ = "see below"
		}
		fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %s\n", nameW, p.Name, typeW, typ, req, formatDefault(p.Default))

		indent := strings.Repeat(" ", nameW)
		if len(p.Type) > typeW {
			fmt.Fprintf(w, "  %s  type: %s\n", indent, wrapUnion(p.Type, nameW+10))
		}
		if p.Description != "" {
			fmt.Fprintf(w, "  %s  %s\n", indent, p.Description)
		}
	}
}

func printList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "  %-12s %s\n", label, strings.Join(items, ", "))
}

func printDescriptions(w io.Writer, title string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	keyW := 0
	for k := range m {
		keys = append(keys, k)
		keyW = max(keyW, len(k))
	}
	slices.Sort(keys)

	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-*s  %s\n", keyW, k, m[k])
	}
}

// formatDefault renders a prop default as it would appear in JSON.
func formatDefault(v any) string {
	if v == nil {
		return "—"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// wrapUnion wraps a " | " separated type if it exceeds maxWidth.
func wrapUnion(union string, indent int) string {
	if indent+len(union) <= maxWidth {
		return union
	}
	parts := strings.Split(union, " | ")
	var sb strings.Builder
	lineLen := indent
	for i, part := range parts {
		addition := len(part)
		if i > 0 {
			addition += 3 // " | "
		}
		if lineLen+addition > maxWidth && i > 0 {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", indent))
			lineLen = indent
		}
		if i > 0 {
			sb.WriteString(" | ")
			lineLen += 3
		}
		sb.WriteString(part)
		lineLen += len(part)
	}
	return sb.String()
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	words := strings.Fields(text)
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range words {
		switch {
		case len(line)+len(word)+1 > width && line != prefix:
			fmt.Fprintln(w, line)
			line = prefix + word
		case line == prefix:
			line += word
		default:
			line += " " + word
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
