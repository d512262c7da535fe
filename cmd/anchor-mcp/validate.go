package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/anchor-ui/mcp-server/pkg/guardrails"
	"github.com/anchor-ui/mcp-server/pkg/jsx"
)

const stdinName = "-"

// fileReport is the validation outcome for one input.
type fileReport struct {
	File   string                      `json:"file"`
	Result guardrails.ValidationResult `json:"result"`
}

func newValidateCmd(a *app) *cobra.Command {
	var component, engine, format string
	cmd := &cobra.Command{
		Use:   "validate [file|glob ...]",
		Short: "Check source files against the guardrails",
		Long: `Check source files against the Anchor UI guardrails.

Arguments are files or doublestar globs; with none, or with "-", the code is
read from stdin. The command exits 1 when any file has error-severity issues.

Examples:
  anchor-mcp validate 'src/**/*.tsx'
  anchor-mcp validate --component Dialog src/Settings.tsx
  cat page.tsx | anchor-mcp validate --engine ast`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if cmd.Flags().Changed("engine") {
				a.cfg.Engine = engine
			}
			vals, err := newValidators(a.cfg.Engine, a.logger)
			if err != nil {
				return err
			}
			defer vals.close()

			files, err := expandInputs(args)
			if err != nil {
				return err
			}

			reports := make([]fileReport, 0, len(files))
			for _, file := range files {
				code, err := readInput(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				lang := jsx.LanguageTSX
				if file != stdinName {
					lang = jsx.DetectLanguage(file)
				}
				result, err := vals.forLanguage(lang).Validate(code, component)
				if err != nil {
					return err
				}
				reports = append(reports, fileReport{File: file, Result: result})
			}

			w := cmd.OutOrStdout()
			if format != formatText {
				if err := writeStructured(w, format, reports); err != nil {
					return err
				}
			} else {
				printReports(w, reports)
			}

			for _, r := range reports {
				if !r.Result.Valid {
					return errFindings
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&component, "component", "", "skip rules scoped to other components")
	cmd.Flags().StringVar(&engine, "engine", "", "matching engine: regex or ast (ast ignores commented-out code)")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json, yaml")
	return cmd
}

// expandInputs turns arguments into a sorted, de-duplicated file list.
// Arguments without glob metacharacters are kept as given so a missing file
// is reported instead of silently matching nothing.
func expandInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{stdinName}, nil
	}

	var files []string
	seen := make(map[string]bool)
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}

	for _, arg := range args {
		if arg == stdinName || !hasMeta(arg) {
			add(arg)
			continue
		}
		if !doublestar.ValidatePattern(arg) {
			return nil, fmt.Errorf("invalid glob %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return files, nil
}

func hasMeta(s string) bool {
	for _, c := range s {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

func readInput(stdin io.Reader, file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if file == stdinName {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(data), nil
}

func printReports(w io.Writer, reports []fileReport) {
	var nErr, nWarn, nInfo int
	for _, r := range reports {
		printIssues(w, r.File, guardrails.SeverityError, r.Result.Errors)
		printIssues(w, r.File, guardrails.SeverityWarning, r.Result.Warnings)
		printIssues(w, r.File, guardrails.SeverityInfo, r.Result.Suggestions)
		nErr += len(r.Result.Errors)
		nWarn += len(r.Result.Warnings)
		nInfo += len(r.Result.Suggestions)
	}

	summary := fmt.Sprintf("%d files checked: %d errors, %d warnings, %d suggestions",
		len(reports), nErr, nWarn, nInfo)
	if nErr > 0 {
		fmt.Fprintln(w, styleError.Render(summary))
	} else {
		fmt.Fprintln(w, styleSuccess.Render(summary))
	}
}

func printIssues(w io.Writer, file string, severity guardrails.Severity, issues []guardrails.ValidationIssue) {
	for _, is := range issues {
		pos := fmt.Sprintf("%s:%d", file, is.Line)
		if is.Column != nil {
			pos += fmt.Sprintf(":%d", *is.Column+1)
		}
		fmt.Fprintf(w, "%s: %s %s %s\n",
			pos,
			severityStyle(string(severity)).Render(string(severity)),
			styleMuted.Render("["+is.Rule+"]"),
			is.Message,
		)
		if is.Fix != "" {
			fmt.Fprintf(w, "    fix: %s\n", is.Fix)
		}
	}
}
