package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anchor-ui/mcp-server/pkg/snapshot"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var writePath, checkPath string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write or check a catalog snapshot",
		Long: `Write the full catalog to a JSON file, or compare a fresh build against a
stored one. --check prints the changed lines and exits 1 on drift, so CI can
catch reference files that changed without the snapshot being updated.

Examples:
  anchor-mcp snapshot --write catalog.snapshot.json
  anchor-mcp snapshot --check catalog.snapshot.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (writePath == "") == (checkPath == "") {
				return errors.New("exactly one of --write or --check is required")
			}

			qs, err := a.newQueryService()
			if err != nil {
				return err
			}
			components, err := qs.List(cmd.Context(), "")
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if writePath != "" {
				if err := snapshot.Write(writePath, components); err != nil {
					return err
				}
				fmt.Fprintln(w, styleSuccess.Render(fmt.Sprintf("wrote %d components to %s", len(components), writePath)))
				return nil
			}

			result, err := snapshot.Check(checkPath, components)
			if err != nil {
				return err
			}
			if !result.Drift {
				fmt.Fprintln(w, styleSuccess.Render("snapshot is up to date"))
				return nil
			}
			fmt.Fprint(w, result.Diff)
			fmt.Fprintln(w, styleError.Render(fmt.Sprintf("%s is out of date; rerun with --write", checkPath)))
			return errFindings
		},
	}
	cmd.Flags().StringVar(&writePath, "write", "", "write the catalog snapshot to this file")
	cmd.Flags().StringVar(&checkPath, "check", "", "compare a fresh build against this snapshot")
	return cmd
}
