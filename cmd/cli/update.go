package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prlocal/prlocal/internal/wire"
)

var (
	updateRepo string
	updateJSON bool
)

var updateCmd = &cobra.Command{
	Use:   "update <pr-uuid>",
	Short: "Capture a new diff revision after pushing more commits",
	Long: `Recompute the diff between the PR's base and head branches and record it
as a new revision. Any prior verdict is invalidated: the PR returns to
pending so the reviewer sees the new code.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		res, err := app.Service.Update(ctx, args[0], updateRepo)
		if err != nil {
			return err
		}

		if updateJSON {
			return printJSON(map[string]any{
				"pr":         res.PR,
				"revision":   res.Revision,
				"diff_empty": res.DiffEmpty,
			})
		}

		successColor.Printf("Recorded revision %d\n", res.Revision)
		infoColor.Printf("  status is now %s\n", res.PR.Status)
		if res.DiffEmpty {
			warnColor.Println("  Warning: branches have no differences")
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	updateCmd.Flags().StringVar(&updateRepo, "repo", "", "Recompute against this repository path instead of the recorded one")
	updateCmd.Flags().BoolVar(&updateJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(updateCmd)
}
