package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prlocal/prlocal/internal/wire"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status <pr-uuid>",
	Short: "Show a pull request's review status and open comment count",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		pr, err := app.Service.Get(ctx, args[0])
		if err != nil {
			return err
		}
		threads, err := app.Service.Comments(ctx, pr.UUID, true)
		if err != nil {
			return err
		}

		if statusJSON {
			return printJSON(map[string]any{
				"uuid":       pr.UUID,
				"status":     pr.Status,
				"unresolved": len(threads),
				"updated_at": pr.UpdatedAt,
			})
		}

		statusColor(pr.Status).Println(pr.Status)
		if len(threads) > 0 {
			warnColor.Printf("%d unresolved comment(s)\n", len(threads))
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(statusCmd)
}
