package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/prlocal/prlocal/internal/core"
	"github.com/prlocal/prlocal/internal/wire"
)

var (
	listRepo   string
	listStatus string
	listLimit  int
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List pull requests, most recently updated first",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		var status core.PRStatus
		if listStatus != "" {
			status, err = core.ParsePRStatus(listStatus)
			if err != nil {
				return err
			}
		}

		prs, err := app.Service.List(ctx, listRepo, status, listLimit)
		if err != nil {
			return fmt.Errorf("failed to list pull requests: %w", err)
		}

		if listJSON {
			return printJSON(prs)
		}

		if len(prs) == 0 {
			dimColor.Println("No pull requests found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "UUID\tTITLE\tSTATUS\tBRANCH\tUPDATED")
		for _, pr := range prs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				pr.UUID,
				pr.Title,
				pr.Status,
				pr.HeadRef,
				pr.UpdatedAt.Local().Format(time.RFC822),
			)
		}
		return w.Flush()
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	listCmd.Flags().StringVar(&listRepo, "repo", "", "Only PRs for this repository path")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Only PRs with this status")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of PRs to show (default 20)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}
