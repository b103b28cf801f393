package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prlocal/prlocal/internal/core"
	"github.com/prlocal/prlocal/internal/wire"
)

// runVerdict applies a reviewer verdict to a pending PR.
func runVerdict(prUUID string, status core.PRStatus) error {
	ctx := context.Background()

	app, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app services: %w", err)
	}
	defer cleanup()

	pr, err := app.Service.SetStatus(ctx, prUUID, status)
	if err != nil {
		return err
	}

	statusColor(pr.Status).Printf("PR %s is now %s\n", pr.UUID, pr.Status)
	return nil
}

var approveCmd = &cobra.Command{
	Use:   "approve <pr-uuid>",
	Short: "Approve a pending pull request",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runVerdict(args[0], core.StatusApproved)
	},
}

var requestChangesCmd = &cobra.Command{
	Use:   "request-changes <pr-uuid>",
	Short: "Request changes on a pending pull request",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runVerdict(args[0], core.StatusChangesRequested)
	},
}

var closeCmd = &cobra.Command{
	Use:   "close <pr-uuid>",
	Short: "Close a pull request without merging",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runVerdict(args[0], core.StatusClosed)
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(requestChangesCmd)
	rootCmd.AddCommand(closeCmd)
}
