package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prlocal/prlocal/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the review server for browsing PRs and their comment threads",
	Long: `Run the embedded HTTP server. It exposes the JSON API under /api/v1 and
an HTML review page per PR under /prs/{uuid}, sharing the same database as
the CLI commands.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		go func() {
			if err := app.StartServer(); err != nil {
				app.Logger.Error("server error", "error", err)
				cancel()
			}
		}()

		// Wait for shutdown signal
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			app.Logger.Info("received shutdown signal")
		case <-ctx.Done():
			app.Logger.Info("context cancelled, shutting down")
		}

		if err := app.StopServer(); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.AddCommand(serveCmd)
}
