package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/prlocal/prlocal/internal/core"
	"github.com/prlocal/prlocal/internal/wire"
)

var (
	showDiff bool
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show <pr-uuid>",
	Short: "Show a pull request's details and latest diff revision",
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

		rev, err := app.Service.LatestDiff(ctx, pr.UUID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return err
		}
		threads, err := app.Service.Comments(ctx, pr.UUID, false)
		if err != nil {
			return err
		}
		unresolved := 0
		for _, thread := range threads {
			if !thread.Comment.Resolved {
				unresolved++
			}
		}

		if showJSON {
			return printJSON(map[string]any{
				"pr":              pr,
				"latest_revision": rev,
				"comments":        len(threads),
				"unresolved":      unresolved,
			})
		}

		titleColor.Println(pr.Title)
		statusColor(pr.Status).Printf("  %s\n", pr.Status)
		infoColor.Printf("  %s -> %s (%s..%s)\n",
			pr.HeadRef, pr.BaseRef, shortSHA(pr.BaseCommit), shortSHA(pr.HeadCommit))
		dimColor.Printf("  %s\n", pr.RepoPath)
		dimColor.Printf("  created %s, updated %s\n",
			pr.CreatedAt.Local().Format(time.RFC822), pr.UpdatedAt.Local().Format(time.RFC822))
		if len(threads) > 0 {
			infoColor.Printf("  %d comment(s), %d unresolved\n", len(threads), unresolved)
		}

		if pr.Description != "" {
			rendered, err := glamour.Render(pr.Description, "auto")
			if err != nil {
				// Fall back to the raw markdown.
				fmt.Println("\n" + pr.Description)
			} else {
				fmt.Print(rendered)
			}
		}

		if rev != nil {
			fmt.Println()
			boldColor.Printf("Diff revision %d (%s)\n", rev.RevisionNumber, shortSHA(rev.HeadCommit))
			if showDiff {
				fmt.Println(rev.DiffText)
			} else {
				dimColor.Println("  use --diff to print the full diff")
			}
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	showCmd.Flags().BoolVar(&showDiff, "diff", false, "Print the full diff text")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}
