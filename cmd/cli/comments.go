package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prlocal/prlocal/internal/wire"
)

var (
	commentsUnresolved bool
	commentsJSON       bool
)

var commentsCmd = &cobra.Command{
	Use:   "comments <pr-uuid>",
	Short: "List a pull request's comment threads",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		threads, err := app.Service.Comments(ctx, args[0], commentsUnresolved)
		if err != nil {
			return err
		}

		if commentsJSON {
			return printJSON(threads)
		}

		if len(threads) == 0 {
			dimColor.Println("No comments.")
			return nil
		}

		for i, thread := range threads {
			if i > 0 {
				fmt.Println()
			}
			marker := warnColor
			if thread.Comment.Resolved {
				marker = dimColor
			}
			marker.Printf("[%s] ", thread.Comment.UUID)
			boldColor.Printf("%s:%d", thread.Comment.FilePath, thread.Comment.LineNumber)
			if thread.Comment.Resolved {
				dimColor.Print("  (resolved)")
			}
			fmt.Println()
			infoColor.Printf("  %s\n", thread.Comment.Content)
			for _, reply := range thread.Replies {
				dimColor.Printf("    %s: ", reply.Author)
				infoColor.Println(reply.Content)
			}
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	commentsCmd.Flags().BoolVarP(&commentsUnresolved, "unresolved", "u", false, "Only unresolved threads")
	commentsCmd.Flags().BoolVar(&commentsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(commentsCmd)
}
