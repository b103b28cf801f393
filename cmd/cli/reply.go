package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prlocal/prlocal/internal/wire"
)

var (
	replyMessage string
	replyAuthor  string
)

var replyCmd = &cobra.Command{
	Use:   "reply <pr-uuid> <comment-uuid>",
	Short: "Reply to a review comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		author := replyAuthor
		if author == "" {
			author = app.Cfg.DefaultAuthor
		}

		reply, err := app.Service.Reply(ctx, args[0], args[1], replyMessage, author)
		if err != nil {
			return err
		}

		successColor.Printf("Replied as %s\n", reply.Author)
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <pr-uuid> <comment-uuid>",
	Short: "Mark a review comment as addressed",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		// Resolving through the PR's thread list enforces that the comment
		// belongs to the named PR.
		threads, err := app.Service.Comments(ctx, args[0], false)
		if err != nil {
			return err
		}
		for _, thread := range threads {
			if thread.Comment.UUID == args[1] {
				if err := app.Service.Resolve(ctx, args[1]); err != nil {
					return err
				}
				successColor.Println("Comment resolved")
				return nil
			}
		}
		return fmt.Errorf("comment %s not found on pull request %s", args[1], args[0])
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	replyCmd.Flags().StringVarP(&replyMessage, "message", "m", "", "Reply text (required)")
	replyCmd.Flags().StringVar(&replyAuthor, "author", "", "Reply author (default from config)")
	_ = replyCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(replyCmd)
	rootCmd.AddCommand(resolveCmd)
}
