package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prlocal/prlocal/internal/wire"
)

var (
	commentFile    string
	commentLine    int
	commentMessage string
)

var commentCmd = &cobra.Command{
	Use:   "comment <pr-uuid>",
	Short: "Add a line-anchored review comment to a pull request",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		comment, err := app.Service.AddComment(ctx, args[0], commentFile, commentLine, commentMessage)
		if err != nil {
			return err
		}

		successColor.Printf("Added comment %s\n", comment.UUID)
		dimColor.Printf("  %s:%d\n", comment.FilePath, comment.LineNumber)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	commentCmd.Flags().StringVarP(&commentFile, "file", "f", "", "File path the comment refers to (required)")
	commentCmd.Flags().IntVarP(&commentLine, "line", "l", 0, "Line number the comment refers to (required)")
	commentCmd.Flags().StringVarP(&commentMessage, "message", "m", "", "Comment text (required)")
	_ = commentCmd.MarkFlagRequired("file")
	_ = commentCmd.MarkFlagRequired("line")
	_ = commentCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(commentCmd)
}
