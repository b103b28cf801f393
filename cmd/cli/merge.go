package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prlocal/prlocal/internal/config"
	"github.com/prlocal/prlocal/internal/review"
	"github.com/prlocal/prlocal/internal/wire"
)

var (
	mergePush         bool
	mergeDeleteBranch bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge <pr-uuid>",
	Short: "Merge an approved pull request into its base branch",
	Long: `Merge an approved pull request into its base branch with a merge commit.

The worktree must be clean. Pushing and deleting the head branch are
best-effort: their failures are reported as warnings but never undo the
merge. Defaults for --push and --delete-branch can be set per repository in
.prlocal.yml.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		push := mergePush
		deleteBranch := mergeDeleteBranch
		repoCfg, err := config.LoadRepoConfig(pr.RepoPath)
		if err != nil && !errors.Is(err, config.ErrRepoConfigNotFound) {
			return err
		}
		if repoCfg.Merge != nil {
			// Explicit flags win over the repo config.
			if repoCfg.Merge.Push != nil && !cmd.Flags().Changed("push") {
				push = *repoCfg.Merge.Push
			}
			if repoCfg.Merge.DeleteBranch != nil && !cmd.Flags().Changed("delete-branch") {
				deleteBranch = *repoCfg.Merge.DeleteBranch
			}
		}

		res, err := app.Service.Merge(ctx, pr.UUID, review.MergeOptions{
			Push:         push,
			DeleteBranch: deleteBranch,
		})
		if err != nil {
			return err
		}

		successColor.Printf("Merged %s into %s\n", res.PR.HeadRef, res.PR.BaseRef)
		for _, warning := range res.Warnings {
			warnColor.Printf("  Warning: %s\n", warning)
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	mergeCmd.Flags().BoolVar(&mergePush, "push", true, "Push the base branch after merging")
	mergeCmd.Flags().BoolVar(&mergeDeleteBranch, "delete-branch", false, "Delete the head branch after merging")
	rootCmd.AddCommand(mergeCmd)
}
