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
	createRepo  string
	createTitle string
	createBody  string
	createBase  string
	createHead  string
	createJSON  bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a pull request from the repository's current branches",
	Long: `Create a pull request recording the diff between base and head.

The head branch defaults to the currently checked-out branch, the base branch
to "main" (or base_branch from the repository's .prlocal.yml).

Examples:
  prlocal create --title "Add login handler"
  prlocal create --repo ~/src/api --title "Fix retry loop" --base develop`,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		base := createBase
		if base == "" {
			repoCfg, err := config.LoadRepoConfig(createRepo)
			if err != nil && !errors.Is(err, config.ErrRepoConfigNotFound) {
				return err
			}
			base = repoCfg.BaseBranch
		}

		res, err := app.Service.Create(ctx, review.CreateRequest{
			RepoPath:    createRepo,
			Title:       createTitle,
			Description: createBody,
			BaseRef:     base,
			HeadRef:     createHead,
		})
		if err != nil {
			return err
		}

		if createJSON {
			return printJSON(map[string]any{
				"pr":         res.PR,
				"diff_empty": res.DiffEmpty,
				"review_url": app.Cfg.ReviewURL(res.PR.UUID),
			})
		}

		successColor.Printf("Created PR %s\n", res.PR.UUID)
		infoColor.Printf("  %s -> %s\n", res.PR.HeadRef, res.PR.BaseRef)
		if res.DiffEmpty {
			warnColor.Println("  Warning: branches have no differences yet")
		}
		dimColor.Printf("  Review at %s\n", app.Cfg.ReviewURL(res.PR.UUID))
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	createCmd.Flags().StringVar(&createRepo, "repo", ".", "Path to the git repository")
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "PR title (required)")
	createCmd.Flags().StringVarP(&createBody, "body", "b", "", "PR description, markdown allowed")
	createCmd.Flags().StringVar(&createBase, "base", "", "Base branch (default from .prlocal.yml, else main)")
	createCmd.Flags().StringVar(&createHead, "head", "", "Head branch (default: current branch)")
	createCmd.Flags().BoolVar(&createJSON, "json", false, "Output as JSON")
	_ = createCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(createCmd)
}
