package gitops

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Client implements Git against a local repository.
type Client struct {
	Logger *slog.Logger
}

// NewClient returns a new Client instance.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Logger: logger}
}

var _ Git = (*Client)(nil)

func (c *Client) open(repoPath string) (*git.Repository, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", repoPath, err)
	}
	return repo, nil
}

// CurrentBranch returns the short name of the checked-out branch.
func (c *Client) CurrentBranch(_ context.Context, repoPath string) (string, error) {
	repo, err := c.open(repoPath)
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash())
	}
	return head.Name().Short(), nil
}

// CommitSHA resolves a ref name to its commit hash.
func (c *Client) CommitSHA(_ context.Context, repoPath, ref string) (string, error) {
	repo, err := c.open(repoPath)
	if err != nil {
		return "", err
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", fmt.Errorf("ref %q: %w", ref, ErrRefNotFound)
	}
	return hash.String(), nil
}

// Diff returns the unified diff between the trees of two refs.
func (c *Client) Diff(ctx context.Context, repoPath, baseRef, headRef string) (string, error) {
	repo, err := c.open(repoPath)
	if err != nil {
		return "", err
	}

	baseTree, err := c.treeForRef(repo, baseRef)
	if err != nil {
		return "", err
	}
	headTree, err := c.treeForRef(repo, headRef)
	if err != nil {
		return "", err
	}

	changes, err := object.DiffTreeWithOptions(ctx, baseTree, headTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return "", fmt.Errorf("failed to diff trees: %w", err)
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to build patch: %w", err)
	}
	return patch.String(), nil
}

func (c *Client) treeForRef(repo *git.Repository, ref string) (*object.Tree, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("ref %q: %w", ref, ErrRefNotFound)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree for %s: %w", hash, err)
	}
	return tree, nil
}

// HasUncommittedChanges reports whether the worktree is dirty.
func (c *Client) HasUncommittedChanges(_ context.Context, repoPath string) (bool, error) {
	repo, err := c.open(repoPath)
	if err != nil {
		return false, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to read worktree status: %w", err)
	}
	return !status.IsClean(), nil
}

// Merge checks out baseRef and merges headRef into it with --no-ff. On merge
// failure the merge is aborted so the worktree is left unchanged.
func (c *Client) Merge(ctx context.Context, repoPath, headRef, baseRef string) (Result, error) {
	if out, err := c.runGit(ctx, repoPath, "checkout", baseRef); err != nil {
		return Result{Success: false, Message: out}, nil
	}

	msg := fmt.Sprintf("Merge branch '%s' into %s", headRef, baseRef)
	out, err := c.runGit(ctx, repoPath, "merge", "--no-ff", headRef, "-m", msg)
	if err != nil {
		c.Logger.Warn("merge failed, aborting", "head", headRef, "base", baseRef, "output", out)
		// Best effort; a conflictless failure leaves nothing to abort.
		_, _ = c.runGit(ctx, repoPath, "merge", "--abort")
		return Result{Success: false, Message: out}, nil
	}
	return Result{Success: true, Message: fmt.Sprintf("Merged %s into %s", headRef, baseRef)}, nil
}

// Push pushes the current branch to its remote.
func (c *Client) Push(ctx context.Context, repoPath string) (Result, error) {
	out, err := c.runGit(ctx, repoPath, "push")
	if err != nil {
		return Result{Success: false, Message: out}, nil
	}
	return Result{Success: true, Message: "Pushed to remote"}, nil
}

// DeleteBranch removes a fully merged local branch.
func (c *Client) DeleteBranch(ctx context.Context, repoPath, ref string) (Result, error) {
	out, err := c.runGit(ctx, repoPath, "branch", "-d", ref)
	if err != nil {
		return Result{Success: false, Message: out}, nil
	}
	return Result{Success: true, Message: fmt.Sprintf("Deleted branch %s", ref)}, nil
}

// runGit executes a git command in the repository directory and returns its
// combined output, trimmed.
func (c *Client) runGit(ctx context.Context, repoPath string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath
	out, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(out))
	if err != nil {
		if text == "" {
			text = err.Error()
		}
		return text, fmt.Errorf("git %s failed: %s: %w", args[0], text, err)
	}
	return text, nil
}
