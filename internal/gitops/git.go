// Package gitops provides the git collaborator consumed by the review engine.
// Reads go through go-git; merge, push, and branch deletion shell out to the
// git CLI, which owns conflict handling and remote auth.
package gitops

import (
	"context"
	"errors"
)

// ErrRefNotFound indicates a ref that does not resolve in the repository.
var ErrRefNotFound = errors.New("git ref not found")

// Result reports the outcome of a mutating git operation. Message carries the
// CLI output verbatim on failure.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Git is the collaborator contract the review engine depends on.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mock/git.go -package=mock . Git
type Git interface {
	// CurrentBranch returns the short name of the checked-out branch.
	CurrentBranch(ctx context.Context, repoPath string) (string, error)
	// CommitSHA resolves a ref to a commit identifier. Fails with
	// ErrRefNotFound if the ref does not resolve.
	CommitSHA(ctx context.Context, repoPath, ref string) (string, error)
	// Diff returns the unified diff between two refs, possibly empty.
	Diff(ctx context.Context, repoPath, baseRef, headRef string) (string, error)
	// HasUncommittedChanges reports whether the worktree is dirty, counting
	// untracked files.
	HasUncommittedChanges(ctx context.Context, repoPath string) (bool, error)
	// Merge checks out baseRef and merges headRef into it with --no-ff. A
	// failed merge is aborted, leaving the worktree as it was.
	Merge(ctx context.Context, repoPath, headRef, baseRef string) (Result, error)
	// Push pushes the current branch to its remote.
	Push(ctx context.Context, repoPath string) (Result, error)
	// DeleteBranch removes a fully merged local branch.
	DeleteBranch(ctx context.Context, repoPath, ref string) (Result, error)
}
