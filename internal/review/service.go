// Package review implements the pull request lifecycle engine: creation,
// diff revisions, the status state machine, merge preconditions, and the
// comment/reply protocol. It owns the business rules; persistence lives in
// the storage package and git access behind the gitops.Git interface.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/prlocal/prlocal/internal/core"
	"github.com/prlocal/prlocal/internal/gitops"
	"github.com/prlocal/prlocal/internal/storage"
)

// Service is the lifecycle engine over the store and the git collaborator.
type Service struct {
	store  storage.Store
	git    gitops.Git
	logger *slog.Logger
}

// NewService creates a new lifecycle engine.
func NewService(store storage.Store, git gitops.Git, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, git: git, logger: logger}
}

// CreateRequest carries the inputs for a new pull request. HeadRef defaults
// to the currently checked-out branch when empty.
type CreateRequest struct {
	RepoPath    string
	Title       string
	Description string
	BaseRef     string
	HeadRef     string
}

// CreateResult is the outcome of Create. DiffEmpty flags a PR whose branches
// currently have no differences; creation still succeeds.
type CreateResult struct {
	PR        *core.PullRequest
	DiffEmpty bool
}

// Create validates the request, captures the diff between base and head, and
// persists the PR with revision 1 in pending status.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &core.ValidationError{Msg: "title must not be empty"}
	}
	if req.BaseRef == "" {
		return nil, &core.ValidationError{Msg: "base branch must not be empty"}
	}

	repoPath, err := filepath.Abs(req.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repo path: %w", err)
	}

	headRef := req.HeadRef
	if headRef == "" {
		headRef, err = s.git.CurrentBranch(ctx, repoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve current branch: %w", err)
		}
	}
	if headRef == req.BaseRef {
		return nil, &core.ValidationError{
			Msg: fmt.Sprintf("head branch %q is the same as base branch %q", headRef, req.BaseRef),
		}
	}

	baseCommit, err := s.git.CommitSHA(ctx, repoPath, req.BaseRef)
	if err != nil {
		if errors.Is(err, gitops.ErrRefNotFound) {
			return nil, &core.ValidationError{Msg: fmt.Sprintf("base branch %q not found", req.BaseRef)}
		}
		return nil, fmt.Errorf("failed to resolve base commit: %w", err)
	}
	headCommit, err := s.git.CommitSHA(ctx, repoPath, headRef)
	if err != nil {
		if errors.Is(err, gitops.ErrRefNotFound) {
			return nil, &core.ValidationError{Msg: fmt.Sprintf("head branch %q not found", headRef)}
		}
		return nil, fmt.Errorf("failed to resolve head commit: %w", err)
	}

	diff, err := s.git.Diff(ctx, repoPath, req.BaseRef, headRef)
	if err != nil {
		return nil, fmt.Errorf("failed to compute diff: %w", err)
	}

	pr, err := s.store.CreatePR(ctx, storage.CreatePRParams{
		RepoPath:    repoPath,
		Title:       req.Title,
		Description: req.Description,
		BaseRef:     req.BaseRef,
		HeadRef:     headRef,
		BaseCommit:  baseCommit,
		HeadCommit:  headCommit,
		DiffText:    diff,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pull request created",
		"uuid", pr.UUID, "head", headRef, "base", req.BaseRef, "repo", repoPath)
	return &CreateResult{PR: pr, DiffEmpty: strings.TrimSpace(diff) == ""}, nil
}

// Get returns a PR by identifier.
func (s *Service) Get(ctx context.Context, prUUID string) (*core.PullRequest, error) {
	return s.store.GetPRByUUID(ctx, prUUID)
}

// List returns PRs filtered by repo path and/or status, most recently updated
// first. repoPath is resolved to an absolute path to match stored records.
func (s *Service) List(ctx context.Context, repoPath string, status core.PRStatus, limit int) ([]*core.PullRequest, error) {
	if repoPath != "" {
		abs, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve repo path: %w", err)
		}
		repoPath = abs
	}
	return s.store.ListPRs(ctx, storage.ListFilter{RepoPath: repoPath, Status: status, Limit: limit})
}

// LatestDiff returns the most recent diff revision for a PR.
func (s *Service) LatestDiff(ctx context.Context, prUUID string) (*core.DiffRevision, error) {
	return s.store.GetLatestDiff(ctx, prUUID)
}

// Revisions returns all diff revisions for a PR in ascending order.
func (s *Service) Revisions(ctx context.Context, prUUID string) ([]*core.DiffRevision, error) {
	return s.store.ListRevisions(ctx, prUUID)
}

// UpdateResult is the outcome of Update.
type UpdateResult struct {
	PR        *core.PullRequest
	Revision  int
	DiffEmpty bool
}

// Update recomputes the diff and appends a new revision. Any prior verdict is
// invalidated: the status always returns to pending for re-review. The
// revision append and the status reset are one transaction in the store.
func (s *Service) Update(ctx context.Context, prUUID, repoOverride string) (*UpdateResult, error) {
	pr, err := s.store.GetPRByUUID(ctx, prUUID)
	if err != nil {
		return nil, err
	}
	if pr.Status.Terminal() {
		return nil, &core.InvalidTransitionError{From: pr.Status, To: core.StatusPending}
	}

	repoPath := pr.RepoPath
	if repoOverride != "" {
		repoPath, err = filepath.Abs(repoOverride)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve repo path: %w", err)
		}
	}

	diff, err := s.git.Diff(ctx, repoPath, pr.BaseRef, pr.HeadRef)
	if err != nil {
		return nil, fmt.Errorf("failed to compute diff: %w", err)
	}
	headCommit, err := s.git.CommitSHA(ctx, repoPath, pr.HeadRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve head commit: %w", err)
	}

	rev, err := s.store.UpdatePRDiff(ctx, prUUID, diff, headCommit)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.GetPRByUUID(ctx, prUUID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("pull request updated", "uuid", prUUID, "revision", rev)
	return &UpdateResult{PR: updated, Revision: rev, DiffEmpty: strings.TrimSpace(diff) == ""}, nil
}

// SetStatus applies a reviewer verdict or closes the PR, enforcing the state
// machine. The merged status is reserved for Merge.
func (s *Service) SetStatus(ctx context.Context, prUUID string, status core.PRStatus) (*core.PullRequest, error) {
	if status == core.StatusMerged {
		return nil, &core.ValidationError{Msg: "merged status is set by the merge operation"}
	}

	pr, err := s.store.GetPRByUUID(ctx, prUUID)
	if err != nil {
		return nil, err
	}
	if !pr.Status.CanTransitionTo(status) {
		return nil, &core.InvalidTransitionError{From: pr.Status, To: status}
	}

	if err := s.store.UpdatePRStatus(ctx, prUUID, status); err != nil {
		return nil, err
	}
	s.logger.Info("pull request status changed", "uuid", prUUID, "from", pr.Status, "to", status)
	return s.store.GetPRByUUID(ctx, prUUID)
}

// Approve marks a pending PR as approved.
func (s *Service) Approve(ctx context.Context, prUUID string) (*core.PullRequest, error) {
	return s.SetStatus(ctx, prUUID, core.StatusApproved)
}

// RequestChanges marks a pending PR as changes_requested.
func (s *Service) RequestChanges(ctx context.Context, prUUID string) (*core.PullRequest, error) {
	return s.SetStatus(ctx, prUUID, core.StatusChangesRequested)
}

// Close abandons a non-terminal PR.
func (s *Service) Close(ctx context.Context, prUUID string) (*core.PullRequest, error) {
	return s.SetStatus(ctx, prUUID, core.StatusClosed)
}

// MergeOptions controls the merge operation. Push and DeleteBranch are
// best-effort post-merge steps.
type MergeOptions struct {
	Push         bool
	DeleteBranch bool
	RepoPath     string
}

// MergeResult is the outcome of a successful merge. Warnings report failed
// post-merge steps; they never roll back the merged status.
type MergeResult struct {
	PR       *core.PullRequest
	Message  string
	Warnings []string
}

// Merge merges an approved PR. Preconditions: the PR is approved and the
// worktree is clean. A precondition or merge failure leaves the PR status
// untouched. Merge success is defined by the git merge step alone; push and
// branch deletion failures surface as warnings.
func (s *Service) Merge(ctx context.Context, prUUID string, opts MergeOptions) (*MergeResult, error) {
	pr, err := s.store.GetPRByUUID(ctx, prUUID)
	if err != nil {
		return nil, err
	}
	if pr.Status != core.StatusApproved {
		return nil, &core.InvalidTransitionError{From: pr.Status, To: core.StatusMerged}
	}

	repoPath := pr.RepoPath
	if opts.RepoPath != "" {
		repoPath, err = filepath.Abs(opts.RepoPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve repo path: %w", err)
		}
	}

	dirty, err := s.git.HasUncommittedChanges(ctx, repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check worktree: %w", err)
	}
	if dirty {
		return nil, &core.PreconditionFailedError{Reason: "repository has uncommitted changes, commit or stash them before merging"}
	}

	res, err := s.git.Merge(ctx, repoPath, pr.HeadRef, pr.BaseRef)
	if err != nil {
		return nil, fmt.Errorf("merge failed: %w", err)
	}
	if !res.Success {
		return nil, &core.CollaboratorError{Op: "merge", Message: res.Message}
	}

	if err := s.store.UpdatePRStatus(ctx, prUUID, core.StatusMerged); err != nil {
		return nil, err
	}
	s.logger.Info("pull request merged", "uuid", prUUID, "head", pr.HeadRef, "base", pr.BaseRef)

	var warnings []string
	if opts.Push {
		pushRes, pushErr := s.git.Push(ctx, repoPath)
		if pushErr != nil {
			warnings = append(warnings, fmt.Sprintf("push failed: %v", pushErr))
		} else if !pushRes.Success {
			warnings = append(warnings, fmt.Sprintf("push failed: %s", pushRes.Message))
		}
	}
	if opts.DeleteBranch {
		delRes, delErr := s.git.DeleteBranch(ctx, repoPath, pr.HeadRef)
		if delErr != nil {
			warnings = append(warnings, fmt.Sprintf("branch deletion failed: %v", delErr))
		} else if !delRes.Success {
			warnings = append(warnings, fmt.Sprintf("branch deletion failed: %s", delRes.Message))
		}
	}

	merged, err := s.store.GetPRByUUID(ctx, prUUID)
	if err != nil {
		return nil, err
	}
	return &MergeResult{PR: merged, Message: res.Message, Warnings: warnings}, nil
}

// AddComment attaches a line-anchored comment to a PR. The anchor is not
// validated against the current diff; that is the commenter's responsibility.
func (s *Service) AddComment(ctx context.Context, prUUID, filePath string, lineNumber int, content string) (*core.Comment, error) {
	if filePath == "" {
		return nil, &core.ValidationError{Msg: "file path must not be empty"}
	}
	if lineNumber < 1 {
		return nil, &core.ValidationError{Msg: "line number must be 1 or greater"}
	}
	if strings.TrimSpace(content) == "" {
		return nil, &core.ValidationError{Msg: "comment content must not be empty"}
	}
	return s.store.AddComment(ctx, prUUID, filePath, lineNumber, content)
}

// Comments returns a PR's comment threads, optionally only unresolved ones.
func (s *Service) Comments(ctx context.Context, prUUID string, unresolvedOnly bool) ([]*core.CommentThread, error) {
	if _, err := s.store.GetPRByUUID(ctx, prUUID); err != nil {
		return nil, err
	}
	return s.store.GetCommentsWithReplies(ctx, prUUID, unresolvedOnly)
}

// Reply appends to a comment's discussion log.
func (s *Service) Reply(ctx context.Context, prUUID, commentUUID, message, author string) (*core.Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, &core.ValidationError{Msg: "reply message must not be empty"}
	}
	if _, err := s.store.GetPRByUUID(ctx, prUUID); err != nil {
		return nil, err
	}
	comment, err := s.store.GetCommentByUUID(ctx, commentUUID)
	if err != nil {
		return nil, err
	}
	if comment.PRUUID != prUUID {
		return nil, fmt.Errorf("comment %s does not belong to pull request %s: %w", commentUUID, prUUID, core.ErrNotFound)
	}
	return s.store.AddReply(ctx, commentUUID, message, author)
}

// Resolve marks a comment as addressed. PR status is unaffected.
func (s *Service) Resolve(ctx context.Context, commentUUID string) error {
	return s.store.SetCommentResolved(ctx, commentUUID, true)
}
