// Package storage persists pull requests, diff revisions, comments, and
// replies in SQLite. It is the sole owner of persisted state; lifecycle rules
// live in the review package, not here.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prlocal/prlocal/internal/core"
)

// CreatePRParams carries the validated fields for a new pull request. The
// caller resolves RepoPath to an absolute path and checks head != base before
// reaching this layer.
type CreatePRParams struct {
	RepoPath    string
	Title       string
	Description string
	BaseRef     string
	HeadRef     string
	BaseCommit  string
	HeadCommit  string
	DiffText    string
}

// ListFilter narrows ListPRs results. Zero values mean "no filter"; Limit <= 0
// falls back to DefaultListLimit.
type ListFilter struct {
	RepoPath string
	Status   core.PRStatus
	Limit    int
}

// DefaultListLimit bounds ListPRs when the caller does not.
const DefaultListLimit = 20

// Store defines the interface for all database operations.
type Store interface {
	CreatePR(ctx context.Context, p CreatePRParams) (*core.PullRequest, error)
	GetPRByUUID(ctx context.Context, prUUID string) (*core.PullRequest, error)
	ListPRs(ctx context.Context, f ListFilter) ([]*core.PullRequest, error)
	UpdatePRDiff(ctx context.Context, prUUID, diffText, headCommit string) (int, error)
	UpdatePRStatus(ctx context.Context, prUUID string, status core.PRStatus) error
	GetLatestDiff(ctx context.Context, prUUID string) (*core.DiffRevision, error)
	ListRevisions(ctx context.Context, prUUID string) ([]*core.DiffRevision, error)

	AddComment(ctx context.Context, prUUID, filePath string, lineNumber int, content string) (*core.Comment, error)
	GetComments(ctx context.Context, prUUID string, unresolvedOnly bool) ([]*core.Comment, error)
	GetCommentsWithReplies(ctx context.Context, prUUID string, unresolvedOnly bool) ([]*core.CommentThread, error)
	GetCommentByUUID(ctx context.Context, commentUUID string) (*core.Comment, error)
	AddReply(ctx context.Context, commentUUID, content, author string) (*core.Reply, error)
	SetCommentResolved(ctx context.Context, commentUUID string, resolved bool) error
}

type sqliteStore struct {
	db *sqlx.DB
}

// NewStore creates a new Store backed by the given database handle.
func NewStore(db *sqlx.DB) Store {
	return &sqliteStore{db: db}
}

// CreatePR inserts a new pull request together with its first diff revision in
// a single transaction, so no reader can observe a PR without revision 1.
func (s *sqliteStore) CreatePR(ctx context.Context, p CreatePRParams) (*core.PullRequest, error) {
	if p.Title == "" {
		return nil, &core.ValidationError{Msg: "title must not be empty"}
	}

	now := time.Now().UTC()
	pr := &core.PullRequest{
		UUID:        uuid.NewString(),
		RepoPath:    p.RepoPath,
		Title:       p.Title,
		Description: p.Description,
		BaseRef:     p.BaseRef,
		HeadRef:     p.HeadRef,
		BaseCommit:  p.BaseCommit,
		HeadCommit:  p.HeadCommit,
		Status:      core.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pull_requests (uuid, repo_path, title, description, base_ref, head_ref, base_commit, head_commit, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pr.UUID, pr.RepoPath, pr.Title, pr.Description, pr.BaseRef, pr.HeadRef,
		pr.BaseCommit, pr.HeadCommit, pr.Status, pr.CreatedAt, pr.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert pull request: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO diff_revisions (pr_uuid, revision_number, diff_text, head_commit, created_at)
		 VALUES (?, 1, ?, ?, ?)`,
		pr.UUID, p.DiffText, p.HeadCommit, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert initial diff revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pull request: %w", err)
	}
	return pr, nil
}

func (s *sqliteStore) GetPRByUUID(ctx context.Context, prUUID string) (*core.PullRequest, error) {
	var pr core.PullRequest
	err := s.db.GetContext(ctx, &pr,
		`SELECT * FROM pull_requests WHERE uuid = ?`, prUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pull request %s: %w", prUUID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query pull request: %w", err)
	}
	return &pr, nil
}

func (s *sqliteStore) ListPRs(ctx context.Context, f ListFilter) ([]*core.PullRequest, error) {
	query := `SELECT * FROM pull_requests WHERE 1=1`
	args := []any{}
	if f.RepoPath != "" {
		query += ` AND repo_path = ?`
		args = append(args, f.RepoPath)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query += ` ORDER BY updated_at DESC LIMIT ?`
	args = append(args, limit)

	prs := []*core.PullRequest{}
	if err := s.db.SelectContext(ctx, &prs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}
	return prs, nil
}

// UpdatePRDiff appends a new diff revision and resets the PR to pending in one
// transaction. The revision number is allocated inside the transaction, so two
// racing updates cannot observe the same MAX and the per-PR sequence stays
// strictly increasing with no gaps. Status and revision move together; a
// concurrent reader never sees the new revision paired with a stale verdict.
func (s *sqliteStore) UpdatePRDiff(ctx context.Context, prUUID, diffText, headCommit string) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM pull_requests WHERE uuid = ?`, prUUID); err != nil {
		return 0, fmt.Errorf("failed to query pull request: %w", err)
	}
	if exists == 0 {
		return 0, fmt.Errorf("pull request %s: %w", prUUID, core.ErrNotFound)
	}

	var next int
	err = tx.GetContext(ctx, &next,
		`SELECT COALESCE(MAX(revision_number), 0) + 1 FROM diff_revisions WHERE pr_uuid = ?`, prUUID)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate revision number: %w", err)
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO diff_revisions (pr_uuid, revision_number, diff_text, head_commit, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		prUUID, next, diffText, headCommit, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert diff revision: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE pull_requests SET status = ?, head_commit = ?, updated_at = ? WHERE uuid = ?`,
		core.StatusPending, headCommit, now, prUUID)
	if err != nil {
		return 0, fmt.Errorf("failed to update pull request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit diff revision: %w", err)
	}
	return next, nil
}

// UpdatePRStatus writes the status unconditionally and bumps updated_at.
// Transition legality is the review engine's responsibility.
func (s *sqliteStore) UpdatePRStatus(ctx context.Context, prUUID string, status core.PRStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pull_requests SET status = ?, updated_at = ? WHERE uuid = ?`,
		status, time.Now().UTC(), prUUID)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("pull request %s: %w", prUUID, core.ErrNotFound)
	}
	return nil
}

func (s *sqliteStore) GetLatestDiff(ctx context.Context, prUUID string) (*core.DiffRevision, error) {
	var rev core.DiffRevision
	err := s.db.GetContext(ctx, &rev,
		`SELECT * FROM diff_revisions WHERE pr_uuid = ? ORDER BY revision_number DESC LIMIT 1`, prUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("diff for pull request %s: %w", prUUID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query latest diff: %w", err)
	}
	return &rev, nil
}

func (s *sqliteStore) ListRevisions(ctx context.Context, prUUID string) ([]*core.DiffRevision, error) {
	revs := []*core.DiffRevision{}
	err := s.db.SelectContext(ctx, &revs,
		`SELECT * FROM diff_revisions WHERE pr_uuid = ? ORDER BY revision_number ASC`, prUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return revs, nil
}

func (s *sqliteStore) AddComment(ctx context.Context, prUUID, filePath string, lineNumber int, content string) (*core.Comment, error) {
	if _, err := s.GetPRByUUID(ctx, prUUID); err != nil {
		return nil, err
	}

	c := &core.Comment{
		UUID:       uuid.NewString(),
		PRUUID:     prUUID,
		FilePath:   filePath,
		LineNumber: lineNumber,
		Content:    content,
		Resolved:   false,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (uuid, pr_uuid, file_path, line_number, content, resolved, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?)`,
		c.UUID, c.PRUUID, c.FilePath, c.LineNumber, c.Content, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}
	return c, nil
}

func (s *sqliteStore) GetComments(ctx context.Context, prUUID string, unresolvedOnly bool) ([]*core.Comment, error) {
	query := `SELECT * FROM comments WHERE pr_uuid = ?`
	if unresolvedOnly {
		query += ` AND resolved = 0`
	}
	query += ` ORDER BY created_at ASC, rowid ASC`

	comments := []*core.Comment{}
	if err := s.db.SelectContext(ctx, &comments, query, prUUID); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *sqliteStore) GetCommentsWithReplies(ctx context.Context, prUUID string, unresolvedOnly bool) ([]*core.CommentThread, error) {
	comments, err := s.GetComments(ctx, prUUID, unresolvedOnly)
	if err != nil {
		return nil, err
	}

	threads := make([]*core.CommentThread, 0, len(comments))
	for _, c := range comments {
		replies := []core.Reply{}
		err := s.db.SelectContext(ctx, &replies,
			`SELECT * FROM replies WHERE comment_uuid = ? ORDER BY created_at ASC, rowid ASC`, c.UUID)
		if err != nil {
			return nil, fmt.Errorf("failed to list replies: %w", err)
		}
		threads = append(threads, &core.CommentThread{Comment: *c, Replies: replies})
	}
	return threads, nil
}

func (s *sqliteStore) GetCommentByUUID(ctx context.Context, commentUUID string) (*core.Comment, error) {
	var c core.Comment
	err := s.db.GetContext(ctx, &c, `SELECT * FROM comments WHERE uuid = ?`, commentUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment %s: %w", commentUUID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query comment: %w", err)
	}
	return &c, nil
}

func (s *sqliteStore) AddReply(ctx context.Context, commentUUID, content, author string) (*core.Reply, error) {
	if _, err := s.GetCommentByUUID(ctx, commentUUID); err != nil {
		return nil, err
	}

	r := &core.Reply{
		UUID:        uuid.NewString(),
		CommentUUID: commentUUID,
		Author:      author,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO replies (uuid, comment_uuid, author, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.UUID, r.CommentUUID, r.Author, r.Content, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reply: %w", err)
	}
	return r, nil
}

func (s *sqliteStore) SetCommentResolved(ctx context.Context, commentUUID string, resolved bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE comments SET resolved = ? WHERE uuid = ?`, resolved, commentUUID)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("comment %s: %w", commentUUID, core.ErrNotFound)
	}
	return nil
}
