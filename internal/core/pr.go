// Package core defines the domain types shared by the storage layer, the
// review lifecycle engine, and the outward-facing CLI/HTTP surfaces. The types
// here carry no presentation data; rendering is the consumer's concern.
package core

import "time"

// PullRequest is one locally tracked review, identified by an opaque UUID.
// RepoPath is always stored as an absolute path so lookups from different
// working directories resolve to the same record.
type PullRequest struct {
	UUID        string    `db:"uuid" json:"uuid"`
	RepoPath    string    `db:"repo_path" json:"repo_path"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description,omitempty"`
	BaseRef     string    `db:"base_ref" json:"base_ref"`
	HeadRef     string    `db:"head_ref" json:"head_ref"`
	BaseCommit  string    `db:"base_commit" json:"base_commit"`
	HeadCommit  string    `db:"head_commit" json:"head_commit"`
	Status      PRStatus  `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DiffRevision is one captured snapshot of the diff between base and head.
// Revision numbers are per-PR, strictly increasing, starting at 1, and are
// assigned by the storage layer.
type DiffRevision struct {
	ID             int64     `db:"id" json:"-"`
	PRUUID         string    `db:"pr_uuid" json:"pr_uuid"`
	RevisionNumber int       `db:"revision_number" json:"revision_number"`
	DiffText       string    `db:"diff_text" json:"diff_text"`
	HeadCommit     string    `db:"head_commit" json:"head_commit"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Comment is a review comment anchored to a file/line pair within its PR.
// The engine does not verify the anchor against the current diff; that is the
// commenter's responsibility.
type Comment struct {
	UUID       string    `db:"uuid" json:"uuid"`
	PRUUID     string    `db:"pr_uuid" json:"pr_uuid"`
	FilePath   string    `db:"file_path" json:"file_path"`
	LineNumber int       `db:"line_number" json:"line_number"`
	Content    string    `db:"content" json:"content"`
	Resolved   bool      `db:"resolved" json:"resolved"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Reply is one entry in a comment's append-only discussion log. Author is a
// free-form display name, conventionally "claude" for the agent side.
type Reply struct {
	UUID        string    `db:"uuid" json:"uuid"`
	CommentUUID string    `db:"comment_uuid" json:"comment_uuid"`
	Author      string    `db:"author" json:"author"`
	Content     string    `db:"content" json:"content"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CommentThread pairs a comment with its replies in creation order.
type CommentThread struct {
	Comment Comment `json:"comment"`
	Replies []Reply `json:"replies"`
}
