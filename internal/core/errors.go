package core

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a lookup miss for a PR, comment, or git ref. Callers
// test for it with errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed input, such as an empty title or
// identical base and head refs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// InvalidTransitionError reports an illegal status change.
type InvalidTransitionError struct {
	From PRStatus
	To   PRStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// PreconditionFailedError reports a lifecycle precondition that blocked an
// operation, such as uncommitted changes blocking a merge.
type PreconditionFailedError struct {
	Reason string
}

func (e *PreconditionFailedError) Error() string { return e.Reason }

// CollaboratorError reports a failure from the git collaborator. Message
// carries the collaborator's output verbatim.
type CollaboratorError struct {
	Op      string
	Message string
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("git %s failed: %s", e.Op, e.Message)
}
