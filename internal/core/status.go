package core

import "fmt"

// PRStatus is the review state of a pull request.
type PRStatus string

const (
	StatusPending          PRStatus = "pending"
	StatusApproved         PRStatus = "approved"
	StatusChangesRequested PRStatus = "changes_requested"
	StatusMerged           PRStatus = "merged"
	StatusClosed           PRStatus = "closed"
)

// Statuses lists all valid states, in lifecycle order.
var Statuses = []PRStatus{
	StatusPending,
	StatusApproved,
	StatusChangesRequested,
	StatusMerged,
	StatusClosed,
}

// ParsePRStatus converts a user-supplied string into a PRStatus.
func ParsePRStatus(s string) (PRStatus, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", &ValidationError{Msg: fmt.Sprintf("unknown status %q", s)}
}

func (s PRStatus) String() string { return string(s) }

// Terminal reports whether the status is absorbing: once merged or closed, no
// further status mutation is accepted.
func (s PRStatus) Terminal() bool {
	return s == StatusMerged || s == StatusClosed
}

// CanTransitionTo reports whether the state machine permits moving from s to
// next. The legal edges are:
//
//	pending  -> approved | changes_requested
//	pending | approved | changes_requested -> pending   (new diff revision)
//	approved -> merged
//	any non-terminal -> closed
func (s PRStatus) CanTransitionTo(next PRStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case StatusPending:
		return true
	case StatusApproved, StatusChangesRequested:
		return s == StatusPending
	case StatusMerged:
		return s == StatusApproved
	case StatusClosed:
		return true
	default:
		return false
	}
}
