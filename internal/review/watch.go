package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prlocal/prlocal/internal/core"
	"github.com/prlocal/prlocal/internal/storage"
)

// WatchTarget is the condition a watch loop waits for.
type WatchTarget string

const (
	TargetApproved         WatchTarget = "approved"
	TargetChangesRequested WatchTarget = "changes_requested"
	TargetPending          WatchTarget = "pending"
	// TargetFeedbackGiven succeeds on either approval or changes_requested.
	TargetFeedbackGiven WatchTarget = "feedback_given"
	// TargetAnyChange succeeds on any status or updated_at change from the
	// baseline captured when the watch started.
	TargetAnyChange WatchTarget = "any_change"
)

// ParseWatchTarget converts a user-supplied string into a WatchTarget.
func ParseWatchTarget(s string) (WatchTarget, error) {
	switch t := WatchTarget(s); t {
	case TargetApproved, TargetChangesRequested, TargetPending, TargetFeedbackGiven, TargetAnyChange:
		return t, nil
	default:
		return "", &core.ValidationError{Msg: fmt.Sprintf("unknown watch target %q", s)}
	}
}

// WatchOutcome classifies how a watch ended.
type WatchOutcome int

const (
	// OutcomeConditionMet means the target condition was reached.
	OutcomeConditionMet WatchOutcome = iota
	// OutcomeTimedOut means the timeout elapsed first.
	OutcomeTimedOut
	// OutcomeCanceled means the caller's context was canceled; not an error.
	OutcomeCanceled
)

func (o WatchOutcome) String() string {
	switch o {
	case OutcomeConditionMet:
		return "condition met"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// WatchOptions configures a watch loop. Zero Interval defaults to 2s; zero
// Timeout means unbounded.
type WatchOptions struct {
	Target   WatchTarget
	Interval time.Duration
	Timeout  time.Duration
}

// WatchResult reports how the watch ended and the last observed state. When
// the met condition involves changes_requested (or the target was any_change),
// Unresolved carries the open comment threads the caller needs to act on.
type WatchResult struct {
	Outcome    WatchOutcome
	Status     core.PRStatus
	Elapsed    time.Duration
	Unresolved []*core.CommentThread
}

// Watcher polls PR state until a target condition, timeout, or cancellation.
// It is a pure client of the store's read operations.
type Watcher struct {
	store  storage.Store
	logger *slog.Logger
}

// NewWatcher creates a new watch-loop client.
func NewWatcher(store storage.Store, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{store: store, logger: logger}
}

// Watch samples the PR every interval until the target condition is met, the
// timeout elapses, the PR disappears (core.ErrNotFound), or ctx is canceled.
// Cancellation is a clean outcome, not an error; the loop reacts to it within
// one poll interval.
func (w *Watcher) Watch(ctx context.Context, prUUID string, opts WatchOptions) (*WatchResult, error) {
	if opts.Target == "" {
		opts.Target = TargetFeedbackGiven
	}
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}

	baseline, err := w.store.GetPRByUUID(ctx, prUUID)
	if err != nil {
		return nil, err
	}
	last := baseline.Status
	start := time.Now()

	w.logger.Debug("watching pull request",
		"uuid", prUUID, "target", opts.Target, "interval", opts.Interval, "timeout", opts.Timeout)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return &WatchResult{Outcome: OutcomeCanceled, Status: last, Elapsed: time.Since(start)}, nil
		case <-deadline:
			return &WatchResult{Outcome: OutcomeTimedOut, Status: last, Elapsed: time.Since(start)}, nil
		case <-ticker.C:
			pr, err := w.store.GetPRByUUID(ctx, prUUID)
			if err != nil {
				// A cancellation can land after the tick was chosen, failing
				// the query instead of selecting ctx.Done. Still a clean stop.
				if canceled(ctx, err) {
					return &WatchResult{Outcome: OutcomeCanceled, Status: last, Elapsed: time.Since(start)}, nil
				}
				return nil, err
			}
			last = pr.Status

			if !targetMet(opts.Target, baseline, pr) {
				continue
			}

			res := &WatchResult{Outcome: OutcomeConditionMet, Status: pr.Status, Elapsed: time.Since(start)}
			if pr.Status == core.StatusChangesRequested || opts.Target == TargetAnyChange {
				threads, err := w.store.GetCommentsWithReplies(ctx, prUUID, true)
				if err != nil {
					if canceled(ctx, err) {
						return &WatchResult{Outcome: OutcomeCanceled, Status: last, Elapsed: time.Since(start)}, nil
					}
					return nil, err
				}
				res.Unresolved = threads
			}
			return res, nil
		}
	}
}

// canceled reports whether a poll failure is attributable to the caller's
// context rather than the store. A lookup miss keeps its ErrNotFound meaning
// even under a canceled context.
func canceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil && !errors.Is(err, core.ErrNotFound)
}

func targetMet(target WatchTarget, baseline, cur *core.PullRequest) bool {
	switch target {
	case TargetAnyChange:
		return cur.Status != baseline.Status || !cur.UpdatedAt.Equal(baseline.UpdatedAt)
	case TargetFeedbackGiven:
		return cur.Status == core.StatusApproved || cur.Status == core.StatusChangesRequested
	default:
		return cur.Status == core.PRStatus(target)
	}
}
