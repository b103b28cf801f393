package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/prlocal/prlocal/internal/review"
	"github.com/prlocal/prlocal/internal/wire"
)

var (
	watchFor      string
	watchInterval time.Duration
	watchTimeout  time.Duration
	watchJSON     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <pr-uuid>",
	Short: "Block until the reviewer acts on a pull request",
	Long: `Poll a pull request until the target condition is met, the timeout
elapses, or the command is interrupted.

Targets:
  feedback_given     approved or changes_requested (default)
  approved           reviewer approved
  changes_requested  reviewer requested changes
  pending            PR returned to pending
  any_change         any status or content change

When the review ends in changes_requested, the unresolved comment threads are
printed so the author knows what to fix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		target, err := review.ParseWatchTarget(watchFor)
		if err != nil {
			return err
		}

		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithCancel(sigCtx)
		defer cancel()

		app, cleanup, err := wire.InitializeApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize app services: %w", err)
		}
		defer cleanup()

		interval := watchInterval
		if interval <= 0 {
			interval = app.Cfg.WatchInterval
		}

		// The watch loop runs in the background while the TUI spins. Closing
		// done publishes the result to every waiter (the TUI command and the
		// read below), so neither can strand the other.
		var (
			watchRes *review.WatchResult
			watchErr error
		)
		done := make(chan struct{})
		go func() {
			watchRes, watchErr = app.Watcher.Watch(ctx, args[0], review.WatchOptions{
				Target:   target,
				Interval: interval,
				Timeout:  watchTimeout,
			})
			close(done)
		}()

		m := newWatchModel(args[0], target, done, cancel)
		if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		<-done
		if watchErr != nil {
			return watchErr
		}
		return reportWatchResult(watchRes)
	},
}

func reportWatchResult(res *review.WatchResult) error {
	if watchJSON {
		return printJSON(map[string]any{
			"outcome":    res.Outcome.String(),
			"status":     res.Status,
			"elapsed":    res.Elapsed.Round(time.Millisecond).String(),
			"unresolved": res.Unresolved,
		})
	}

	switch res.Outcome {
	case review.OutcomeConditionMet:
		statusColor(res.Status).Printf("PR is %s", res.Status)
		dimColor.Printf("  (after %s)\n", res.Elapsed.Round(time.Second))
	case review.OutcomeTimedOut:
		warnColor.Printf("Timed out after %s, last status: %s\n", res.Elapsed.Round(time.Second), res.Status)
	case review.OutcomeCanceled:
		dimColor.Println("Watch canceled")
	}

	if len(res.Unresolved) > 0 {
		fmt.Println()
		warnColor.Printf("%d unresolved comment(s):\n", len(res.Unresolved))
		for _, thread := range res.Unresolved {
			boldColor.Printf("  %s:%d", thread.Comment.FilePath, thread.Comment.LineNumber)
			dimColor.Printf("  [%s]\n", thread.Comment.UUID)
			infoColor.Printf("    %s\n", thread.Comment.Content)
		}
	}

	if res.Outcome == review.OutcomeTimedOut {
		return fmt.Errorf("watch timed out")
	}
	return nil
}

// watchDoneMsg indicates that the watch loop has finished. The result itself
// is read outside the TUI, after the program exits.
type watchDoneMsg struct{}

type watchModel struct {
	spinner spinner.Model
	prUUID  string
	target  review.WatchTarget
	start   time.Time
	done    <-chan struct{}
	cancel  context.CancelFunc
}

func newWatchModel(prUUID string, target review.WatchTarget, done <-chan struct{}, cancel context.CancelFunc) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return watchModel{
		spinner: sp,
		prUUID:  prUUID,
		target:  target,
		start:   time.Now(),
		done:    done,
		cancel:  cancel,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForDone())
}

// waitForDone forwards the watch loop's completion into the TUI event loop.
func (m watchModel) waitForDone() tea.Cmd {
	return func() tea.Msg {
		<-m.done
		return watchDoneMsg{}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchDoneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			// Stops the watch loop; it reports a canceled outcome.
			m.cancel()
			return m, tea.Quit
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m watchModel) View() string {
	return fmt.Sprintf("%s waiting for %s on %s (%s)\n",
		m.spinner.View(), m.target, m.prUUID, time.Since(m.start).Round(time.Second))
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	watchCmd.Flags().StringVar(&watchFor, "until", "feedback_given", "Target condition to wait for")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Poll interval (default from config)")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 0, "Give up after this long (0 = wait forever)")
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Output the outcome as JSON")
	rootCmd.AddCommand(watchCmd)
}
