package dom

import (
	"context"
	"log/slog"
	"time"
)

// State is the outcome of a wait.
type State int

const (
	// Waiting means polling is still in progress.
	Waiting State = iota
	// Found means the extractor produced a value.
	Found
	// TimedOut means every attempt was used up.
	TimedOut
	// Aborted means the page address changed mid-wait.
	Aborted
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Found:
		return "found"
	case TimedOut:
		return "timed out"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// The page builds itself gradually, so elements are polled for rather
// than read once.
const (
	waitInterval    = 500 * time.Millisecond
	waitMaxAttempts = 20
)

// Extractor pulls a value out of a snapshot. ok=false keeps the waiter
// polling.
type Extractor func(*Snapshot) (value string, ok bool)

// Waiter polls a page source until an extractor succeeds, the attempts run
// out, or the user navigates away.
type Waiter struct {
	interval time.Duration
	attempts int
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *slog.Logger
}

// WaiterOption configures a Waiter.
type WaiterOption func(*Waiter)

// WithInterval overrides the poll interval.
func WithInterval(d time.Duration) WaiterOption {
	return func(w *Waiter) { w.interval = d }
}

// WithMaxAttempts overrides the attempt budget.
func WithMaxAttempts(n int) WaiterOption {
	return func(w *Waiter) { w.attempts = n }
}

// WithSleep replaces the inter-attempt sleep (tests).
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) WaiterOption {
	return func(w *Waiter) { w.sleep = sleep }
}

// NewWaiter creates a Waiter with the standard poll budget.
func NewWaiter(logger *slog.Logger, opts ...WaiterOption) *Waiter {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Waiter{
		interval: waitInterval,
		attempts: waitMaxAttempts,
		sleep:    sleepCtx,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Wait polls source until extract succeeds. It returns the extracted value
// with Found, or "" with TimedOut or Aborted. A navigation away from the
// address the wait started on aborts it.
func (w *Waiter) Wait(ctx context.Context, source Source, extract Extractor) (string, State) {
	startURL := source.URL()

	for attempt := 1; attempt <= w.attempts; attempt++ {
		if err := w.sleep(ctx, w.interval); err != nil {
			return "", Aborted
		}
		if source.URL() != startURL {
			w.logger.Debug("wait aborted by navigation", "start_url", startURL)
			return "", Aborted
		}

		html, err := source.HTML(ctx)
		if err != nil {
			w.logger.Debug("page read failed", "attempt", attempt, "error", err)
			continue
		}
		snapshot, err := NewSnapshot(html)
		if err != nil {
			w.logger.Debug("page parse failed", "attempt", attempt, "error", err)
			continue
		}
		if value, ok := extract(snapshot); ok {
			return value, Found
		}
	}
	return "", TimedOut
}
