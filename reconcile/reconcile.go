// Package reconcile resolves a collected profile against backend search
// results and decides the visit outcome.
package reconcile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/talentsync/talentsync/backend"
	"github.com/talentsync/talentsync/candidate"
)

// State is the terminal outcome of one search pass.
type State int

const (
	// Searching is the initial, non-terminal state.
	Searching State = iota
	// PerfectMatch means exactly one result carried the perfect-match flag.
	PerfectMatch
	// MultipleMatches means results came back without a single perfect match.
	MultipleMatches
	// NoMatch means the backend knows nobody with this profile.
	NoMatch
	// Error means the search failed.
	Error
)

func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case PerfectMatch:
		return "perfect match"
	case MultipleMatches:
		return "multiple matches"
	case NoMatch:
		return "no match"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// NoAccessMessage is shown when the backend has revoked access.
const NoAccessMessage = "You have no access to TalentSync. Please remove the integration from your browser."

// GenericFailureMessage is shown for unclassified backend failures.
const GenericFailureMessage = "Failed to search candidates. Please refresh the page."

// Result is the reconciled outcome of a search pass.
type Result struct {
	State State
	// Match is set for PerfectMatch.
	Match *backend.Candidate
	// Candidates holds every returned result for MultipleMatches.
	Candidates []backend.Candidate
	// Message is the user-facing text for Error outcomes.
	Message string
	// NoAccess marks the sticky 403 condition.
	NoAccess bool
	// Reportable marks errors that belong in telemetry.
	Reportable bool
}

// Scheduler accepts enrichment work for asynchronous processing.
// enrich.Queue satisfies it.
type Scheduler interface {
	Schedule(rec *candidate.Record, source string) bool
}

// Reconciler turns search responses into visit outcomes and schedules
// enrichment for stale perfect matches.
type Reconciler struct {
	queue  Scheduler
	logger *slog.Logger
}

// New creates a Reconciler. queue may be nil, which disables enrichment
// scheduling.
func New(queue Scheduler, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{queue: queue, logger: logger}
}

// Options steers one reconcile pass.
type Options struct {
	// ListingPass marks the search-results page flow, which must never
	// schedule enrichment.
	ListingPass bool
	// Source names the pass for enrichment bookkeeping.
	Source string
}

// Reconcile classifies a search response. searchErr takes precedence over
// the result set.
func (r *Reconciler) Reconcile(ctx context.Context, local *candidate.Record, found []backend.Candidate, searchErr error, opts Options) Result {
	if searchErr != nil {
		return r.classifyError(ctx, searchErr)
	}

	if len(found) == 1 && found[0].IsPerfectMatch {
		match := found[0]
		r.maybeScheduleEnrichment(ctx, local, &match, opts)
		return Result{State: PerfectMatch, Match: &match}
	}
	if len(found) > 0 {
		return Result{State: MultipleMatches, Candidates: found}
	}
	return Result{State: NoMatch}
}

// maybeScheduleEnrichment queues a refresh of the matched candidate when
// the backend flagged its profile data stale. The listing pass never
// enriches, and neither does a pass that could not resolve the public
// identifier.
func (r *Reconciler) maybeScheduleEnrichment(ctx context.Context, local *candidate.Record, match *backend.Candidate, opts Options) {
	if r.queue == nil || opts.ListingPass {
		return
	}
	if !match.LinkedinInfoUpdateRequired || local == nil || local.PublicIdentifier == "" {
		return
	}
	rec := local.Clone()
	rec.ID = match.ID
	if r.queue.Schedule(rec, opts.Source) {
		r.logger.DebugContext(ctx, "enrichment scheduled", "candidate_id", match.ID)
	}
}

func (r *Reconciler) classifyError(ctx context.Context, err error) Result {
	if errors.Is(err, backend.ErrNoAccess) {
		return Result{State: Error, Message: NoAccessMessage, NoAccess: true}
	}
	apiErr, ok := backend.AsAPIError(err)
	if !ok {
		r.logger.WarnContext(ctx, "candidate search failed", "error", err)
		return Result{State: Error, Message: GenericFailureMessage, Reportable: true}
	}
	switch {
	case apiErr.NoAccess():
		return Result{State: Error, Message: NoAccessMessage, NoAccess: true}
	case apiErr.SessionExpired():
		// Recoverable by logging in again; stays out of telemetry.
		return Result{State: Error, Message: apiErr.Message}
	default:
		return Result{State: Error, Message: apiErr.Message, Reportable: apiErr.Reportable()}
	}
}
