package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talentsync/talentsync/aggregate"
	"github.com/talentsync/talentsync/backend"
	"github.com/talentsync/talentsync/candidate"
	"github.com/talentsync/talentsync/pageurl"
	"github.com/talentsync/talentsync/telemetry"
)

// Backend is the subset of backend operations the refresher needs.
type Backend interface {
	OutdatedProfiles(ctx context.Context) ([]backend.OutdatedProfile, error)
	UnlinkCandidate(ctx context.Context, candidateID, linkedinURL string) error
}

// ProfileCollector fetches a full candidate record for a profile.
// *aggregate.Collector satisfies it.
type ProfileCollector interface {
	CollectCandidate(ctx context.Context, profileURL, profileID string, opts aggregate.CollectOptions) (*candidate.Record, error)
}

// Scheduler accepts enrichment tasks. *Queue satisfies it.
type Scheduler interface {
	Schedule(rec *candidate.Record, source string) bool
}

// Refresher re-syncs the stored candidates whose profile data is most
// overdue. A candidate whose URL no longer resolves is unlinked after the
// second consecutive failure; the first failure only flips the sync flag.
type Refresher struct {
	backend   Backend
	collector ProfileCollector
	queue     Scheduler
	reporter  *telemetry.Reporter
	logger    *slog.Logger
}

// NewRefresher creates a Refresher. reporter may be nil.
func NewRefresher(be Backend, collector ProfileCollector, queue Scheduler, reporter *telemetry.Reporter, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		backend:   be,
		collector: collector,
		queue:     queue,
		reporter:  reporter,
		logger:    logger,
	}
}

// Run refreshes one batch of outdated profiles.
func (r *Refresher) Run(ctx context.Context) error {
	outdated, err := r.backend.OutdatedProfiles(ctx)
	if err != nil {
		return fmt.Errorf("outdated profiles: %w", err)
	}
	for _, o := range outdated {
		r.refresh(ctx, o)
	}
	return nil
}

func (r *Refresher) refresh(ctx context.Context, o backend.OutdatedProfile) {
	profileID := pageurl.ProfileID(o.LinkedinURL)
	if profileID == "" {
		r.handleSyncFailure(ctx, o, "Profile URL is not correct")
		return
	}

	collected, err := r.collector.CollectCandidate(ctx, o.LinkedinURL, profileID, aggregate.CollectOptions{
		SkipTransliteration: true,
	})
	if err != nil {
		r.handleSyncFailure(ctx, o, fmt.Sprintf("Error: %v", err))
		return
	}

	// The stored identity wins over the freshly collected one.
	rec := collected.Clone()
	rec.ID = o.CandidateID
	rec.FirstName = o.FirstName
	rec.LastName = o.LastName
	rec.LinkedinURL = o.LinkedinURL
	r.queue.Schedule(rec, "outdated profile refresh")
}

// handleSyncFailure deals with a candidate whose profile could not be
// fetched. The first failure is recorded on the candidate; a failure on
// top of an already-failed sync means the profile is gone, so the URL is
// unlinked.
func (r *Refresher) handleSyncFailure(ctx context.Context, o backend.OutdatedProfile, detail string) {
	var message string
	if !o.IsLastSyncSuccessful {
		if err := r.backend.UnlinkCandidate(ctx, o.CandidateID, o.LinkedinURL); err != nil {
			r.logger.WarnContext(ctx, "unlink failed", "candidate_id", o.CandidateID, "error", err)
		}
		message = fmt.Sprintf("Unlink profile URL: %s", o.LinkedinURL)
	} else {
		rec := &candidate.Record{
			ID:          o.CandidateID,
			FirstName:   o.FirstName,
			LastName:    o.LastName,
			LinkedinURL: o.LinkedinURL,
		}
		rec.SetLastSyncSuccessful(false)
		r.queue.Schedule(rec, "outdated profile refresh")
		message = fmt.Sprintf("Not found profile URL: %s", o.LinkedinURL)
	}
	if detail != "" {
		message += "; " + detail
	}
	if r.reporter != nil {
		source := fmt.Sprintf("Update outdated Profile information for %q", o.FirstName+" "+o.LastName)
		r.reporter.Report(ctx, source, message, o.LinkedinURL)
	}
}
