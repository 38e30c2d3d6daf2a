// Package talentsync resolves LinkedIn profile pages against a recruiting
// backend. A navigation event is classified, the profile's data is
// aggregated from the page and LinkedIn's internal API, and the result is
// reconciled with the backend's candidate database.
//
// Basic usage:
//
//	pipeline := talentsync.NewPipeline(talentsync.PipelineConfig{
//	    Searcher:  client,
//	    Collector: collector,
//	    Sessions:  sessions,
//	})
//	outcome := pipeline.HandleNavigation(ctx, tabURL)
package talentsync

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/talentsync/talentsync/aggregate"
	"github.com/talentsync/talentsync/backend"
	"github.com/talentsync/talentsync/candidate"
	"github.com/talentsync/talentsync/dom"
	"github.com/talentsync/talentsync/pageurl"
	"github.com/talentsync/talentsync/reconcile"
	"github.com/talentsync/talentsync/session"
	"github.com/talentsync/talentsync/telemetry"
)

// ProfileDataFailureMessage is shown when profile aggregation fails.
const ProfileDataFailureMessage = "Failed to get profile data. Please refresh a page."

// CandidateSearcher finds stored candidates matching a profile.
// *backend.Client satisfies it.
type CandidateSearcher interface {
	FindCandidates(ctx context.Context, query backend.SearchQuery) ([]backend.Candidate, error)
}

// ProfileCollector aggregates a profile into a candidate record.
// *aggregate.Collector satisfies it.
type ProfileCollector interface {
	CollectCandidate(ctx context.Context, profileURL, profileID string, opts aggregate.CollectOptions) (*candidate.Record, error)
}

// AccessGate is the sticky no-access precondition. *backend.Gate
// satisfies it.
type AccessGate interface {
	Closed(ctx context.Context) bool
}

// SourceFactory opens a DOM source for a tab URL.
type SourceFactory func(tabURL string) dom.Source

// PipelineConfig wires a Pipeline. Gate, Reporter, Waiter and Logger are
// optional.
type PipelineConfig struct {
	Searcher   CandidateSearcher
	Collector  ProfileCollector
	Gate       AccessGate
	Sessions   *session.Store
	Reconciler *reconcile.Reconciler
	Reporter   *telemetry.Reporter
	Waiter     *dom.Waiter
	NewSource  SourceFactory
	Logger     *slog.Logger
}

// Pipeline handles page navigations end to end.
type Pipeline struct {
	searcher   CandidateSearcher
	collector  ProfileCollector
	gate       AccessGate
	sessions   *session.Store
	reconciler *reconcile.Reconciler
	reporter   *telemetry.Reporter
	waiter     *dom.Waiter
	newSource  SourceFactory
	logger     *slog.Logger
}

// NewPipeline creates a Pipeline from cfg.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	waiter := cfg.Waiter
	if waiter == nil {
		waiter = dom.NewWaiter(logger)
	}
	reconciler := cfg.Reconciler
	if reconciler == nil {
		reconciler = reconcile.New(nil, logger)
	}
	return &Pipeline{
		searcher:   cfg.Searcher,
		collector:  cfg.Collector,
		gate:       cfg.Gate,
		sessions:   cfg.Sessions,
		reconciler: reconciler,
		reporter:   cfg.Reporter,
		waiter:     waiter,
		newSource:  cfg.NewSource,
		logger:     logger,
	}
}

// Outcome is the result of handling one navigation. A nil Outcome means
// the page was not one of ours, or the user navigated away while the
// visit was being resolved.
type Outcome struct {
	Kind        pageurl.Kind
	NotLoggedIn bool
	// Loading marks a visit that is already being resolved; Message then
	// carries the stored progress text, if any.
	Loading bool
	Message string
	Profile *candidate.Record
	Result  *reconcile.Result
	Listing []ListingEntry
}

// ListingEntry pairs one search-results card with its match state.
type ListingEntry struct {
	ProfileURL string
	Result     reconcile.Result
}

// HandleNavigation resolves one tab navigation. Unrecognized URLs are a
// no-op.
func (p *Pipeline) HandleNavigation(ctx context.Context, tabURL string) *Outcome {
	identity := pageurl.Classify(tabURL)
	if identity == nil {
		return nil
	}
	p.logger.DebugContext(ctx, "handling navigation", "kind", identity.Kind.String(), "url", tabURL)

	source := p.newSource(tabURL)
	if identity.Kind == pageurl.SearchPage {
		return p.handleListing(ctx, identity, source)
	}
	return p.handleProfile(ctx, identity, source, tabURL)
}

func (p *Pipeline) handleProfile(ctx context.Context, identity *pageurl.Identity, source dom.Source, tabURL string) *Outcome {
	out := &Outcome{Kind: identity.Kind}

	snap, ok := p.snapshot(ctx, source, out)
	if !ok {
		return out
	}
	if !snap.LoggedIn() {
		out.NotLoggedIn = true
		return out
	}

	profileURL := identity.CanonicalProfileURL
	profileID := identity.ProfileID
	if identity.Kind == pageurl.RecruiterProfilePage {
		resolved, state := p.resolveRecruiterProfileURL(ctx, source)
		switch state {
		case dom.Aborted:
			return nil
		case dom.Found:
			profileURL = resolved
			profileID = pageurl.ProfileID(resolved)
		default:
			out.Message = ProfileDataFailureMessage
			p.report(ctx, "Profile URL is not resolved: "+tabURL, tabURL)
			return out
		}
	}

	if p.gate != nil && p.gate.Closed(ctx) {
		out.Result = &reconcile.Result{State: reconcile.Error, Message: reconcile.NoAccessMessage, NoAccess: true}
		return out
	}

	entry := p.sessions.Open(profileURL)
	if entry.RequestPending {
		out.Loading = true
		out.Message = entry.LoadingMessage
		return out
	}
	if !p.sessions.BeginFetch(profileURL, tabURL) {
		out.Loading = true
		return out
	}
	defer p.sessions.EndFetch(profileURL)

	rec, err := p.collector.CollectCandidate(ctx, profileURL, profileID, aggregate.CollectOptions{})
	if err != nil {
		p.logger.DebugContext(ctx, "profile aggregation failed", "profile_url", profileURL, "error", err)
		out.Message = ProfileDataFailureMessage
		p.report(ctx, "Profile URL: "+profileURL, tabURL)
		return out
	}
	// The user may have moved on while LinkedIn was being queried; a
	// stale response must not repaint the current page.
	if !p.sessions.IsCurrentPage(tabURL) {
		return nil
	}
	merged := p.sessions.Merge(profileURL, rec)
	out.Profile = merged.Profile

	found, searchErr := p.searcher.FindCandidates(ctx, backend.QueryFromRecord(merged.Profile))
	result := p.reconciler.Reconcile(ctx, merged.Profile, found, searchErr, reconcile.Options{Source: "profile visit"})
	if result.Reportable && p.reporter != nil {
		p.reporter.ReportAPIError(ctx, searchErr, tabURL)
	}
	if !p.sessions.IsCurrentPage(tabURL) {
		return nil
	}
	out.Result = &result
	return out
}

func (p *Pipeline) handleListing(ctx context.Context, identity *pageurl.Identity, source dom.Source) *Outcome {
	out := &Outcome{Kind: identity.Kind}

	if p.gate != nil && p.gate.Closed(ctx) {
		out.Result = &reconcile.Result{State: reconcile.Error, Message: reconcile.NoAccessMessage, NoAccess: true}
		return out
	}

	snap, ok := p.snapshot(ctx, source, out)
	if !ok {
		return out
	}
	if !snap.LoggedIn() {
		out.NotLoggedIn = true
		return out
	}

	for _, person := range snap.SearchResultPeople() {
		rec := &candidate.Record{LinkedinID: person.LinkedinID, LinkedinURL: person.ProfileHref}
		found, searchErr := p.searcher.FindCandidates(ctx, backend.QueryFromRecord(rec))
		result := p.reconciler.Reconcile(ctx, rec, found, searchErr, reconcile.Options{ListingPass: true, Source: "search listing"})
		out.Listing = append(out.Listing, ListingEntry{ProfileURL: person.ProfileHref, Result: result})
		if result.NoAccess {
			out.Result = &result
			break
		}
	}
	return out
}

// snapshot reads and parses the page. On failure it stamps the generic
// message on out and reports false.
func (p *Pipeline) snapshot(ctx context.Context, source dom.Source, out *Outcome) (*dom.Snapshot, bool) {
	html, err := source.HTML(ctx)
	if err != nil {
		p.logger.DebugContext(ctx, "page read failed", "url", source.URL(), "error", err)
		out.Message = ProfileDataFailureMessage
		return nil, false
	}
	snap, err := dom.NewSnapshot(html)
	if err != nil {
		p.logger.DebugContext(ctx, "page parse failed", "url", source.URL(), "error", err)
		out.Message = ProfileDataFailureMessage
		return nil, false
	}
	return snap, true
}

// resolveRecruiterProfileURL polls the recruiter page for the personal-info
// link that carries the public profile address.
func (p *Pipeline) resolveRecruiterProfileURL(ctx context.Context, source dom.Source) (string, dom.State) {
	value, state := p.waiter.Wait(ctx, source, func(s *dom.Snapshot) (string, bool) {
		href := s.RecruiterPublicProfileURL()
		return href, href != ""
	})
	if state != dom.Found {
		return "", state
	}
	resolved := decode(value)
	if !strings.HasSuffix(resolved, "/") {
		resolved += "/"
	}
	return resolved, dom.Found
}

func (p *Pipeline) report(ctx context.Context, message, tabURL string) {
	if p.reporter == nil {
		return
	}
	p.reporter.Report(ctx, "Caught an error while collecting Profile Data", message, tabURL)
}

func decode(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
