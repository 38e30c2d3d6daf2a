// Package enrich refreshes stored candidates with newly collected profile
// data, both on demand and for the most outdated records.
package enrich

import (
	"context"
	"log/slog"
	"sync"

	"github.com/talentsync/talentsync/candidate"
	"github.com/talentsync/talentsync/telemetry"
)

// Enricher updates a stored candidate. *backend.Client satisfies it.
type Enricher interface {
	EnrichCandidate(ctx context.Context, rec *candidate.Record) error
}

// InfoCollector fetches the extended profile sections.
// *aggregate.Collector satisfies it.
type InfoCollector interface {
	CollectFullAdditionalInfo(ctx context.Context, rec *candidate.Record) *candidate.Record
}

// Task is one enrichment request. Source names the flow that scheduled it.
type Task struct {
	Record *candidate.Record
	Source string
}

const defaultQueueCapacity = 16

// Queue is a bounded enrichment queue with a single worker. Scheduling is
// non-blocking: a full queue drops the task.
type Queue struct {
	enricher  Enricher
	collector InfoCollector
	reporter  *telemetry.Reporter
	logger    *slog.Logger

	tasks chan Task

	mu      sync.Mutex
	stopped bool
}

// NewQueue creates a Queue. reporter may be nil.
func NewQueue(enricher Enricher, collector InfoCollector, reporter *telemetry.Reporter, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		enricher:  enricher,
		collector: collector,
		reporter:  reporter,
		logger:    logger,
		tasks:     make(chan Task, defaultQueueCapacity),
	}
}

// Schedule queues an enrichment task. It reports whether the task was
// accepted.
func (q *Queue) Schedule(rec *candidate.Record, source string) bool {
	if rec == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return false
	}
	select {
	case q.tasks <- Task{Record: rec, Source: source}:
		return true
	default:
		q.logger.Warn("enrichment queue full, task dropped", "candidate_id", rec.ID, "source", source)
		return false
	}
}

// Pending returns the number of queued tasks.
func (q *Queue) Pending() int { return len(q.tasks) }

// Run drains the queue until ctx is canceled.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.stopped = true
			q.mu.Unlock()
			return
		case task := <-q.tasks:
			q.process(ctx, task)
		}
	}
}

// process runs the enrichment pipeline for one task: reduce the record to
// the fields the backend accepts, top it up with the extended sections
// when the last sync brought real data, then push it.
func (q *Queue) process(ctx context.Context, task Task) {
	payload := task.Record.ForEnrich()

	if payload.LastSyncSuccessful() && q.collector != nil {
		info := q.collector.CollectFullAdditionalInfo(ctx, payload)
		payload.Merge(info)
	}

	if err := q.enricher.EnrichCandidate(ctx, payload); err != nil {
		q.logger.WarnContext(ctx, "enrichment failed",
			"candidate_id", payload.ID, "source", task.Source, "error", err)
		if q.reporter != nil {
			q.reporter.ReportAPIError(ctx, err, payload.LinkedinURL)
		}
		return
	}
	q.logger.InfoContext(ctx, "candidate enriched", "candidate_id", payload.ID, "source", task.Source)
}
