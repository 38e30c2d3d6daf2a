// Package telemetry ships error reports to the backend logging endpoint.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talentsync/talentsync/backend"
)

// Sender delivers a report. *backend.Client satisfies it.
type Sender interface {
	ReportError(ctx context.Context, report backend.ErrorReport) error
}

// Reporter formats and sends error reports. Delivery failures are logged
// and swallowed: telemetry must never break the flow that triggered it.
type Reporter struct {
	sender  Sender
	version string
	logger  *slog.Logger
}

// New creates a Reporter. version identifies the build in report sources.
func New(sender Sender, version string, logger *slog.Logger) *Reporter {
	if version == "" {
		version = "--"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{sender: sender, version: version, logger: logger}
}

// Report sends one error report. windowURL names the page the error
// happened on and is appended to the message.
func (r *Reporter) Report(ctx context.Context, source, message, windowURL string) {
	if r.sender == nil {
		return
	}
	reportID := uuid.NewString()
	report := backend.ErrorReport{
		Source:  fmt.Sprintf("TalentSync v%s: %s ---", r.version, source),
		Message: message + " at " + windowURL,
	}
	if err := r.sender.ReportError(ctx, report); err != nil {
		r.logger.WarnContext(ctx, "error report delivery failed",
			"report_id", reportID, "source", source, "error", err)
		return
	}
	r.logger.DebugContext(ctx, "error report delivered", "report_id", reportID, "source", source)
}

// ReportAPIError reports a failed backend call. Session-expired responses
// are excluded: the user recovers from those by logging in.
func (r *Reporter) ReportAPIError(ctx context.Context, err error, windowURL string) {
	apiErr, ok := backend.AsAPIError(err)
	if !ok || !apiErr.Reportable() {
		return
	}
	r.Report(ctx, "", fmt.Sprintf("Status %d, %s", apiErr.Status, apiErr.Message), windowURL)
}
