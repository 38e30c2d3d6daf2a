package reconcile

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/talentsync/talentsync/backend"
	"github.com/talentsync/talentsync/candidate"
)

type fakeScheduler struct {
	scheduled []*candidate.Record
}

func (f *fakeScheduler) Schedule(rec *candidate.Record, _ string) bool {
	f.scheduled = append(f.scheduled, rec)
	return true
}

func localRecord() *candidate.Record {
	return &candidate.Record{
		FirstName:        "Jane",
		LastName:         "Roe",
		PublicIdentifier: "jane-roe",
		LinkedinURL:      "https://www.linkedin.com/in/jane-roe/",
	}
}

func TestReconcileStates(t *testing.T) {
	tests := []struct {
		name  string
		found []backend.Candidate
		want  State
	}{
		{
			name:  "single perfect match",
			found: []backend.Candidate{{ID: "1", IsPerfectMatch: true}},
			want:  PerfectMatch,
		},
		{
			name:  "single non perfect match",
			found: []backend.Candidate{{ID: "1"}},
			want:  MultipleMatches,
		},
		{
			name:  "two results",
			found: []backend.Candidate{{ID: "1", IsPerfectMatch: true}, {ID: "2"}},
			want:  MultipleMatches,
		},
		{
			name: "no results",
			want: NoMatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(nil, nil)
			got := r.Reconcile(context.Background(), localRecord(), tt.found, nil, Options{})
			if got.State != tt.want {
				t.Errorf("State = %v, want %v", got.State, tt.want)
			}
		})
	}
}

func TestReconcileSchedulesEnrichment(t *testing.T) {
	queue := &fakeScheduler{}
	r := New(queue, nil)

	found := []backend.Candidate{{ID: "42", IsPerfectMatch: true, LinkedinInfoUpdateRequired: true}}
	res := r.Reconcile(context.Background(), localRecord(), found, nil, Options{Source: "profile visit"})

	if res.State != PerfectMatch {
		t.Fatalf("State = %v", res.State)
	}
	if len(queue.scheduled) != 1 {
		t.Fatalf("scheduled %d tasks, want 1", len(queue.scheduled))
	}
	if queue.scheduled[0].ID != "42" {
		t.Errorf("scheduled candidate id = %q, want %q", queue.scheduled[0].ID, "42")
	}
	if queue.scheduled[0].PublicIdentifier != "jane-roe" {
		t.Errorf("scheduled record lost the local profile data")
	}
}

func TestReconcileEnrichmentGuards(t *testing.T) {
	tests := []struct {
		name  string
		local *candidate.Record
		found []backend.Candidate
		opts  Options
	}{
		{
			name:  "flag absent",
			local: localRecord(),
			found: []backend.Candidate{{ID: "1", IsPerfectMatch: true}},
		},
		{
			name: "no public identifier",
			local: &candidate.Record{
				LinkedinID:  "ACoAAB1",
				LinkedinURL: "https://www.linkedin.com/in/x/",
			},
			found: []backend.Candidate{{ID: "1", IsPerfectMatch: true, LinkedinInfoUpdateRequired: true}},
		},
		{
			name:  "listing pass",
			local: localRecord(),
			found: []backend.Candidate{{ID: "1", IsPerfectMatch: true, LinkedinInfoUpdateRequired: true}},
			opts:  Options{ListingPass: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &fakeScheduler{}
			r := New(queue, nil)
			r.Reconcile(context.Background(), tt.local, tt.found, nil, tt.opts)
			if len(queue.scheduled) != 0 {
				t.Errorf("scheduled %d tasks, want none", len(queue.scheduled))
			}
		})
	}
}

func TestReconcileErrorClassification(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantMessage    string
		wantNoAccess   bool
		wantReportable bool
	}{
		{
			name:         "forbidden",
			err:          &backend.APIError{Status: http.StatusForbidden, Message: "403 Failed to get candidates"},
			wantMessage:  NoAccessMessage,
			wantNoAccess: true,
		},
		{
			name:         "gate already closed",
			err:          backend.ErrNoAccess,
			wantMessage:  NoAccessMessage,
			wantNoAccess: true,
		},
		{
			name:        "session expired stays out of telemetry",
			err:         &backend.APIError{Status: backend.StatusSessionExpired, Message: "Please login"},
			wantMessage: "Please login",
		},
		{
			name:           "server error reported",
			err:            &backend.APIError{Status: http.StatusBadGateway, Message: "502 Failed to get candidates"},
			wantMessage:    "502 Failed to get candidates",
			wantReportable: true,
		},
		{
			name:           "transport error",
			err:            errors.New("connection refused"),
			wantMessage:    GenericFailureMessage,
			wantReportable: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(nil, nil)
			got := r.Reconcile(context.Background(), localRecord(), nil, tt.err, Options{})
			if got.State != Error {
				t.Fatalf("State = %v, want Error", got.State)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if got.NoAccess != tt.wantNoAccess {
				t.Errorf("NoAccess = %v, want %v", got.NoAccess, tt.wantNoAccess)
			}
			if got.Reportable != tt.wantReportable {
				t.Errorf("Reportable = %v, want %v", got.Reportable, tt.wantReportable)
			}
		})
	}
}
