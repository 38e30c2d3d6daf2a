package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsync/talentsync/candidate"
)

func newRecord(publicID string) *candidate.Record {
	return &candidate.Record{
		FirstName:        "John",
		LastName:         "Doe",
		PublicIdentifier: publicID,
		LinkedinURL:      "https://www.linkedin.com/in/" + publicID + "/",
	}
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append(opts, WithHTTPClient(srv.Client()))
	client, err := New(context.Background(), srv.URL, opts...)
	require.NoError(t, err)
	return client
}

func TestFindCandidates(t *testing.T) {
	var gotPath, gotURL string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var query SearchQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))
		gotURL = query.LinkedinURL
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Candidate{{ID: "42", FirstName: "Ada", IsPerfectMatch: true}})
	}))

	found, err := client.FindCandidates(context.Background(), SearchQuery{
		LinkedinURL: "https://www.linkedin.com/in/adalovelace/",
		FirstName:   "Ada",
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "/api/public/candidates/find", gotPath)
	assert.Equal(t, "https://www.linkedin.com/in/adalovelace/", gotURL)
	assert.True(t, found[0].IsPerfectMatch)
}

func TestErrorMessageFromBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"Message":"duplicate candidate"}`))
	}))

	_, err := client.FindCandidates(context.Background(), SearchQuery{FirstName: "Ada"})
	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "400 Failed to get candidates")
	assert.Contains(t, apiErr.Message, "duplicate candidate")
	assert.True(t, apiErr.Reportable())
}

func TestSessionExpired(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(StatusSessionExpired)
	}))

	_, err := client.Vacancies(context.Background())
	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.SessionExpired())
	assert.False(t, apiErr.Reportable())
	assert.Contains(t, apiErr.Message, "login")
}

func TestForbiddenClosesGate(t *testing.T) {
	gate, err := NewGate("", nil)
	require.NoError(t, err)

	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}), WithGate(gate))

	ctx := context.Background()
	_, err = client.Vacancies(ctx)
	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.NoAccess())
	assert.True(t, gate.Closed(ctx))

	// Follow-up calls never reach the network.
	_, err = client.Vacancies(ctx)
	assert.ErrorIs(t, err, ErrNoAccess)
	assert.Equal(t, 1, calls)

	gate.Clear(ctx)
	assert.False(t, gate.Closed(ctx))
}

func TestGatePersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	gate, err := NewGate(dir, nil)
	require.NoError(t, err)
	assert.False(t, gate.Closed(ctx))
	gate.Close(ctx)

	reopened, err := NewGate(dir, nil)
	require.NoError(t, err)
	assert.True(t, reopened.Closed(ctx))

	reopened.Clear(ctx)
	third, err := NewGate(dir, nil)
	require.NoError(t, err)
	assert.False(t, third.Closed(ctx))
}

func TestMoveCollectionCardToStage(t *testing.T) {
	var paths []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()
	require.NoError(t, client.MoveCollectionCardToStage(ctx, 7, 19, 3))
	require.NoError(t, client.MoveCollectionCardToStage(ctx, 7, 19, 0))
	assert.Equal(t, []string{
		"/api/public/collections/7/cards/19/toStage/3",
		"/api/public/collections/7/cards/19/toStage/all",
	}, paths)
}

func TestCreateCandidateQueryFlags(t *testing.T) {
	var queries []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"7"}`))
	}))

	ctx := context.Background()
	rec := newRecord("jdoe")
	_, err := client.CreateCandidate(ctx, rec, CreateOptions{MoveToRecruiting: true})
	require.NoError(t, err)
	_, err = client.CreateCandidate(ctx, rec, CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"moveToRecruiting=true", "moveToScreening=false"}, queries)
}

func TestCircuitBreakerTripsOnServerErrors(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	ctx := context.Background()
	for range 5 {
		_, err := client.Vacancies(ctx)
		require.Error(t, err)
	}
	// Breaker is open now; this call is rejected without a request.
	_, err := client.Vacancies(ctx)
	require.Error(t, err)
	assert.Equal(t, 5, calls)

	_, ok := AsAPIError(err)
	assert.False(t, ok)
}

func TestReportErrorPath(t *testing.T) {
	var gotPath string
	var gotReport ErrorReport
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReport))
		w.WriteHeader(http.StatusOK)
	}))

	err := client.ReportError(context.Background(), ErrorReport{Source: "TalentSync v1.0: search ---", Message: "boom at https://x"})
	require.NoError(t, err)
	assert.Equal(t, "/api/logging/error", gotPath)
	assert.Equal(t, "boom at https://x", gotReport.Message)
}

func TestEncodeLinkedinURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain ascii unchanged", "https://www.linkedin.com/in/jdoe/", "https://www.linkedin.com/in/jdoe/"},
		{"non ascii encoded", "https://www.linkedin.com/in/jöhn/", "https://www.linkedin.com/in/j%C3%B6hn/"},
		{"already encoded left alone", "https://www.linkedin.com/in/j%C3%B6hn/", "https://www.linkedin.com/in/j%C3%B6hn/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeLinkedinURL(tt.in))
		})
	}
}
