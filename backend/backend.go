// Package backend talks to the recruiting board's public REST API: candidate
// search, creation, enrichment, collections, vacancies and dictionaries.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/talentsync/talentsync/auth"
	"github.com/talentsync/talentsync/candidate"
)

const publicBasePath = "/api/public"

// Client handles recruiting backend API requests with authenticated cookies.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	gate       *Gate
	breaker    *gobreaker.CircuitBreaker
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cookies        map[string]string
	logger         *slog.Logger
	gate           *Gate
	httpClient     *http.Client
	browserCookies bool
}

// WithCookies sets explicit session cookie values.
func WithCookies(cookies map[string]string) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithBrowserCookies enables reading cookies from browser stores.
func WithBrowserCookies() Option {
	return func(c *config) { c.browserCookies = true }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithGate attaches the sticky no-access gate. Calls short-circuit with
// ErrNoAccess while the gate is closed, and a 403 response closes it.
func WithGate(gate *Gate) Option {
	return func(c *config) { c.gate = gate }
}

// WithHTTPClient overrides the HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// New creates a backend client for the given board origin, e.g.
// https://board.example.com.
// Cookie sources are checked in order: WithCookies > environment > browser.
func New(ctx context.Context, baseURL string, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	origin, err := url.Parse(baseURL)
	if err != nil || origin.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", baseURL)
	}

	var sources []auth.Source
	if len(cfg.cookies) > 0 {
		sources = append(sources, auth.NewStaticSource(cfg.cookies))
	}
	sources = append(sources, auth.EnvSource{})
	if cfg.browserCookies {
		sources = append(sources, auth.NewBrowserSource(cfg.logger, origin.Hostname()))
	}

	cookies, err := auth.ChainSources(ctx, auth.ServiceBackend, sources...)
	if err != nil {
		return nil, fmt.Errorf("cookie retrieval failed: %w", err)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		jar, jarErr := auth.NewCookieJar(origin.Hostname(), cookies)
		if jarErr != nil {
			return nil, fmt.Errorf("cookie jar creation failed: %w", jarErr)
		}
		httpClient = &http.Client{Jar: jar}
	}

	logger := cfg.logger
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "backend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	gate := cfg.gate
	if gate == nil {
		// In-memory gate; 403 stickiness then lasts for the process.
		gate, _ = NewGate("", logger)
	}

	logger.InfoContext(ctx, "backend client created", "base_url", strings.TrimSuffix(baseURL, "/"), "cookie_count", len(cookies))

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		gate:       gate,
		breaker:    breaker,
	}, nil
}

// Gate returns the attached no-access gate, or nil.
func (c *Client) Gate() *Gate { return c.gate }

func (c *Client) publicURL(parts ...string) string {
	escaped := make([]string, 0, len(parts))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return c.baseURL + publicBasePath + "/" + strings.Join(escaped, "/")
}

type roundTripResult struct {
	body        []byte
	contentType string
	status      int
}

// do performs one backend request. Network errors and 5xx responses count
// as circuit breaker failures; 4xx responses do not.
func (c *Client) do(ctx context.Context, method, rawURL, action string, payload, out any) error {
	if c.gate != nil && c.gate.Closed(ctx) {
		return ErrNoAccess
	}

	var body io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	res, err := c.breaker.Execute(func() (any, error) {
		resp, reqErr := c.httpClient.Do(req)
		if reqErr != nil {
			return nil, fmt.Errorf("%s: %w", action, reqErr)
		}
		defer resp.Body.Close() //nolint:errcheck // read-side close
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
		if readErr != nil {
			return nil, fmt.Errorf("%s: read response: %w", action, readErr)
		}
		result := roundTripResult{body: data, contentType: resp.Header.Get("Content-Type"), status: resp.StatusCode}
		if resp.StatusCode >= http.StatusInternalServerError {
			return result, c.apiError(result, action)
		}
		return result, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%s: backend unavailable: %w", action, err)
		}
		return err
	}

	result, ok := res.(roundTripResult)
	if !ok {
		return fmt.Errorf("%s: unexpected breaker result", action)
	}

	if result.status < http.StatusOK || result.status >= http.StatusMultipleChoices {
		apiErr := c.apiError(result, action)
		if result.status == http.StatusForbidden && c.gate != nil {
			c.logger.WarnContext(ctx, "backend access forbidden, entering no-access mode", "action", action)
			c.gate.Close(ctx)
		}
		return apiErr
	}

	if out != nil && len(result.body) > 0 {
		if err := json.Unmarshal(result.body, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", action, err)
		}
	}
	return nil
}

// apiError shapes a non-2xx response into an APIError, pulling the
// backend's Message field out of JSON error bodies.
func (c *Client) apiError(result roundTripResult, action string) *APIError {
	if result.status == StatusSessionExpired {
		return &APIError{
			Status:  result.status,
			Message: "Please login to the recruiting board and refresh this page to enable syncing.",
		}
	}

	message := fmt.Sprintf("%d Failed to %s", result.status, action)
	if strings.Contains(result.contentType, "application/json") {
		var parsed struct {
			Message string `json:"Message"`
		}
		if err := json.Unmarshal(result.body, &parsed); err == nil && parsed.Message != "" {
			message += fmt.Sprintf(": %q", parsed.Message)
		}
	}
	return &APIError{Status: result.status, Message: message}
}

// encodeLinkedinURL percent-encodes a profile URL unless it already is.
func encodeLinkedinURL(raw string) string {
	if raw == "" {
		return ""
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil || decoded != raw {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.String()
}

// FindCandidates searches stored candidates by any known identity or
// contact fields.
func (c *Client) FindCandidates(ctx context.Context, query SearchQuery) ([]Candidate, error) {
	query.LinkedinURL = encodeLinkedinURL(query.LinkedinURL)
	var out []Candidate
	if err := c.do(ctx, http.MethodPost, c.publicURL("candidates", "find"), "get candidates", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCandidate stores a new candidate. MoveToRecruiting places the
// candidate into the recruiting flow; otherwise they land in the pool.
func (c *Client) CreateCandidate(ctx context.Context, rec *candidate.Record, opts CreateOptions) (*Candidate, error) {
	payload := rec.Clone()
	payload.LinkedinURL = encodeLinkedinURL(payload.LinkedinURL)

	u := c.publicURL("candidates")
	if opts.MoveToRecruiting {
		u += "?moveToRecruiting=true"
	} else {
		u += "?moveToScreening=false"
	}

	var out Candidate
	if err := c.do(ctx, http.MethodPost, u, "create new candidate", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnrichCandidate updates a stored candidate with freshly fetched profile
// data. The record must carry the stored candidate's id.
func (c *Client) EnrichCandidate(ctx context.Context, rec *candidate.Record) error {
	payload := rec.Clone()
	payload.LinkedinURL = encodeLinkedinURL(payload.LinkedinURL)
	return c.do(ctx, http.MethodPut, c.publicURL("candidates", payload.ID, "enrich"), "enrich candidate", payload, nil)
}

// UnlinkCandidate detaches a profile URL from a stored candidate.
func (c *Client) UnlinkCandidate(ctx context.Context, candidateID, linkedinURL string) error {
	payload := map[string]string{"linkedinUrl": encodeLinkedinURL(linkedinURL)}
	return c.do(ctx, http.MethodPut, c.publicURL("candidates", candidateID, "unlink"), "unlink candidate", payload, nil)
}

// AssignToMe assigns a candidate to the requesting recruiter.
func (c *Client) AssignToMe(ctx context.Context, candidateID string) error {
	return c.do(ctx, http.MethodPut, c.publicURL("candidates", candidateID, "assign"), "assign candidate to user", candidateID, nil)
}

// AssignToVacancy creates an application linking a candidate to a vacancy.
func (c *Client) AssignToVacancy(ctx context.Context, vacancyID int, candidateID string) error {
	payload := map[string]any{"vacancyId": vacancyID, "candidateId": candidateID}
	return c.do(ctx, http.MethodPost, c.publicURL("applications"), "assign candidate to vacancy", payload, nil)
}

// TransliterateName converts native first and last names to their Latin
// transliteration.
func (c *Client) TransliterateName(ctx context.Context, firstName, lastName string) (*TransliteratedNames, error) {
	payload := map[string]string{"firstName": firstName, "lastName": lastName}
	var out TransliteratedNames
	if err := c.do(ctx, http.MethodPost, c.publicURL("candidates", "transliterateName"), "transliterate name", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Vacancies lists the recruiter's active vacancies.
func (c *Client) Vacancies(ctx context.Context) ([]Vacancy, error) {
	var out []Vacancy
	if err := c.do(ctx, http.MethodGet, c.publicURL("vacancies"), "get vacancies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EditableCollections lists the collections the recruiter may modify.
func (c *Client) EditableCollections(ctx context.Context) ([]Collection, error) {
	var out []Collection
	if err := c.do(ctx, http.MethodGet, c.publicURL("collections", "editable"), "get editable collections", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CollectionStages lists the stages of a collection board.
func (c *Client) CollectionStages(ctx context.Context, collectionID int) ([]Stage, error) {
	var out []Stage
	u := c.publicURL("collections", strconv.Itoa(collectionID), "stages")
	if err := c.do(ctx, http.MethodGet, u, "get collection stages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCandidateToCollection places a candidate card into a collection.
// allowSameCards permits duplicates of a card already on the board.
func (c *Client) AddCandidateToCollection(ctx context.Context, candidateID string, collectionID int, allowSameCards bool) error {
	u := c.publicURL("collections", strconv.Itoa(collectionID), "cards")
	if allowSameCards {
		u += "?allowSameCards=true"
	}
	payload := map[string]string{"candidateId": candidateID}
	return c.do(ctx, http.MethodPost, u, "add candidate to collection", payload, nil)
}

// DeleteCollectionCard removes a card from a collection.
func (c *Client) DeleteCollectionCard(ctx context.Context, collectionID, cardID int) error {
	u := c.publicURL("collections", strconv.Itoa(collectionID), "cards", strconv.Itoa(cardID))
	return c.do(ctx, http.MethodDelete, u, "delete card from the collection", nil, nil)
}

// MoveCollectionCardToStage moves a card to a stage. A zero stageID moves
// the card to the board-wide "all" lane.
func (c *Client) MoveCollectionCardToStage(ctx context.Context, collectionID, cardID, stageID int) error {
	stage := "all"
	if stageID != 0 {
		stage = strconv.Itoa(stageID)
	}
	u := c.publicURL("collections", strconv.Itoa(collectionID), "cards", strconv.Itoa(cardID), "toStage", stage)
	return c.do(ctx, http.MethodPut, u, "move collection card to stage", nil, nil)
}

// LastActivities returns the most recent touch points for the given
// candidate ids.
func (c *Client) LastActivities(ctx context.Context, candidateIDs []string) ([]LastActivity, error) {
	u := c.publicURL("candidates", "lastActivities") + "?candidateIds=" + url.QueryEscape(strings.Join(candidateIDs, ","))
	var out []LastActivity
	if err := c.do(ctx, http.MethodGet, u, "get last activity for candidate(s)", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OutdatedProfiles returns stored candidates whose profile data is most
// overdue for a refresh.
func (c *Client) OutdatedProfiles(ctx context.Context) ([]OutdatedProfile, error) {
	var out []OutdatedProfile
	if err := c.do(ctx, http.MethodGet, c.publicURL("candidates", "linkedInProfilesToUpdate"), "get profiles to update", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InfoSources lists the candidate info source dictionary.
func (c *Client) InfoSources(ctx context.Context) ([]ChoiceValue, error) {
	var out []ChoiceValue
	if err := c.do(ctx, http.MethodGet, c.publicURL("choiceValues", "candidates", "infoSources"), "get candidate info sources", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// JobFamilyGroups lists the job family group dictionary.
func (c *Client) JobFamilyGroups(ctx context.Context) ([]ChoiceValue, error) {
	var out []ChoiceValue
	if err := c.do(ctx, http.MethodGet, c.publicURL("choiceValues", "jobFamilyGroups"), "get job family groups", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// JobFamilies lists job families, filtered by group when groupID is
// non-zero.
func (c *Client) JobFamilies(ctx context.Context, groupID int) ([]ChoiceValue, error) {
	u := c.publicURL("choiceValues", "jobFamilies")
	if groupID != 0 {
		u = c.publicURL("choiceValues", "jobFamilyGroups", strconv.Itoa(groupID), "jobFamilies")
	}
	var out []ChoiceValue
	if err := c.do(ctx, http.MethodGet, u, "get job families", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// JobProfiles lists the job profiles of a family within a group.
func (c *Client) JobProfiles(ctx context.Context, groupID, familyID int) ([]ChoiceValue, error) {
	u := c.publicURL("choiceValues", "jobFamilyGroups", strconv.Itoa(groupID), "jobFamilies", strconv.Itoa(familyID), "jobProfiles")
	var out []ChoiceValue
	if err := c.do(ctx, http.MethodGet, u, "get job profiles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReportError sends a report to the backend error log. This endpoint sits
// outside the public API base path.
func (c *Client) ReportError(ctx context.Context, report ErrorReport) error {
	return c.do(ctx, http.MethodPost, c.baseURL+"/api/logging/error", "report error", report, nil)
}
