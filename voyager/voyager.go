// Package voyager fetches LinkedIn profile data from the internal identity
// API using authenticated session cookies.
package voyager

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/talentsync/talentsync/auth"
	"github.com/talentsync/talentsync/httpcache"
)

const defaultBaseURL = "https://www.linkedin.com"

// collectionPageSize is the first-page size requested for collection
// resources.
const collectionPageSize = 50

// Client handles LinkedIn internal API requests with authenticated cookies.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	baseURL    string
	csrfToken  string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cookies        map[string]string
	cache          httpcache.Cacher
	logger         *slog.Logger
	baseURL        string
	browserCookies bool
}

// WithCookies sets explicit cookie values.
func WithCookies(cookies map[string]string) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithCache sets the HTTP cache.
func WithCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithBrowserCookies enables reading cookies from browser stores.
func WithBrowserCookies() Option {
	return func(c *config) { c.browserCookies = true }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithBaseURL overrides the LinkedIn origin (tests).
func WithBaseURL(base string) Option {
	return func(c *config) { c.baseURL = base }
}

// New creates a voyager client.
// Cookie sources are checked in order: WithCookies > environment > browser.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default(), baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}

	var sources []auth.Source
	if len(cfg.cookies) > 0 {
		sources = append(sources, auth.NewStaticSource(cfg.cookies))
	}
	sources = append(sources, auth.EnvSource{})
	if cfg.browserCookies {
		sources = append(sources, auth.NewBrowserSource(cfg.logger, ""))
	}

	cookies, err := auth.ChainSources(ctx, auth.ServiceLinkedin, sources...)
	if err != nil {
		return nil, fmt.Errorf("cookie retrieval failed: %w", err)
	}
	if len(cookies) == 0 {
		envVars := auth.EnvVarsForService(auth.ServiceLinkedin)
		return nil, fmt.Errorf("no LinkedIn cookies: set %v or use WithCookies/WithBrowserCookies", envVars)
	}

	jar, err := auth.NewCookieJar("linkedin.com", cookies)
	if err != nil {
		return nil, fmt.Errorf("cookie jar creation failed: %w", err)
	}

	cfg.logger.InfoContext(ctx, "voyager client created", "cookie_count", len(cookies))

	return &Client{
		httpClient: &http.Client{Jar: jar, Timeout: 3 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
		baseURL:    cfg.baseURL,
		csrfToken:  auth.CSRFToken(cookies),
	}, nil
}

// resourceURL builds an identity API address, e.g.
// /voyager/api/identity/profiles/<id>/educations?count=50&start=0.
func (c *Client) resourceURL(profileID, resource string, paged bool, params url.Values) string {
	q := url.Values{}
	if paged {
		q.Set("count", strconv.Itoa(collectionPageSize))
		q.Set("start", "0")
	}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u := fmt.Sprintf("%s/voyager/api/identity/profiles/%s/%s", c.baseURL, url.PathEscape(profileID), resource)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.csrfToken != "" {
		req.Header.Set("Csrf-Token", c.csrfToken)
	}

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ProfileView retrieves the combined profile payload for a profile id.
func (c *Client) ProfileView(ctx context.Context, profileID string) (*ProfileView, error) {
	c.logger.InfoContext(ctx, "fetching profile view", "profile_id", profileID)
	var out ProfileView
	if err := c.get(ctx, c.resourceURL(profileID, "profileView", false, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ContactInfo retrieves the contact info section for a profile id.
func (c *Client) ContactInfo(ctx context.Context, profileID string) (*ContactInfo, error) {
	var out ContactInfo
	if err := c.get(ctx, c.resourceURL(profileID, "profileContactInfo", false, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Skills retrieves the first page of featured skills.
func (c *Client) Skills(ctx context.Context, profileID string) (*Collection[FeaturedSkill], error) {
	params := url.Values{"includeHiddenEndorsers": {"true"}}
	var out Collection[FeaturedSkill]
	if err := c.get(ctx, c.resourceURL(profileID, "featuredSkills", true, params), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Educations retrieves the first page of educations.
func (c *Client) Educations(ctx context.Context, profileID string) (*Collection[Education], error) {
	var out Collection[Education]
	if err := c.get(ctx, c.resourceURL(profileID, "educations", true, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Projects retrieves the first page of projects.
func (c *Client) Projects(ctx context.Context, profileID string) (*Collection[Project], error) {
	var out Collection[Project]
	if err := c.get(ctx, c.resourceURL(profileID, "projects", true, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Positions retrieves the first page of positions.
func (c *Client) Positions(ctx context.Context, profileID string) (*Collection[Position], error) {
	var out Collection[Position]
	if err := c.get(ctx, c.resourceURL(profileID, "positions", true, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Certifications retrieves the first page of certifications.
func (c *Client) Certifications(ctx context.Context, profileID string) (*Collection[Certification], error) {
	var out Collection[Certification]
	if err := c.get(ctx, c.resourceURL(profileID, "certifications", true, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Honors retrieves the first page of honors.
func (c *Client) Honors(ctx context.Context, profileID string) (*Collection[Honor], error) {
	var out Collection[Honor]
	if err := c.get(ctx, c.resourceURL(profileID, "honors", true, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Publications retrieves the first page of publications.
func (c *Client) Publications(ctx context.Context, profileID string) (*Collection[Publication], error) {
	var out Collection[Publication]
	if err := c.get(ctx, c.resourceURL(profileID, "publications", true, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Courses retrieves the first page of courses.
func (c *Client) Courses(ctx context.Context, profileID string) (*Collection[Course], error) {
	var out Collection[Course]
	if err := c.get(ctx, c.resourceURL(profileID, "courses", true, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
