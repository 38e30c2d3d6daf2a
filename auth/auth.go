// Package auth provides session cookie management for the LinkedIn side
// and the recruiting backend side of the pipeline.
package auth

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// Service names accepted by cookie sources.
const (
	ServiceLinkedin = "linkedin"
	ServiceBackend  = "backend"
)

// CSRFCookieName is the LinkedIn cookie whose value doubles as the
// csrf-token header on internal API calls.
const CSRFCookieName = "JSESSIONID"

// NewCookieJar creates an http.CookieJar populated with the given cookies
// for a domain.
func NewCookieJar(domain string, cookies map[string]string) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse("https://" + domain)
	if err != nil {
		return nil, err
	}

	var httpCookies []*http.Cookie
	for name, value := range cookies {
		if value != "" {
			httpCookies = append(httpCookies, &http.Cookie{
				Name:   name,
				Value:  value,
				Domain: "." + domain,
				Path:   "/",
			})
		}
	}

	jar.SetCookies(u, httpCookies)
	return jar, nil
}

// Source represents a source of authentication cookies.
type Source interface {
	// Cookies returns cookies for the given service, or nil if unavailable.
	Cookies(ctx context.Context, service string) (map[string]string, error)
}

// ChainSources returns cookies from the first source that provides them.
func ChainSources(ctx context.Context, service string, sources ...Source) (map[string]string, error) {
	for _, src := range sources {
		cookies, err := src.Cookies(ctx, service)
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no source had cookies, but this is not an error
}

// CSRFToken extracts the csrf token value from a cookie set, stripping the
// quotes LinkedIn wraps around the raw cookie value.
func CSRFToken(cookies map[string]string) string {
	v := cookies[CSRFCookieName]
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
	}
	return v
}
