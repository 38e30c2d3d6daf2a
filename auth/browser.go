package auth

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all" // Import all browser cookie stores
	"github.com/browserutils/kooky/browser/firefox"
)

// essentialCookies lists the cookie names worth carrying per service.
// LinkedIn sets dozens of cookies; only these matter for the internal API.
var essentialCookies = map[string][]string{
	ServiceLinkedin: {"li_at", "JSESSIONID", "lidc", "bcookie"},
	ServiceBackend:  {".AspNet.ApplicationCookie"},
}

// BrowserSource reads cookies from browser cookie stores. The backend
// domain is configurable because each deployment runs its own host.
type BrowserSource struct {
	logger        *slog.Logger
	backendDomain string
}

// NewBrowserSource creates a new browser cookie source. backendDomain may
// be empty when only LinkedIn cookies are needed.
func NewBrowserSource(logger *slog.Logger, backendDomain string) *BrowserSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrowserSource{logger: logger, backendDomain: backendDomain}
}

func (s *BrowserSource) domainFor(service string) string {
	switch service {
	case ServiceLinkedin:
		return "linkedin.com"
	case ServiceBackend:
		return s.backendDomain
	default:
		return ""
	}
}

// Cookies returns cookies for the given service from browser stores.
func (s *BrowserSource) Cookies(ctx context.Context, service string) (map[string]string, error) {
	domain := s.domainFor(service)
	if domain == "" {
		return nil, nil //nolint:nilnil // no domain for unknown service is not an error
	}

	// Try Firefox profiles first (including Developer Edition)
	cookies := s.tryFirefoxProfiles(ctx, domain, service)
	if len(cookies) > 0 {
		return cookies, nil
	}

	// Fall back to kooky's automatic browser detection
	kookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(domain))
	if err != nil {
		s.logger.Debug("failed to read browser cookies", "service", service, "error", err)
		return nil, nil //nolint:nilnil // failed browser read is not a fatal error
	}

	if len(kookies) == 0 {
		return nil, nil //nolint:nilnil // no browser cookies is not an error
	}

	return s.filterEssential(kookies, service), nil
}

// tryFirefoxProfiles attempts to read cookies from Firefox profiles.
func (s *BrowserSource) tryFirefoxProfiles(ctx context.Context, domain, service string) map[string]string {
	home := os.Getenv("HOME")
	if home == "" {
		return nil
	}

	dir := filepath.Join(home, "Library", "Application Support", "Firefox", "Profiles")
	pattern := filepath.Join(dir, "*", "cookies.sqlite")
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return nil
	}

	for _, f := range matches {
		kookies, err := firefox.ReadCookies(ctx, f, kooky.Valid, kooky.DomainHasSuffix(domain))
		if err == nil && len(kookies) > 0 {
			s.logger.Debug("found Firefox cookies",
				"profile", filepath.Base(filepath.Dir(f)),
				"service", service,
				"count", len(kookies))
			return s.filterEssential(kookies, service)
		}
	}

	return nil
}

// filterEssential extracts only the cookies a service actually needs.
func (s *BrowserSource) filterEssential(kookies []*kooky.Cookie, service string) map[string]string {
	wanted, ok := essentialCookies[service]
	if !ok {
		wanted = nil
	}

	result := make(map[string]string)
	for _, c := range kookies {
		if len(wanted) == 0 {
			result[c.Name] = c.Value
			continue
		}
		for _, name := range wanted {
			if c.Name == name {
				result[c.Name] = c.Value
			}
		}
	}
	return result
}
