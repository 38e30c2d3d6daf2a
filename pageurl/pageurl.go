// Package pageurl classifies browser tab URLs into the page kinds the
// pipeline cares about and extracts a stable profile identity from them.
package pageurl

import (
	"net/url"
	"regexp"
	"strings"
)

// Kind is the classification of a tab URL.
type Kind int

const (
	// ProfilePage is a public profile URL (linkedin.com/in/<slug>).
	ProfilePage Kind = iota
	// RecruiterProfilePage is a profile viewed inside the recruiter
	// product (linkedin.com/talent/.../profile/<id>).
	RecruiterProfilePage
	// SearchPage is a people-search results listing.
	SearchPage
)

func (k Kind) String() string {
	switch k {
	case ProfilePage:
		return "profile"
	case RecruiterProfilePage:
		return "recruiterProfile"
	case SearchPage:
		return "search"
	default:
		return "unknown"
	}
}

// Identity is a classified page with its canonical profile address.
// For RecruiterProfilePage the ProfileID is the recruiter product's
// internal id; the public slug has to be resolved from the page itself.
type Identity struct {
	Kind                Kind
	CanonicalProfileURL string
	ProfileID           string
}

var (
	// Public profile: slug optionally followed by exactly three short hex
	// segments, e.g. /in/jane-doe-794b6596/ or /in/jane/1a/2b/3c.
	profileRe = regexp.MustCompile(`^(https://www\.linkedin\.com/in/([^?/\n]+)((/[0-9a-f]{1,3}){3})?/?)`)
	// The "unavailable" placeholder page is not a person.
	unavailableSlugRe = regexp.MustCompile(`^unavailable\b`)
	recruiterRe       = regexp.MustCompile(`^(https://www\.linkedin\.com/talent(/.*)?/profile/([0-9a-zA-Z\-_=]+))`)
	searchRe          = regexp.MustCompile(`^(https://www\.linkedin\.com/search/results/(all|people)/)`)
)

// Classify resolves a raw tab URL into an Identity, or nil when the URL is
// none of the recognized page shapes. Input is decoded before matching, so
// encoded slugs (international names) classify the same as their decoded
// form. Profile shapes win over the search shape.
func Classify(rawURL string) *Identity {
	if rawURL == "" {
		return nil
	}
	decoded := decode(rawURL)

	if id := classifyProfile(decoded); id != nil {
		return id
	}
	if m := searchRe.FindStringSubmatch(decoded); m != nil {
		return &Identity{Kind: SearchPage, CanonicalProfileURL: m[1]}
	}
	if m := recruiterRe.FindStringSubmatch(decoded); m != nil {
		return &Identity{
			Kind:                RecruiterProfilePage,
			CanonicalProfileURL: m[1],
			ProfileID:           m[3],
		}
	}
	return nil
}

func classifyProfile(decoded string) *Identity {
	m := profileRe.FindStringSubmatch(decoded)
	if m == nil {
		return nil
	}
	slug := m[2]
	if unavailableSlugRe.MatchString(slug) {
		return nil
	}
	// Anything after the canonical part must be a query string, otherwise
	// this is some deeper profile sub-page, not the profile itself.
	rest := decoded[len(m[1]):]
	if rest != "" && !strings.HasPrefix(rest, "?") {
		return nil
	}
	canonical := m[1]
	if !strings.HasSuffix(canonical, "/") {
		canonical += "/"
	}
	return &Identity{
		Kind:                ProfilePage,
		CanonicalProfileURL: canonical,
		ProfileID:           slug,
	}
}

// ProfileID extracts the slug from a profile URL in any of its forms.
// Returns "" when the URL has no /in/ segment.
func ProfileID(profileURL string) string {
	if profileURL == "" {
		return ""
	}
	_, after, found := strings.Cut(decode(profileURL), "/in/")
	if !found || after == "" {
		return ""
	}
	if i := strings.IndexAny(after, "/?"); i >= 0 {
		after = after[:i]
	}
	return after
}

func decode(raw string) string {
	if !strings.Contains(raw, "%") {
		return raw
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
