package normalize

import (
	"regexp"
	"strings"
)

// Kind selects the comparison rule for Match.
type Kind int

const (
	// KindText compares trimmed strings verbatim.
	KindText Kind = iota
	// KindPhone compares by suffix containment with a minimum length.
	KindPhone
	// KindLinkedinURL compares profile slugs with the host prefix and
	// trailing slash stripped.
	KindLinkedinURL
)

// MatchResult is the three-valued outcome of a field comparison.
type MatchResult int

const (
	// MatchUnknown means the candidate side had no value to compare.
	MatchUnknown MatchResult = iota
	// MatchYes means the values agree under the kind's rule.
	MatchYes
	// MatchNo means both sides had values and they disagree.
	MatchNo
)

// minPhoneMatchLen guards the suffix test against short numbers matching
// by accident.
const minPhoneMatchLen = 7

var linkedinURLPrefixRe = regexp.MustCompile(`^(\S*linkedin\.com/in/)`)

// Match compares a locally scraped value against a backend candidate value
// under the given kind's rule. The profile side missing while the
// candidate side is present is a MatchNo; the candidate side missing is
// MatchUnknown.
func Match(kind Kind, profileValue, candidateValue string) MatchResult {
	p := strings.TrimSpace(profileValue)
	c := strings.TrimSpace(candidateValue)
	if c == "" {
		return MatchUnknown
	}
	if p == "" {
		return MatchNo
	}

	switch kind {
	case KindPhone:
		if len(p) >= minPhoneMatchLen && len(c) >= minPhoneMatchLen &&
			(strings.HasSuffix(p, c) || strings.HasSuffix(c, p)) {
			return MatchYes
		}
		return MatchNo
	case KindLinkedinURL:
		p = stripLinkedinURL(p)
		c = stripLinkedinURL(c)
	case KindText:
	}
	if p == c {
		return MatchYes
	}
	return MatchNo
}

func stripLinkedinURL(s string) string {
	s = linkedinURLPrefixRe.ReplaceAllString(s, "")
	return strings.Replace(s, "/", "", 1)
}
