// Package normalize turns raw scraped or API text into canonical field
// values and implements the field comparison rules used for match marks.
//
// Every function is pure and total: bad input yields an empty or false
// result, never a panic or an error.
package normalize

import (
	"regexp"
	"strings"
)

// profileURNPrefix fronts entityUrn values in profile API payloads.
const profileURNPrefix = "urn:li:fs_profile:"

var (
	phoneShapedRe = regexp.MustCompile(`[+]?[(\-\s.]*[0-9][(0-9)\-\s.]*`)
	digitGroupRe  = regexp.MustCompile(`[0-9]+`)
)

// LinkedinID strips the profile URN prefix from the front of raw when
// present; anything else passes through unchanged.
func LinkedinID(raw string) string {
	return strings.TrimPrefix(raw, profileURNPrefix)
}

// Phone extracts the first phone-shaped substring of raw (digits, spaces,
// parens, dashes, dots, optional leading +) and joins its digit groups into
// one string. Text with no phone-shaped substring at all is returned
// unchanged.
func Phone(raw string) string {
	if raw == "" {
		return ""
	}
	m := phoneShapedRe.FindString(raw)
	if m == "" {
		return raw
	}
	return strings.Join(digitGroupRe.FindAllString(m, -1), "")
}

// ConnectionDegree reports whether raw names a first-degree connection.
// The badge text varies by locale but always carries the digit 1.
func ConnectionDegree(raw string) bool {
	return strings.Contains(raw, "1")
}
