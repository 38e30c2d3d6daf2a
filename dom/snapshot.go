package dom

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector lists for elements that moved around between page redesigns;
// the first one that matches wins.
var (
	connectionDegreeSelectors = []string{
		"#profile-content .distance-badge .dist-value",
		"#profile-container .artdeco-entity-lockup__degree",
		"#profile-content .pv-profile-section.pv-top-card-section .pv-top-card-section__distance-badge .dist-value",
	}
	panelAnchorSelectors = []string{
		"#profile-content .artdeco-card .ph5 > *:last-child",
		"#profile-content .pv-profile-section.pv-top-card-section .mt4.display-flex.ember-view",
		"#profile-content > *:first-child > *:first-child",
	}
	recruiterPanelAnchorSelectors = []string{
		"#profile-container .profile__topcard-wrapper",
		"#profile-container > *:first-child > *:first-child",
	}
)

const (
	navigationBarSelector       = ".global-nav"
	recruiterPublicLinkSelector = ".personal-info a"
	searchResultCardSelector    = `[data-chameleon-result-urn^="urn:li:member"]`
	searchResultLinkSelector    = ".t-roman a.app-aware-link"
	miniProfileParam            = "miniProfile"
)

// Snapshot is a parsed profile page. Every accessor degrades to its zero
// value when the element is absent.
type Snapshot struct {
	doc *goquery.Document
}

// NewSnapshot parses page markup.
func NewSnapshot(html string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Snapshot{doc: doc}, nil
}

// LoggedIn reports whether the page carries the signed-in navigation bar.
func (s *Snapshot) LoggedIn() bool {
	sel := s.doc.Find(navigationBarSelector)
	return sel.Length() > 0 && strings.TrimSpace(sel.First().Text()) != ""
}

// ConnectionDegreeText returns the connection degree badge text, e.g.
// "1st", or "" when the badge is not rendered.
func (s *Snapshot) ConnectionDegreeText() string {
	for _, selector := range connectionDegreeSelectors {
		if sel := s.doc.Find(selector); sel.Length() > 0 {
			return strings.TrimSpace(sel.First().Text())
		}
	}
	return ""
}

// RecruiterPublicProfileURL returns the public profile link a recruiter
// page carries in its personal info section.
func (s *Snapshot) RecruiterPublicProfileURL() string {
	href, _ := s.doc.Find(recruiterPublicLinkSelector).First().Attr("href")
	return href
}

// HasPanelAnchor reports whether the element the info panel attaches to
// has rendered.
func (s *Snapshot) HasPanelAnchor(recruiterPage bool) bool {
	selectors := panelAnchorSelectors
	if recruiterPage {
		selectors = recruiterPanelAnchorSelectors
	}
	for _, selector := range selectors {
		if s.doc.Find(selector).Length() > 0 {
			return true
		}
	}
	return false
}

// SearchResultPerson is one card of a people search results page.
type SearchResultPerson struct {
	// ProfileHref is the raw link of the card, "" when the card has none.
	ProfileHref string
	// LinkedinID is the internal member id when the link carries a
	// miniProfile reference.
	LinkedinID string
}

// SearchResultPeople returns the person cards of a search results page.
func (s *Snapshot) SearchResultPeople() []SearchResultPerson {
	var people []SearchResultPerson
	s.doc.Find(searchResultCardSelector).Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Find(searchResultLinkSelector).First().Attr("href")
		people = append(people, SearchResultPerson{
			ProfileHref: href,
			LinkedinID:  miniProfileID(href),
		})
	})
	return people
}

// miniProfileID extracts the member id from a link that references a
// miniProfile, e.g. ...?miniProfile=urn%3Ali%3Afs_miniProfile%3AACoAAB12.
func miniProfileID(href string) string {
	if !strings.Contains(href, miniProfileParam) {
		return ""
	}
	decoded, err := url.QueryUnescape(href)
	if err != nil {
		decoded = href
	}
	idx := strings.LastIndex(decoded, miniProfileParam+":")
	if idx < 0 {
		return ""
	}
	return decoded[idx+len(miniProfileParam)+1:]
}
