// Package session tracks per-profile visit state so late responses never
// clobber the page the user has since navigated to.
package session

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/talentsync/talentsync/candidate"
)

// Entry is the state kept for one visited profile URL.
type Entry struct {
	// ProfileURL is the canonical profile URL the entry is keyed by.
	ProfileURL string
	// PageURL is the page address at the moment data collection started.
	// Responses are only applied while this is still the current page.
	PageURL string
	// Profile accumulates collected profile data.
	Profile *candidate.Record
	// FetchInProgress is set while profile data collection runs; a second
	// navigation to the same profile does not start a second fetch.
	FetchInProgress bool
	// RequestPending marks an in-flight user request (e.g. add candidate)
	// that survives a Clear, together with its LoadingMessage.
	RequestPending bool
	LoadingMessage string
}

// Store holds visit state keyed by canonical profile URL. The current-URL
// provider is injected so tests can steer navigation.
type Store struct {
	currentURL func() string
	logger     *slog.Logger

	mu      sync.Mutex
	entries map[string]*Entry
}

// NewStore creates a Store. currentURL reports the address of the page the
// user is looking at right now.
func NewStore(currentURL func() string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		currentURL: currentURL,
		logger:     logger,
		entries:    make(map[string]*Entry),
	}
}

// Open returns the entry for profileURL, creating it when absent.
func (s *Store) Open(profileURL string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.open(profileURL)
}

func (s *Store) open(profileURL string) *Entry {
	e, ok := s.entries[profileURL]
	if !ok {
		e = &Entry{ProfileURL: profileURL}
		s.entries[profileURL] = e
	}
	return e
}

// Clear resets the entry for profileURL, preserving only the pending
// request marker and its loading message.
func (s *Store) Clear(profileURL string) {
	if profileURL == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.entries[profileURL]
	fresh := &Entry{ProfileURL: profileURL}
	if old != nil {
		fresh.RequestPending = old.RequestPending
		fresh.LoadingMessage = old.LoadingMessage
	}
	s.entries[profileURL] = fresh
}

// IsCurrentPage reports whether the user is still on pageURL: the decoded
// current address must start with the decoded pageURL.
func (s *Store) IsCurrentPage(pageURL string) bool {
	if pageURL == "" {
		return false
	}
	return strings.HasPrefix(decode(s.currentURL()), decode(pageURL))
}

func decode(raw string) string {
	if decoded, err := url.QueryUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// BeginFetch marks profileURL as being collected and records the page the
// collection started on. It returns false when a fetch is already running,
// in which case the caller must not start another.
func (s *Store) BeginFetch(profileURL, pageURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.open(profileURL)
	if e.FetchInProgress {
		s.logger.Debug("fetch already in progress", "profile_url", profileURL)
		return false
	}
	e.FetchInProgress = true
	e.PageURL = pageURL
	return true
}

// EndFetch clears the in-progress marker for profileURL.
func (s *Store) EndFetch(profileURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open(profileURL).FetchInProgress = false
}

// Merge folds collected profile data into the entry for profileURL and
// returns the merged snapshot.
func (s *Store) Merge(profileURL string, rec *candidate.Record) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.open(profileURL)
	if e.Profile == nil {
		e.Profile = rec.Clone()
	} else {
		e.Profile.Merge(rec)
	}
	snapshot := *e
	snapshot.Profile = e.Profile.Clone()
	return snapshot
}

// SetRequestPending marks or clears a pending user request on profileURL.
// The message is shown while the visit waits for the request to finish.
func (s *Store) SetRequestPending(profileURL string, pending bool, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.open(profileURL)
	e.RequestPending = pending
	e.LoadingMessage = message
}
