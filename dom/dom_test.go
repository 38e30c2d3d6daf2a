package dom

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const profilePage = `<html><body>
<div class="global-nav">Home Jobs Messaging</div>
<div id="profile-content">
  <div class="distance-badge"><span class="dist-value">1st</span></div>
  <div class="artdeco-card"><div class="ph5"><div>name</div><div>anchor</div></div></div>
</div>
</body></html>`

const recruiterPage = `<html><body>
<div class="global-nav">Home</div>
<div id="profile-container">
  <div class="profile__topcard-wrapper">card</div>
  <div class="personal-info"><a href="https://www.linkedin.com/in/jdoe">Public profile</a></div>
</div>
</body></html>`

const searchPage = `<html><body>
<div class="global-nav">Home</div>
<div data-chameleon-result-urn="urn:li:member:1">
  <div class="t-roman"><a class="app-aware-link" href="https://www.linkedin.com/in/jdoe?miniProfile=urn%3Ali%3Afs_miniProfile%3AACoAAB99">Jane Doe</a></div>
</div>
<div data-chameleon-result-urn="urn:li:member:2">
  <div class="t-roman"><a class="app-aware-link" href="https://www.linkedin.com/in/other/">Other Person</a></div>
</div>
</body></html>`

func mustSnapshot(t *testing.T, html string) *Snapshot {
	t.Helper()
	s, err := NewSnapshot(html)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return s
}

func TestSnapshotProfilePage(t *testing.T) {
	s := mustSnapshot(t, profilePage)

	if !s.LoggedIn() {
		t.Error("LoggedIn = false, want true")
	}
	if got := s.ConnectionDegreeText(); got != "1st" {
		t.Errorf("ConnectionDegreeText = %q, want %q", got, "1st")
	}
	if !s.HasPanelAnchor(false) {
		t.Error("HasPanelAnchor(false) = false, want true")
	}
	if s.HasPanelAnchor(true) {
		t.Error("HasPanelAnchor(true) = true on a non-recruiter page")
	}
}

func TestSnapshotRecruiterPage(t *testing.T) {
	s := mustSnapshot(t, recruiterPage)

	if got := s.RecruiterPublicProfileURL(); got != "https://www.linkedin.com/in/jdoe" {
		t.Errorf("RecruiterPublicProfileURL = %q", got)
	}
	if !s.HasPanelAnchor(true) {
		t.Error("HasPanelAnchor(true) = false, want true")
	}
}

func TestSnapshotAbsentElementsDegrade(t *testing.T) {
	s := mustSnapshot(t, "<html><body><p>logged out page</p></body></html>")

	if s.LoggedIn() {
		t.Error("LoggedIn = true on a page without the nav bar")
	}
	if got := s.ConnectionDegreeText(); got != "" {
		t.Errorf("ConnectionDegreeText = %q, want empty", got)
	}
	if got := s.RecruiterPublicProfileURL(); got != "" {
		t.Errorf("RecruiterPublicProfileURL = %q, want empty", got)
	}
	if people := s.SearchResultPeople(); people != nil {
		t.Errorf("SearchResultPeople = %v, want none", people)
	}
}

func TestSearchResultPeople(t *testing.T) {
	s := mustSnapshot(t, searchPage)

	want := []SearchResultPerson{
		{
			ProfileHref: "https://www.linkedin.com/in/jdoe?miniProfile=urn%3Ali%3Afs_miniProfile%3AACoAAB99",
			LinkedinID:  "ACoAAB99",
		},
		{ProfileHref: "https://www.linkedin.com/in/other/"},
	}
	if diff := cmp.Diff(want, s.SearchResultPeople()); diff != "" {
		t.Errorf("people mismatch (-want +got):\n%s", diff)
	}
}

func instantSleep(context.Context, time.Duration) error { return nil }

func TestWaiterFindsLateElement(t *testing.T) {
	source := NewStaticSource("https://www.linkedin.com/talent/profile/1", "<html><body></body></html>")
	w := NewWaiter(nil, WithSleep(instantSleep))

	attempts := 0
	value, state := w.Wait(context.Background(), source, func(s *Snapshot) (string, bool) {
		attempts++
		if attempts == 3 {
			source.Set(source.URL(), recruiterPage)
		}
		if href := s.RecruiterPublicProfileURL(); href != "" {
			return href, true
		}
		return "", false
	})

	if state != Found {
		t.Fatalf("state = %v, want Found", state)
	}
	if value != "https://www.linkedin.com/in/jdoe" {
		t.Errorf("value = %q", value)
	}
}

func TestWaiterTimesOut(t *testing.T) {
	source := NewStaticSource("https://x", "<html><body></body></html>")
	w := NewWaiter(nil, WithSleep(instantSleep), WithMaxAttempts(5))

	attempts := 0
	_, state := w.Wait(context.Background(), source, func(*Snapshot) (string, bool) {
		attempts++
		return "", false
	})

	if state != TimedOut {
		t.Fatalf("state = %v, want TimedOut", state)
	}
	if attempts != 5 {
		t.Errorf("attempts = %d, want 5", attempts)
	}
}

func TestWaiterAbortsOnNavigation(t *testing.T) {
	source := NewStaticSource("https://www.linkedin.com/in/alice/", profilePage)
	w := NewWaiter(nil, WithSleep(func(context.Context, time.Duration) error {
		source.Set("https://www.linkedin.com/in/bob/", profilePage)
		return nil
	}))

	_, state := w.Wait(context.Background(), source, func(*Snapshot) (string, bool) {
		t.Fatal("extractor must not run after navigation")
		return "", false
	})

	if state != Aborted {
		t.Fatalf("state = %v, want Aborted", state)
	}
}

func TestWaiterAbortsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := NewStaticSource("https://x", profilePage)
	w := NewWaiter(nil)

	_, state := w.Wait(ctx, source, func(*Snapshot) (string, bool) { return "", false })
	if state != Aborted {
		t.Fatalf("state = %v, want Aborted", state)
	}
}
