package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/talentsync/talentsync/candidate"
)

func TestOpenAndClearPreservesPendingRequest(t *testing.T) {
	store := NewStore(func() string { return "" }, nil)
	const profile = "https://www.linkedin.com/in/jdoe/"

	store.SetRequestPending(profile, true, "Adding candidate...")
	store.Merge(profile, &candidate.Record{FirstName: "John"})

	store.Clear(profile)

	got := store.Open(profile)
	if got.Profile != nil {
		t.Errorf("Clear kept profile data: %+v", got.Profile)
	}
	if !got.RequestPending {
		t.Error("Clear dropped RequestPending")
	}
	if got.LoadingMessage != "Adding candidate..." {
		t.Errorf("Clear dropped LoadingMessage, got %q", got.LoadingMessage)
	}
}

func TestBeginFetchSingleFlight(t *testing.T) {
	store := NewStore(func() string { return "" }, nil)
	const profile = "https://www.linkedin.com/in/jdoe/"
	const page = profile

	if !store.BeginFetch(profile, page) {
		t.Fatal("first BeginFetch returned false")
	}
	if store.BeginFetch(profile, page) {
		t.Error("second BeginFetch should have been rejected")
	}
	store.EndFetch(profile)
	if !store.BeginFetch(profile, page) {
		t.Error("BeginFetch after EndFetch returned false")
	}
}

func TestStaleResponseGuard(t *testing.T) {
	// Data collected for profile A must be discarded once the user has
	// moved on to profile B.
	current := "https://www.linkedin.com/in/alice/"
	store := NewStore(func() string { return current }, nil)

	pageA := "https://www.linkedin.com/in/alice/"
	if !store.BeginFetch(pageA, pageA) {
		t.Fatal("BeginFetch failed")
	}
	if !store.IsCurrentPage(pageA) {
		t.Fatal("expected page A to be current")
	}

	// Navigation happens while the fetch is in flight.
	current = "https://www.linkedin.com/in/bob/"
	if store.IsCurrentPage(pageA) {
		t.Error("page A still reported current after navigating to B")
	}
}

func TestIsCurrentPageDecodesBeforeComparing(t *testing.T) {
	store := NewStore(func() string {
		return "https://www.linkedin.com/in/j%C3%B6hn/recent-activity/"
	}, nil)

	if !store.IsCurrentPage("https://www.linkedin.com/in/jöhn/") {
		t.Error("encoded current URL did not match decoded profile URL")
	}
	if store.IsCurrentPage("") {
		t.Error("empty page URL must never be current")
	}
}

func TestMergeAccumulates(t *testing.T) {
	store := NewStore(func() string { return "" }, nil)
	const profile = "https://www.linkedin.com/in/jdoe/"

	store.Merge(profile, &candidate.Record{FirstName: "John", Emails: []string{"a@b.c"}})
	got := store.Merge(profile, &candidate.Record{LastName: "Doe", Emails: []string{"a@b.c", "d@e.f"}})

	want := &candidate.Record{
		FirstName: "John",
		LastName:  "Doe",
		Emails:    []string{"a@b.c", "d@e.f"},
	}
	if diff := cmp.Diff(want, got.Profile); diff != "" {
		t.Errorf("merged profile mismatch (-want +got):\n%s", diff)
	}

	// The snapshot is detached from the store's copy.
	got.Profile.FirstName = "changed"
	if again := store.Open(profile); again.Profile.FirstName != "John" {
		t.Error("snapshot mutation leaked into the store")
	}
}
