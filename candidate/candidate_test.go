package candidate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppendUnique(t *testing.T) {
	tests := []struct {
		name  string
		list  []string
		value string
		want  []string
	}{
		{"appends to nil", nil, "a@b.c", []string{"a@b.c"}},
		{"skips empty", []string{"a@b.c"}, "", []string{"a@b.c"}},
		{"skips duplicate", []string{"a@b.c"}, "a@b.c", []string{"a@b.c"}},
		{"appends new", []string{"a@b.c"}, "d@e.f", []string{"a@b.c", "d@e.f"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendUnique(tt.list, tt.value)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("AppendUnique mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollectUnique(t *testing.T) {
	double := func(s string) string {
		if s == "drop" {
			return ""
		}
		return s + s
	}

	tests := []struct {
		name  string
		raw   []string
		parse func(string) string
		want  []string
	}{
		{
			name: "dedupes same raw value",
			raw:  []string{"+1 555", "+1 555", " ", "+1 666"},
			want: []string{"+1 555", "+1 666"},
		},
		{
			name:  "parse applied before dedupe",
			raw:   []string{"a", "a", "drop"},
			parse: double,
			want:  []string{"aa"},
		},
		{
			name: "all blank yields nil",
			raw:  []string{"", "  "},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollectUnique(tt.raw, tt.parse)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CollectUnique mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := &Record{
		FirstName: "Jane",
		Emails:    []string{"a@b.c"},
		Skills:    []Skill{{Name: "Go", EndorsersCount: 3}},
	}
	orig.SetLastSyncSuccessful(true)

	clone := orig.Clone()
	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Fatalf("clone differs from original (-orig +clone):\n%s", diff)
	}

	clone.Emails[0] = "x@y.z"
	clone.Skills[0].Name = "Rust"
	*clone.IsLastSyncSuccessful = false

	if orig.Emails[0] != "a@b.c" {
		t.Errorf("mutating clone emails changed original: %q", orig.Emails[0])
	}
	if orig.Skills[0].Name != "Go" {
		t.Errorf("mutating clone skills changed original: %q", orig.Skills[0].Name)
	}
	if !orig.LastSyncSuccessful() {
		t.Error("mutating clone sync flag changed original")
	}
}

func TestCloneNil(t *testing.T) {
	var r *Record
	if r.Clone() != nil {
		t.Error("Clone of nil record should be nil")
	}
}

func TestMerge(t *testing.T) {
	dst := &Record{
		FirstName:  "Jane",
		Position:   "Engineer",
		Emails:     []string{"a@b.c"},
		Educations: []Education{{Institution: "MIT"}},
	}
	src := &Record{
		LastName: "Doe",
		Position: "Senior Engineer",
		Emails:   []string{"a@b.c", "d@e.f"},
		// nil Educations must not erase what dst already holds.
		Languages: []Language{},
	}
	src.SetLastSyncSuccessful(false)

	dst.Merge(src)

	want := &Record{
		FirstName:  "Jane",
		LastName:   "Doe",
		Position:   "Senior Engineer",
		Emails:     []string{"a@b.c", "d@e.f"},
		Educations: []Education{{Institution: "MIT"}},
		Languages:  []Language{},
	}
	want.SetLastSyncSuccessful(false)

	if diff := cmp.Diff(want, dst); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeNilSource(t *testing.T) {
	dst := &Record{FirstName: "Jane"}
	dst.Merge(nil)
	if dst.FirstName != "Jane" {
		t.Errorf("Merge(nil) changed record: %q", dst.FirstName)
	}
}

func TestForEnrich(t *testing.T) {
	r := &Record{
		LinkedinID:       "AEMAABfQx0s",
		LinkedinURL:      "https://www.linkedin.com/in/AEMAABfQx0s/",
		PublicIdentifier: "jane-doe",
		FirstName:        "Jane",
		FirstNameNative:  "Яна",
		LastNameNative:   "Доу",
	}

	got := r.ForEnrich()

	if got.FirstNameNative != "" || got.LastNameNative != "" {
		t.Errorf("native names survived: %q %q", got.FirstNameNative, got.LastNameNative)
	}
	if want := "https://www.linkedin.com/in/jane-doe/"; got.LinkedinURL != want {
		t.Errorf("LinkedinURL = %q, want %q", got.LinkedinURL, want)
	}
	if r.LinkedinURL != "https://www.linkedin.com/in/AEMAABfQx0s/" {
		t.Errorf("ForEnrich mutated the receiver: %q", r.LinkedinURL)
	}
}

func TestForEnrichKeepsPublicURL(t *testing.T) {
	r := &Record{
		LinkedinID:       "AEMAABfQx0s",
		LinkedinURL:      "https://www.linkedin.com/in/jane-doe/",
		PublicIdentifier: "jane-doe",
	}
	if got := r.ForEnrich(); got.LinkedinURL != r.LinkedinURL {
		t.Errorf("LinkedinURL = %q, want unchanged %q", got.LinkedinURL, r.LinkedinURL)
	}
}

func TestLastSyncSuccessful(t *testing.T) {
	var nilRec *Record
	if nilRec.LastSyncSuccessful() {
		t.Error("nil record should report false")
	}
	r := &Record{}
	if r.LastSyncSuccessful() {
		t.Error("unset flag should report false")
	}
	r.SetLastSyncSuccessful(true)
	if !r.LastSyncSuccessful() {
		t.Error("set flag should report true")
	}
}
