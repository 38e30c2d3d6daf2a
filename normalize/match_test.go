package normalize

import "testing"

func TestMatchText(t *testing.T) {
	tests := []struct {
		name      string
		profile   string
		candidate string
		want      MatchResult
	}{
		{"equal", "Software Engineer", "Software Engineer", MatchYes},
		{"equal after trim", "  Berlin ", "Berlin", MatchYes},
		{"different", "Berlin", "Hamburg", MatchNo},
		{"candidate empty is unknown", "Berlin", "", MatchUnknown},
		{"both empty is unknown", "", "", MatchUnknown},
		{"profile empty is no", "", "Berlin", MatchNo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(KindText, tt.profile, tt.candidate); got != tt.want {
				t.Errorf("Match(KindText, %q, %q) = %v, want %v", tt.profile, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestMatchPhone(t *testing.T) {
	tests := []struct {
		name      string
		profile   string
		candidate string
		want      MatchResult
	}{
		{"exact", "15551234567", "15551234567", MatchYes},
		{"candidate is suffix of profile", "15551234567", "5551234567", MatchYes},
		{"profile is suffix of candidate", "5551234567", "15551234567", MatchYes},
		{"short suffix rejected", "1234567890", "7890", MatchNo},
		{"both short never match", "123456", "123456", MatchNo},
		{"seven digits is enough", "1234567", "1234567", MatchYes},
		{"disjoint numbers", "15551234567", "16461112222", MatchNo},
		{"candidate empty is unknown", "15551234567", "", MatchUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(KindPhone, tt.profile, tt.candidate); got != tt.want {
				t.Errorf("Match(KindPhone, %q, %q) = %v, want %v", tt.profile, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestMatchLinkedinURL(t *testing.T) {
	tests := []struct {
		name      string
		profile   string
		candidate string
		want      MatchResult
	}{
		{
			name:      "full url against slug",
			profile:   "https://www.linkedin.com/in/jane-doe/",
			candidate: "jane-doe",
			want:      MatchYes,
		},
		{
			name:      "scheme and trailing slash ignored",
			profile:   "https://www.linkedin.com/in/jane-doe/",
			candidate: "www.linkedin.com/in/jane-doe",
			want:      MatchYes,
		},
		{
			name:      "different slugs",
			profile:   "https://www.linkedin.com/in/jane-doe/",
			candidate: "https://www.linkedin.com/in/john-roe/",
			want:      MatchNo,
		},
		{
			name:      "candidate empty is unknown",
			profile:   "https://www.linkedin.com/in/jane-doe/",
			candidate: "",
			want:      MatchUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(KindLinkedinURL, tt.profile, tt.candidate); got != tt.want {
				t.Errorf("Match(KindLinkedinURL, %q, %q) = %v, want %v", tt.profile, tt.candidate, got, tt.want)
			}
		})
	}
}
