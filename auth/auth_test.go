package auth

import (
	"context"
	"net/url"
	"testing"
)

func TestChainSources(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		sources []Source
		want    map[string]string
	}{
		{
			name:    "no sources",
			sources: nil,
			want:    nil,
		},
		{
			name: "first source wins",
			sources: []Source{
				NewStaticSource(map[string]string{"JSESSIONID": "first"}),
				NewStaticSource(map[string]string{"JSESSIONID": "second"}),
			},
			want: map[string]string{"JSESSIONID": "first"},
		},
		{
			name: "empty source skipped",
			sources: []Source{
				NewStaticSource(nil),
				NewStaticSource(map[string]string{"li_at": "tok"}),
			},
			want: map[string]string{"li_at": "tok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChainSources(ctx, ServiceLinkedin, tt.sources...)
			if err != nil {
				t.Fatalf("ChainSources() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ChainSources() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("cookie %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestNewCookieJar(t *testing.T) {
	jar, err := NewCookieJar("linkedin.com", map[string]string{
		"li_at":      "token",
		"JSESSIONID": "csrf",
		"empty":      "",
	})
	if err != nil {
		t.Fatalf("NewCookieJar() error = %v", err)
	}

	u, _ := url.Parse("https://www.linkedin.com/")
	cookies := jar.Cookies(u)
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies, want 2 (empty values dropped)", len(cookies))
	}
}

func TestCSRFToken(t *testing.T) {
	tests := []struct {
		name    string
		cookies map[string]string
		want    string
	}{
		{"quoted", map[string]string{"JSESSIONID": `"ajax:123"`}, "ajax:123"},
		{"bare", map[string]string{"JSESSIONID": "ajax:123"}, "ajax:123"},
		{"missing", map[string]string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CSRFToken(tt.cookies); got != tt.want {
				t.Errorf("CSRFToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvSourceUnknownService(t *testing.T) {
	cookies, err := (EnvSource{}).Cookies(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Cookies() error = %v", err)
	}
	if cookies != nil {
		t.Errorf("Cookies() = %v, want nil for unknown service", cookies)
	}
}
