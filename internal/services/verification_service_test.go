package services

import "testing"

func TestNormalizeDeveloperURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string // empty means nil expected
	}{
		{"https kept", "https://play.google.com/store/apps/dev?id=123", "https://play.google.com/store/apps/dev?id=123"},
		{"http kept", "http://example.dev", "http://example.dev"},
		{"trimmed", "  https://example.dev  ", "https://example.dev"},
		{"empty dropped", "", ""},
		{"whitespace dropped", "   ", ""},
		{"ftp dropped", "ftp://example.dev", ""},
		{"schemeless dropped", "example.dev/profile", ""},
		{"garbage dropped", "://not-a-url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeDeveloperURL(tt.in)
			if tt.want == "" {
				if got != nil {
					t.Errorf("normalizeDeveloperURL(%q) = %q, want nil", tt.in, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("normalizeDeveloperURL(%q) = nil, want %q", tt.in, tt.want)
			}
			if *got != tt.want {
				t.Errorf("normalizeDeveloperURL(%q) = %q, want %q", tt.in, *got, tt.want)
			}
		})
	}
}
