package portfolio

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello, World!", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Already-slugged", "already-slugged"},
		{"Multiple   spaces", "multiple-spaces"},
		{"Ends with punctuation?!", "ends-with-punctuation"},
		{"Numbers 123 ok", "numbers-123-ok"},
		{"", ""},
		{"???", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://example.com", []string{"blog", "my-post"}, "https://example.com/blog/my-post"},
		{"https://example.com/", []string{"feed.xml"}, "https://example.com/feed.xml"},
		{"http://localhost:5000", nil, "http://localhost:5000"},
	}

	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "visitor@example.com", "first.last+tag@sub.domain.org"}
	for _, addr := range valid {
		if !ValidEmail(addr) {
			t.Errorf("ValidEmail(%q) = false, want true", addr)
		}
	}

	invalid := []string{"", "not-an-email", "no@tld", "spaces in@example.com", "@example.com", "user@"}
	for _, addr := range invalid {
		if ValidEmail(addr) {
			t.Errorf("ValidEmail(%q) = true, want false", addr)
		}
	}
}
