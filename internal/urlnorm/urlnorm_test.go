package urlnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips fragment", "https://example.test/a#section", "https://example.test/a"},
		{"strips trailing slash", "https://example.test/a/", "https://example.test/a"},
		{"keeps root slash", "https://example.test/", "https://example.test/"},
		{"keeps query", "https://example.test/a?x=1", "https://example.test/a?x=1"},
		{"idempotent on non-root with trailing slash added", "https://example.test/a", "https://example.test/a"},
		{"invalid url", "http://[::1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	once := Normalize("https://example.test/a/")
	twice := Normalize(once)
	if once != twice {
		t.Errorf("normalization not idempotent: %q != %q", once, twice)
	}
}

func TestIsInternal(t *testing.T) {
	tests := []struct {
		name string
		url  string
		site string
		want bool
	}{
		{"same domain", "https://example.com/a", "example.com", true},
		{"www ignored", "https://www.example.com/a", "example.com", true},
		{"different domain", "https://other.com/a", "example.com", false},
		{"subdomain differs by etld+1 still matches", "https://blog.example.com/a", "example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInternal(tt.url, tt.site); got != tt.want {
				t.Errorf("IsInternal(%q, %q) = %v, want %v", tt.url, tt.site, got, tt.want)
			}
		})
	}
}

func TestIsCrawlable(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/page", true},
		{"https://example.com/image.jpg", false},
		{"https://example.com/style.CSS", false},
		{"ftp://example.com/page", false},
		{"https://example.com/wp-admin/edit", false},
		{"https://example.com/feed/", false},
		{"https://example.com/api/v1/x", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsCrawlable(tt.url); got != tt.want {
				t.Errorf("IsCrawlable(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsSkippableHref(t *testing.T) {
	tests := []struct {
		href string
		want bool
	}{
		{"", true},
		{"#top", true},
		{"mailto:a@b.com", true},
		{"tel:+123456", true},
		{"/page", false},
		{"https://example.com", false},
	}
	for _, tt := range tests {
		if got := IsSkippableHref(tt.href); got != tt.want {
			t.Errorf("IsSkippableHref(%q) = %v, want %v", tt.href, got, tt.want)
		}
	}
}
