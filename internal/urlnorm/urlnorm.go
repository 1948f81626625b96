// Package urlnorm implements URL normalization and the internal/crawlable
// classifiers shared by the crawler and analyzer.
package urlnorm

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// excludedExtensions are path suffixes treated as non-HTML resources.
var excludedExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".ico",
	".pdf", ".zip", ".tar", ".gz", ".mp4", ".mp3", ".avi",
	".css", ".js", ".woff", ".woff2", ".ttf", ".eot",
	".xlsx", ".docx", ".pptx", ".csv",
}

// excludedPatterns are substrings anywhere in the URL that disqualify it.
var excludedPatterns = []string{
	"wp-json", "wp-admin", ".xml", "feed/", "/api/", "/__", "/cdn-cgi/",
}

// Normalize drops the fragment, strips a trailing slash unless the path is
// exactly "/", and preserves scheme/host/query. Returns "" on parse failure.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.Fragment = ""
	normalized := u.String()
	if strings.HasSuffix(normalized, "/") && u.Path != "/" {
		normalized = strings.TrimRight(normalized, "/")
	}
	return normalized
}

// RegisteredDomain returns the eTLD+1 of a URL's host, or "" on failure.
func RegisteredDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return registeredDomainForHost(u.Hostname())
}

func registeredDomainForHost(host string) string {
	if host == "" {
		return ""
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return etld1
}

// IsInternal reports whether rawURL's registered domain matches the site's
// (www. is ignored for this comparison).
func IsInternal(rawURL, siteRegisteredDomain string) bool {
	return stripWWW(RegisteredDomain(rawURL)) == stripWWW(siteRegisteredDomain)
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// IsCrawlable applies the scheme/extension/pattern crawlability filter.
func IsCrawlable(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	pathLower := strings.ToLower(u.Path)
	for _, ext := range excludedExtensions {
		if strings.HasSuffix(pathLower, ext) {
			return false
		}
	}
	lowerURL := strings.ToLower(rawURL)
	for _, pattern := range excludedPatterns {
		if strings.Contains(lowerURL, pattern) {
			return false
		}
	}
	return true
}

// IsSkippableHref reports whether an anchor href should never be resolved
// (in-page fragment, mailto, tel).
func IsSkippableHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" {
		return true
	}
	return strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:")
}

// Resolve joins href against base and normalizes the result.
func Resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	return Normalize(resolved.String())
}
