// Package robots fetches and caches robots.txt per host, exposing the
// allow/deny decision plus the Sitemap: and Crawl-delay: side-channels.
package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

const fetchTimeout = 10 * time.Second

// entry is the cached, parsed policy for one host. A nil data field means
// "allow all" — either because robots.txt is absent, or because fetching or
// parsing it failed.
type entry struct {
	data     *robotstxt.RobotsData
	sitemaps []string
}

// Policy checks robots.txt rules per host, caching each host's parsed
// result for the lifetime of a crawl job.
type Policy struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]*entry
}

// New creates a Policy using client for robots.txt fetches.
func New(client *http.Client, userAgent string) *Policy {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Policy{
		client:    client,
		userAgent: userAgent,
		cache:     make(map[string]*entry),
	}
}

// IsAllowed reports whether rawURL may be fetched under the cached policy
// for its host. Errors degrade to allow-all, never to deny.
func (p *Policy) IsAllowed(ctx context.Context, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return true
	}

	e := p.entryFor(ctx, parsed)
	if e.data == nil {
		return true
	}
	return e.data.TestAgent(parsed.Path, p.userAgent)
}

// Sitemaps returns the Sitemap: hints discovered in rawURL's host's
// robots.txt, or nil if none were found.
func (p *Policy) Sitemaps(ctx context.Context, rawURL string) []string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil
	}
	return p.entryFor(ctx, parsed).sitemaps
}

// CrawlDelay returns the robots.txt Crawl-delay for the given user agent
// group on rawURL's host, clamped to >= 0. Zero if absent or unknown.
func (p *Policy) CrawlDelay(ctx context.Context, rawURL string) time.Duration {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return 0
	}
	e := p.entryFor(ctx, parsed)
	if e.data == nil {
		return 0
	}
	group := e.data.FindGroup(p.userAgent)
	if group == nil || group.CrawlDelay <= 0 {
		return 0
	}
	return group.CrawlDelay
}

func (p *Policy) entryFor(ctx context.Context, parsed *url.URL) *entry {
	host := parsed.Host

	p.mu.Lock()
	if e, ok := p.cache[host]; ok {
		p.mu.Unlock()
		return e
	}
	p.mu.Unlock()

	e := p.fetch(ctx, parsed.Scheme, host)

	p.mu.Lock()
	p.cache[host] = e
	p.mu.Unlock()
	return e
}

func (p *Policy) fetch(ctx context.Context, scheme, host string) *entry {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return &entry{}
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return &entry{}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &entry{}
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return &entry{}
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil || data == nil {
		return &entry{}
	}

	return &entry{data: data, sitemaps: parseSitemapHints(string(body))}
}

// parseSitemapHints scans robots.txt text for "Sitemap:" lines. The
// robotstxt library doesn't surface these, so they're extracted by hand
// with a case-insensitive directive name.
func parseSitemapHints(body string) []string {
	var sitemaps []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "sitemap:") {
			url := strings.TrimSpace(line[len("sitemap:"):])
			if url != "" {
				sitemaps = append(sitemaps, url)
			}
		}
	}
	return sitemaps
}
