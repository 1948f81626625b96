// Package sitemap discovers and parses a site's XML sitemap(s): probing
// conventional paths, decoding gzip payloads, and recursing one level into
// sitemap-index files.
package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CommonPaths are probed with HEAD requests on every FetchAll; robots.txt
// hints are added to the paths that answer 200.
var CommonPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
	"/sitemaps.xml",
	"/sitemap/sitemap.xml",
	"/wp-sitemap.xml",
}

const (
	headTimeout      = 5 * time.Second
	fetchTimeout     = 15 * time.Second
	maxIndexRecurse  = 1
)

// urlSet is a regular <urlset> sitemap.
type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

// sitemapIndex is a <sitemapindex> of child sitemaps.
type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

type sitemapEntry struct {
	Loc string `xml:"loc"`
}

// Discoverer finds and parses sitemaps for one site.
type Discoverer struct {
	client *http.Client

	processed map[string]bool
}

// NewDiscoverer creates a Discoverer using client for HTTP access.
func NewDiscoverer(client *http.Client) *Discoverer {
	if client == nil {
		client = &http.Client{}
	}
	return &Discoverer{client: client, processed: make(map[string]bool)}
}

// FetchAll discovers and parses all sitemaps for baseURL, returning a
// de-duplicated list of page URLs. robotsHints are additional candidate
// sitemap URLs (from robots.txt Sitemap: lines).
func (d *Discoverer) FetchAll(ctx context.Context, baseURL string, robotsHints []string) []string {
	candidates := d.discover(ctx, baseURL)
	candidates = append(candidates, robotsHints...)

	seen := make(map[string]bool)
	var urls []string
	for _, candidate := range candidates {
		for _, u := range d.parseOne(ctx, candidate, 0) {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}
	return urls
}

func (d *Discoverer) discover(ctx context.Context, baseURL string) []string {
	base := strings.TrimRight(baseURL, "/")
	var candidates []string
	for _, path := range CommonPaths {
		target := base + path
		headCtx, cancel := context.WithTimeout(ctx, headTimeout)
		req, err := http.NewRequestWithContext(headCtx, http.MethodHead, target, nil)
		if err != nil {
			cancel()
			continue
		}
		resp, err := d.client.Do(req)
		cancel()
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			candidates = append(candidates, target)
		}
	}
	return candidates
}

// parseOne fetches and parses sitemapURL, recursing into sitemap-index
// children up to maxIndexRecurse levels deep.
func (d *Discoverer) parseOne(ctx context.Context, sitemapURL string, depth int) []string {
	if d.processed[sitemapURL] {
		return nil
	}
	d.processed[sitemapURL] = true

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	if strings.HasSuffix(sitemapURL, ".gz") || resp.Header.Get("Content-Encoding") == "gzip" {
		body, err = gunzip(body)
		if err != nil {
			return nil
		}
	}

	return d.parseXML(ctx, body, depth)
}

func (d *Discoverer) parseXML(ctx context.Context, body []byte, depth int) []string {
	var index sitemapIndex
	if err := xml.Unmarshal(body, &index); err == nil && len(index.Sitemaps) > 0 {
		if depth >= maxIndexRecurse {
			var urls []string
			for _, s := range index.Sitemaps {
				if s.Loc != "" {
					urls = append(urls, s.Loc)
				}
			}
			return urls
		}
		var urls []string
		for _, s := range index.Sitemaps {
			if s.Loc == "" {
				continue
			}
			urls = append(urls, d.parseOne(ctx, s.Loc, depth+1)...)
		}
		return urls
	}

	var set urlSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil
	}
	var urls []string
	for _, u := range set.URLs {
		if u.Loc != "" {
			urls = append(urls, u.Loc)
		}
	}
	return urls
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gunzip: %w", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}
