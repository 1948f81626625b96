// Package model holds the value records shared across the crawl-analyze-score
// pipeline: Site, CrawlJob, Page, Link, Score, Issue, and Keyword.
package model

import "time"

// Site is a crawled website, unique by registered domain.
type Site struct {
	ID            string    `json:"id"`
	Domain        string    `json:"domain"`
	RootURL       string    `json:"root_url"`
	TotalPages    int       `json:"total_pages"`
	LastCrawledAt time.Time `json:"last_crawled_at"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewSite builds a Site with defaults for a first-time crawl request.
func NewSite(id, domain, rootURL string) *Site {
	return &Site{
		ID:        id,
		Domain:    domain,
		RootURL:   rootURL,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}
