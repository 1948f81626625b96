package model

import "time"

// Keyword is a per-site aggregated keyword opportunity, unique by
// (site_id, keyword).
type Keyword struct {
	ID         string `json:"id"`
	SiteID     string `json:"site_id"`
	CrawlJobID string `json:"crawl_job_id,omitempty"`

	Keyword              string   `json:"keyword"`
	Frequency            int      `json:"frequency"`
	Density              float64  `json:"density"`
	EstimatedVolume      int      `json:"estimated_volume"`
	EstimatedDifficulty  float64  `json:"estimated_difficulty"`
	EstimatedCTR         float64  `json:"estimated_ctr"`
	CurrentRank          int      `json:"current_rank"`
	RankGap              *int     `json:"rank_gap,omitempty"`
	OpportunityScore     float64  `json:"opportunity_score"`
	IsOpportunity        bool     `json:"is_opportunity"`
	PageURLs             []string `json:"page_urls"`

	CreatedAt time.Time `json:"created_at"`
}

// MaxOpportunityPageURLs caps the page_urls slice per keyword.
const MaxOpportunityPageURLs = 5
