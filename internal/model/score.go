package model

import "time"

// ScoreComponent is one additive line item inside a dimension breakdown.
type ScoreComponent struct {
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
	Value any     `json:"value"`
}

// DimensionBreakdown maps component name to its scored detail.
type DimensionBreakdown map[string]ScoreComponent

// Score is one scored row: a page-level score when PageID is set, otherwise
// the site-level aggregate for the job.
type Score struct {
	ID         string `json:"id"`
	SiteID     string `json:"site_id"`
	PageID     string `json:"page_id,omitempty"`
	CrawlJobID string `json:"crawl_job_id,omitempty"`

	OverallScore      float64 `json:"overall_score"`
	TechnicalScore    float64 `json:"technical_score"`
	ContentScore      float64 `json:"content_score"`
	AuthorityScore    float64 `json:"authority_score"`
	LinkingScore      float64 `json:"linking_score"`
	AIVisibilityScore float64 `json:"ai_visibility_score"`

	TechnicalBreakdown DimensionBreakdown `json:"technical_breakdown"`
	ContentBreakdown   DimensionBreakdown `json:"content_breakdown"`
	LinkingBreakdown   DimensionBreakdown `json:"linking_breakdown"`

	ScoredAt time.Time `json:"scored_at"`
}

// DimensionWeights are the overall-score weights; must sum to 1.0.
type DimensionWeights struct {
	Technical    float64
	Content      float64
	Authority    float64
	Linking      float64
	AIVisibility float64
}

// DefaultWeights returns the fixed overall-score weighting.
func DefaultWeights() DimensionWeights {
	return DimensionWeights{
		Technical:    0.35,
		Content:      0.30,
		Authority:    0.20,
		Linking:      0.10,
		AIVisibility: 0.05,
	}
}
