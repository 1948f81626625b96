// Package repo defines the persistence contracts for the crawl-analyze-score
// pipeline and an in-memory implementation suitable for tests and
// the CLI demo mode. A production deployment supplies its own implementation
// against whatever store it runs (Postgres, SQLite, etc.) satisfying the
// same interfaces.
package repo

import (
	"context"

	"github.com/Pavankona715/seo-crawler/internal/model"
)

// SiteRepo persists Site records.
type SiteRepo interface {
	GetByDomain(ctx context.Context, domain string) (*model.Site, error)
	GetByID(ctx context.Context, id string) (*model.Site, error)
	Create(ctx context.Context, domain, rootURL string) (*model.Site, error)
	UpdatePageCount(ctx context.Context, siteID string) error
	GetAll(ctx context.Context, skip, limit int) ([]model.Site, error)
}

// CrawlJobRepo persists CrawlJob records and tracks progress counters.
type CrawlJobRepo interface {
	Create(ctx context.Context, siteID string, cfg model.CrawlJobConfig) (*model.CrawlJob, error)
	GetByID(ctx context.Context, id string) (*model.CrawlJob, error)
	UpdateStatus(ctx context.Context, id string, status model.JobStatus, errMsg string) error
	IncrementCrawled(ctx context.Context, id string, success bool) error
	GetRecentForSite(ctx context.Context, siteID string, limit int) ([]model.CrawlJob, error)
}

// PageRepo persists analyzed Page records keyed on (site_id, url).
type PageRepo interface {
	Upsert(ctx context.Context, page model.Page) (*model.Page, error)
	GetByID(ctx context.Context, id string) (*model.Page, error)
	GetForSite(ctx context.Context, siteID string, skip, limit int) ([]model.Page, error)
	CountForSite(ctx context.Context, siteID string) (int, error)
}

// LinkRepo persists Link records discovered during a crawl.
type LinkRepo interface {
	BulkInsert(ctx context.Context, links []model.Link) error
	CountInbound(ctx context.Context, pageID string) (int, error)
	GetBrokenLinks(ctx context.Context, siteID string) ([]model.Link, error)
}

// ScoreRepo persists per-page and site-aggregate Score records.
type ScoreRepo interface {
	UpsertSiteScore(ctx context.Context, siteID, jobID string, score model.Score) error
	CreatePageScore(ctx context.Context, score model.Score) error
	GetSiteScore(ctx context.Context, siteID string) (*model.Score, error)
}

// IssueRepo persists per-page and site-wide Issue records.
type IssueRepo interface {
	BulkCreate(ctx context.Context, issues []model.Issue) error
	GetForSite(ctx context.Context, siteID string, severity *model.IssueSeverity, resolved *bool, skip, limit int) ([]model.Issue, error)
	CountBySeverity(ctx context.Context, siteID string) (map[model.IssueSeverity]int, error)
	DeleteForJob(ctx context.Context, jobID string) error
}

// KeywordRepo persists aggregated Keyword opportunity records.
type KeywordRepo interface {
	BulkUpsert(ctx context.Context, siteID string, keywords []model.Keyword) error
	GetOpportunities(ctx context.Context, siteID string, limit int, minScore float64) ([]model.Keyword, error)
	GetAllForSite(ctx context.Context, siteID string, limit int) ([]model.Keyword, error)
}

// Repositories bundles every repository collaborator the pipeline driver
// needs for one end-to-end job run.
type Repositories struct {
	Sites    SiteRepo
	Jobs     CrawlJobRepo
	Pages    PageRepo
	Links    LinkRepo
	Scores   ScoreRepo
	Issues   IssueRepo
	Keywords KeywordRepo
}
