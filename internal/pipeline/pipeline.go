// Package pipeline drives one crawl job end to end: crawl, analyze, score,
// recommend, persist. It is the glue between internal/crawler
// and the repo/scorer/recommend/keyword collaborators; it owns no
// algorithm of its own.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Pavankona715/seo-crawler/internal/analyzer"
	"github.com/Pavankona715/seo-crawler/internal/crawler"
	"github.com/Pavankona715/seo-crawler/internal/fetcher"
	"github.com/Pavankona715/seo-crawler/internal/keyword"
	"github.com/Pavankona715/seo-crawler/internal/model"
	"github.com/Pavankona715/seo-crawler/internal/recommend"
	"github.com/Pavankona715/seo-crawler/internal/repo"
	"github.com/Pavankona715/seo-crawler/internal/scorer"
)

// MaxContentTextLen caps the persisted content_text column.
const MaxContentTextLen = 50000

// MaxKeywordOpportunities caps how many aggregated keywords are persisted
// per job.
const MaxKeywordOpportunities = 300

// Driver runs one crawl job's full pipeline against a set of repositories.
type Driver struct {
	repos    repo.Repositories
	scorer   *scorer.Scorer
	recommend *recommend.Engine
	keyword  *keyword.Engine
}

// New builds a Driver. weights configures the scorer's dimension weights.
func New(repos repo.Repositories, weights model.DimensionWeights) *Driver {
	return &Driver{
		repos:     repos,
		scorer:    scorer.New(weights),
		recommend: recommend.New(),
		keyword:   keyword.New(),
	}
}

// Run executes job end to end: marks it running, crawls siteRootURL with
// cfg, persisting each page as it's analyzed, then performs the post-crawl
// aggregation (site score, keyword opportunities, site-wide issues) before
// marking the job completed. Any unhandled failure marks the job failed
// with a truncated error message and is returned to the caller.
func (d *Driver) Run(ctx context.Context, site model.Site, job model.CrawlJob, cfg crawler.Config) (err error) {
	if updateErr := d.repos.Jobs.UpdateStatus(ctx, job.ID, model.JobRunning, ""); updateErr != nil {
		return updateErr
	}

	defer func() {
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("job_id", job.ID).Msg("crawl job failed")
			_ = d.repos.Jobs.UpdateStatus(ctx, job.ID, model.JobFailed, err.Error())
		}
	}()

	if existing, resumeErr := d.repos.Pages.GetForSite(ctx, site.ID, 0, 0); resumeErr == nil && len(existing) > 0 {
		skip := make([]string, len(existing))
		for i, p := range existing {
			skip[i] = p.URL
		}
		cfg.SkipURLs = skip
		log.Ctx(ctx).Info().Int("skip_count", len(skip)).Str("job_id", job.ID).Msg("resuming crawl, skipping already-persisted pages")
	}

	c, buildErr := crawler.New(cfg)
	if buildErr != nil {
		err = fmt.Errorf("build crawler: %w", buildErr)
		return err
	}
	defer c.Close()

	var pageScores []model.Score
	var pageKeywords []keyword.PageKeywords

	sink := func(ctx context.Context, analyzed analyzer.Result, _ *fetcher.CrawlResult, depth int) error {
		return d.onPageCrawled(ctx, site.ID, job.ID, analyzed, depth, &pageScores, &pageKeywords)
	}

	stats, crawlErr := c.Crawl(ctx, site.RootURL, sink)
	if crawlErr != nil {
		err = fmt.Errorf("crawl: %w", crawlErr)
		return err
	}

	if finalizeErr := d.finalize(ctx, site, job, pageScores, pageKeywords); finalizeErr != nil {
		err = fmt.Errorf("finalize: %w", finalizeErr)
		return err
	}

	if statusErr := d.repos.Jobs.UpdateStatus(ctx, job.ID, model.JobCompleted, ""); statusErr != nil {
		return statusErr
	}

	log.Ctx(ctx).Info().
		Str("job_id", job.ID).
		Int("pages_visited", stats.PagesVisited).
		Int("pages_failed", stats.PagesFailed).
		Msg("crawl job completed")

	return nil
}

// onPageCrawled is the per-page callback: persist the page, its links, its
// score, and its issues. Errors here are logged and swallowed per the
// crawler's sink contract, but counted against the job's failure tally via
// IncrementCrawled.
func (d *Driver) onPageCrawled(ctx context.Context, siteID, jobID string, analyzed analyzer.Result, depth int, pageScores *[]model.Score, pageKeywords *[]keyword.PageKeywords) error {
	page := analyzed.Page
	page.SiteID = siteID
	page.CrawlJobID = jobID
	page.Depth = depth
	if len(page.ContentText) > MaxContentTextLen {
		page.ContentText = page.ContentText[:MaxContentTextLen]
	}

	stored, err := d.repos.Pages.Upsert(ctx, page)
	if err != nil {
		_ = d.repos.Jobs.IncrementCrawled(ctx, jobID, false)
		return fmt.Errorf("upsert page %s: %w", page.URL, err)
	}

	links := analyzed.Links
	if len(links) > model.MaxLinksPerPage {
		links = links[:model.MaxLinksPerPage]
	}
	for i := range links {
		links[i].SiteID = siteID
		links[i].SourcePageID = stored.ID
	}
	if len(links) > 0 {
		if linkErr := d.repos.Links.BulkInsert(ctx, links); linkErr != nil {
			log.Ctx(ctx).Warn().Err(linkErr).Str("url", page.URL).Msg("bulk insert links failed")
		}
	}

	// Inbound link counts are only meaningful once the full link graph is
	// known, so the per-page pass always scores with inbound=0; the
	// component itself is parameterized for a caller that wants a second
	// rescoring pass over the completed graph (see Open Questions).
	pageScore := d.scorer.ScorePage(*stored, 0)
	pageScore.SiteID = siteID
	pageScore.PageID = stored.ID
	pageScore.CrawlJobID = jobID
	if scoreErr := d.repos.Scores.CreatePageScore(ctx, pageScore); scoreErr != nil {
		log.Ctx(ctx).Warn().Err(scoreErr).Str("url", page.URL).Msg("create page score failed")
	}
	*pageScores = append(*pageScores, pageScore)

	issues := d.recommend.GeneratePageIssues(*stored)
	if len(issues) > 0 {
		if issueErr := d.repos.Issues.BulkCreate(ctx, issues); issueErr != nil {
			log.Ctx(ctx).Warn().Err(issueErr).Str("url", page.URL).Msg("bulk create issues failed")
		}
	}

	if len(stored.KeywordFrequencies) > 0 {
		*pageKeywords = append(*pageKeywords, keyword.NewPageKeywords(stored.URL, stored.KeywordFrequencies))
	}

	return d.repos.Jobs.IncrementCrawled(ctx, jobID, true)
}

// finalize runs the post-crawl aggregation: site score, keyword
// opportunities, site-wide issues, and the site's page-count/last-crawled
// bookkeeping.
func (d *Driver) finalize(ctx context.Context, site model.Site, job model.CrawlJob, pageScores []model.Score, pageKeywords []keyword.PageKeywords) error {
	siteScore := scorer.AggregateSite(pageScores)
	if err := d.repos.Scores.UpsertSiteScore(ctx, site.ID, job.ID, siteScore); err != nil {
		return fmt.Errorf("upsert site score: %w", err)
	}

	opportunities := d.keyword.AggregateSiteKeywords(pageKeywords)
	if len(opportunities) > MaxKeywordOpportunities {
		opportunities = opportunities[:MaxKeywordOpportunities]
	}
	for i := range opportunities {
		opportunities[i].CrawlJobID = job.ID
	}
	if err := d.repos.Keywords.BulkUpsert(ctx, site.ID, opportunities); err != nil {
		return fmt.Errorf("bulk upsert keywords: %w", err)
	}

	pages, err := d.repos.Pages.GetForSite(ctx, site.ID, 0, 0)
	if err != nil {
		return fmt.Errorf("get pages for site: %w", err)
	}
	siteIssues := d.recommend.GenerateSiteIssues(site.ID, pages)
	for i := range siteIssues {
		siteIssues[i].CrawlJobID = job.ID
	}
	if len(siteIssues) > 0 {
		if err := d.repos.Issues.BulkCreate(ctx, siteIssues); err != nil {
			return fmt.Errorf("bulk create site issues: %w", err)
		}
	}

	return d.repos.Sites.UpdatePageCount(ctx, site.ID)
}
