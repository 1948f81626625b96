// Package crawler drives the bounded-concurrency BFS crawl loop:
// seed discovery via sitemap, robots-gated fetching through either the HTTP
// or headless-browser fetcher, per-page analysis, and link-following up to
// a configured depth and page budget.
package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Pavankona715/seo-crawler/internal/analyzer"
	"github.com/Pavankona715/seo-crawler/internal/apperr"
	"github.com/Pavankona715/seo-crawler/internal/fetcher"
	"github.com/Pavankona715/seo-crawler/internal/ratelimiter"
	"github.com/Pavankona715/seo-crawler/internal/robots"
	"github.com/Pavankona715/seo-crawler/internal/sitemap"
	"github.com/Pavankona715/seo-crawler/internal/urlnorm"
)

// Config is the resolved, already-validated set of knobs one crawl job runs
// with.
type Config struct {
	MaxDepth       int
	MaxPages       int
	MaxConcurrent  int
	RateLimitRPS   float64
	UseBrowser     bool
	RespectRobots  bool
	UserAgent      string
	RequestTimeout time.Duration
	MaxRetries     int

	// Resource backpressure for the browser fetcher, ignored when UseBrowser
	// is false.
	SafetyReserveMemoryMB int
	CPULoadThresholdPct   float64
	MaxBrowserTabs        int

	// SkipURLs are pages a prior partial run of this job already persisted;
	// they're marked visited up front so resuming doesn't re-fetch them.
	SkipURLs []string
}

// PageSink receives one successfully analyzed page. Sink errors are logged
// and otherwise ignored — they must never abort the crawl.
type PageSink func(ctx context.Context, analyzed analyzer.Result, raw *fetcher.CrawlResult, depth int) error

// Stats summarizes one finished crawl.
type Stats struct {
	PagesVisited int
	PagesFailed  int
	PagesQueued  int
}

// Crawler runs one BFS crawl job end to end.
type Crawler struct {
	cfg Config

	httpClient     *http.Client
	httpFetcher    *fetcher.HTTPFetcher
	browserFetcher *fetcher.BrowserFetcher
	robotsPolicy   *robots.Policy
	sitemapFinder  *sitemap.Discoverer
	limiter        *ratelimiter.Limiter
	analyzer       *analyzer.Analyzer
	resources      *resourceMonitor

	hostDelayMu sync.Mutex
	lastFetch   map[string]time.Time
}

// New builds a Crawler, launching a headless browser if cfg.UseBrowser is
// set. Callers must call Close when done.
func New(cfg Config) (*Crawler, error) {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	c := &Crawler{
		cfg:           cfg,
		httpClient:    httpClient,
		httpFetcher:   fetcher.NewHTTPFetcher(fetcher.HTTPConfig{Timeout: cfg.RequestTimeout, MaxRetries: cfg.MaxRetries, UserAgent: cfg.UserAgent}),
		robotsPolicy:  robots.New(httpClient, cfg.UserAgent),
		sitemapFinder: sitemap.NewDiscoverer(httpClient),
		limiter:       ratelimiter.New(cfg.RateLimitRPS),
		analyzer:      analyzer.New(),
		resources:     newResourceMonitor(cfg.SafetyReserveMemoryMB, cfg.CPULoadThresholdPct, cfg.MaxBrowserTabs),
		lastFetch:     make(map[string]time.Time),
	}

	if cfg.UseBrowser {
		bf, err := fetcher.NewBrowserFetcher(fetcher.BrowserConfig{Timeout: cfg.RequestTimeout, Headless: true})
		if err != nil {
			return nil, err
		}
		c.browserFetcher = bf
	}

	return c, nil
}

// Close releases the browser and HTTP transport resources.
func (c *Crawler) Close() error {
	c.httpFetcher.Close()
	c.httpClient.CloseIdleConnections()
	if c.browserFetcher != nil {
		return c.browserFetcher.Close()
	}
	return nil
}

// Crawl runs the BFS loop from seedURL, invoking sink for every successfully
// analyzed page, until the page budget, depth limit, or ctx cancellation
// stops it.
func (c *Crawler) Crawl(ctx context.Context, seedURL string, sink PageSink) (Stats, error) {
	seed := urlnorm.Normalize(seedURL)
	siteDomain := urlnorm.RegisteredDomain(seed)

	queue := newURLQueue()
	if len(c.cfg.SkipURLs) > 0 {
		queue.seedVisited(c.cfg.SkipURLs)
	}

	// The seed URL is always in scope regardless of robots — the allow check
	// still applies per fetch, in fetchOne, so a disallowed seed yields no
	// page for itself but sitemap-discovered URLs still get queued and run.
	queue.Push(seed, 0)
	for _, u := range c.seedSitemapURLs(ctx, seed) {
		normalized := urlnorm.Normalize(u)
		if normalized == "" || !urlnorm.IsInternal(normalized, siteDomain) || !urlnorm.IsCrawlable(normalized) {
			continue
		}
		queue.Push(normalized, 0)
	}

	var stats Stats

	for ctx.Err() == nil {
		if c.cfg.MaxPages > 0 && stats.PagesVisited >= c.cfg.MaxPages {
			break
		}
		batchSize := c.cfg.MaxConcurrent
		if c.cfg.MaxPages > 0 {
			remaining := c.cfg.MaxPages - stats.PagesVisited
			if remaining < batchSize {
				batchSize = remaining
			}
		}
		if c.browserFetcher != nil {
			if tabs := c.resources.MaxConcurrentTabs(); tabs < batchSize {
				batchSize = tabs
			}
		}
		batch := queue.DrainBatch(batchSize)
		if len(batch) == 0 {
			break
		}

		results := c.fetchBatch(ctx, batch)

		for i, item := range batch {
			res := results[i]
			if res != nil && errors.Is(res.Err, apperr.ErrBlocked) {
				continue
			}
			if res == nil || !res.IsSuccess() {
				stats.PagesFailed++
				continue
			}
			stats.PagesVisited++

			analyzed := c.analyzer.Analyze(res, item.depth)
			if err := sink(ctx, analyzed, res, item.depth); err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("url", item.url).Msg("page sink failed")
			}

			if item.depth >= c.cfg.MaxDepth {
				continue
			}
			for _, link := range analyzed.Links {
				if !link.IsInternal {
					continue
				}
				target := urlnorm.Normalize(link.TargetURL)
				if target == "" || !urlnorm.IsCrawlable(target) {
					continue
				}
				if c.cfg.RespectRobots && !c.robotsPolicy.IsAllowed(ctx, target) {
					continue
				}
				if queue.Push(target, item.depth+1) {
					stats.PagesQueued++
				}
			}
		}
	}

	return stats, ctx.Err()
}

// fetchBatch fetches every item concurrently, pacing each by host via the
// rate limiter and the robots-derived crawl delay.
func (c *Crawler) fetchBatch(ctx context.Context, batch []urlItem) []*fetcher.CrawlResult {
	results := make([]*fetcher.CrawlResult, len(batch))
	var wg sync.WaitGroup
	for i, item := range batch {
		wg.Add(1)
		go func(i int, item urlItem) {
			defer wg.Done()
			results[i] = c.fetchOne(ctx, item.url)
		}(i, item)
	}
	wg.Wait()
	return results
}

func (c *Crawler) fetchOne(ctx context.Context, rawURL string) *fetcher.CrawlResult {
	if c.cfg.RespectRobots && !c.robotsPolicy.IsAllowed(ctx, rawURL) {
		return &fetcher.CrawlResult{URL: rawURL, Err: apperr.ErrBlocked}
	}

	host := hostOf(rawURL)

	if err := c.limiter.Acquire(ctx, host); err != nil {
		return &fetcher.CrawlResult{URL: rawURL, Err: err}
	}
	c.waitCrawlDelay(ctx, host, rawURL)

	var f fetcher.Fetcher = c.httpFetcher
	if c.browserFetcher != nil {
		f = c.browserFetcher
	}
	return f.Fetch(ctx, rawURL)
}

// waitCrawlDelay enforces robots.txt's Crawl-delay directive on top of the
// configured rate, since the limiter only knows the operator's fixed rps.
func (c *Crawler) waitCrawlDelay(ctx context.Context, host, rawURL string) {
	if !c.cfg.RespectRobots {
		return
	}
	delay := c.robotsPolicy.CrawlDelay(ctx, rawURL)
	if delay <= 0 {
		return
	}

	c.hostDelayMu.Lock()
	last, ok := c.lastFetch[host]
	c.lastFetch[host] = time.Now()
	c.hostDelayMu.Unlock()

	if !ok {
		return
	}
	wait := delay - time.Since(last)
	if wait <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
}

func (c *Crawler) seedSitemapURLs(ctx context.Context, seed string) []string {
	hints := c.robotsPolicy.Sitemaps(ctx, seed)
	return c.sitemapFinder.FetchAll(ctx, baseOf(seed), hints)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Host
}

func baseOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
