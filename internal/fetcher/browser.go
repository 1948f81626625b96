package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	defaultBrowserTimeout = 15 * time.Second
	settleDelay           = 500 * time.Millisecond
)

// BrowserConfig configures BrowserFetcher construction.
type BrowserConfig struct {
	Timeout  time.Duration
	Headless bool
}

// BrowserFetcher navigates pages in a headless browser, giving each fetch
// its own incognito browsing context for isolation and releasing it on
// every exit path.
type BrowserFetcher struct {
	browser *rod.Browser
	timeout time.Duration
}

// NewBrowserFetcher launches a browser and returns a BrowserFetcher bound
// to it. Callers must call Close to terminate the browser process.
func NewBrowserFetcher(cfg BrowserConfig) (*BrowserFetcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultBrowserTimeout
	}

	l := launcher.New().Headless(cfg.Headless).Set("ignore-certificate-errors")
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	return &BrowserFetcher{browser: browser, timeout: cfg.Timeout}, nil
}

// Fetch navigates to url in a fresh incognito context, waits for load plus
// a settle delay, and returns the rendered HTML. The context (and its
// page) is released on every exit path, including panics recovered by
// rod's own page-level error returns.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) *CrawlResult {
	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	browserCtx, err := f.browser.Incognito()
	if err != nil {
		return &CrawlResult{URL: url, Err: fmt.Errorf("create browsing context: %w", err), LoadTimeMs: time.Since(start).Milliseconds()}
	}
	defer browserCtx.MustClose()

	page, err := browserCtx.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return &CrawlResult{URL: url, Err: fmt.Errorf("open page: %w", err), LoadTimeMs: time.Since(start).Milliseconds()}
	}
	page = page.Context(fetchCtx)
	defer page.Close()

	if err := page.Navigate(url); err != nil {
		return &CrawlResult{URL: url, Err: fmt.Errorf("navigate: %w", err), LoadTimeMs: time.Since(start).Milliseconds()}
	}
	if err := page.WaitLoad(); err != nil {
		return &CrawlResult{URL: url, Err: fmt.Errorf("wait load: %w", err), LoadTimeMs: time.Since(start).Milliseconds()}
	}

	select {
	case <-fetchCtx.Done():
		return &CrawlResult{URL: url, Err: fetchCtx.Err(), LoadTimeMs: time.Since(start).Milliseconds()}
	case <-time.After(settleDelay):
	}

	html, err := page.HTML()
	if err != nil {
		return &CrawlResult{URL: url, Err: fmt.Errorf("read html: %w", err), LoadTimeMs: time.Since(start).Milliseconds()}
	}

	info, err := page.Info()
	finalURL := url
	if err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &CrawlResult{
		URL:           url,
		FinalURL:      finalURL,
		StatusCode:    200,
		HTML:          html,
		Headers:       map[string]string{},
		PageSizeBytes: int64(len(html)),
		LoadTimeMs:    time.Since(start).Milliseconds(),
	}
}

// Close terminates the underlying browser process.
func (f *BrowserFetcher) Close() error {
	return f.browser.Close()
}
