package fetcher

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout     = 30 * time.Second
	maxRedirects       = 5
	retryBaseDelay     = 1 * time.Second
	retryMaxDelay      = 10 * time.Second
	defaultMaxRetries  = 3
	maxIdleConns       = 100
	maxIdleConnsPerHost = 50
)

// HTTPConfig configures HTTPFetcher construction.
type HTTPConfig struct {
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
}

// HTTPFetcher performs one GET with redirect following, retries on
// transport/timeout errors with exponential backoff, and transparently
// decompresses gzip/deflate/brotli bodies.
type HTTPFetcher struct {
	client     *http.Client
	maxRetries int
	userAgent  string
}

// NewHTTPFetcher builds an HTTPFetcher from cfg, filling in defaults.
func NewHTTPFetcher(cfg HTTPConfig) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "SEOBot/1.0 (+https://example.invalid/bot)"
	}

	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return &HTTPFetcher{client: client, maxRetries: cfg.MaxRetries, userAgent: cfg.UserAgent}
}

// Fetch performs the GET, retrying transport/timeout failures with
// exponential backoff (base 1s, cap 10s).
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) *CrawlResult {
	start := time.Now()

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt)
			select {
			case <-ctx.Done():
				return &CrawlResult{URL: url, Err: ctx.Err(), LoadTimeMs: time.Since(start).Milliseconds()}
			case <-time.After(delay):
			}
		}

		result, retryable, err := f.attempt(ctx, url)
		if err == nil {
			result.LoadTimeMs = time.Since(start).Milliseconds()
			return result
		}
		lastErr = err
		if !retryable {
			break
		}
		log.Ctx(ctx).Debug().Err(err).Str("url", url).Int("attempt", attempt+1).Msg("fetch retry")
	}

	return &CrawlResult{
		URL:        url,
		Err:        lastErr,
		StatusCode: 0,
		LoadTimeMs: time.Since(start).Milliseconds(),
	}
}

// attempt performs one GET. The bool return indicates whether a non-nil
// error is worth retrying (transport/timeout only, never HTTP status codes).
func (f *HTTPFetcher) attempt(ctx context.Context, url string) (*CrawlResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, isRetryable(err), err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, isRetryable(err), err
	}

	decoded, err := decompress(resp.Header.Get("Content-Encoding"), body)
	if err != nil {
		decoded = body
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return &CrawlResult{
		URL:           url,
		FinalURL:      resp.Request.URL.String(),
		StatusCode:    resp.StatusCode,
		HTML:          string(decoded),
		Headers:       headers,
		PageSizeBytes: int64(len(body)),
	}, false, nil
}

// isRetryable is true for any client.Do failure: transport and timeout
// errors are the only ones that reach here (HTTP status errors are not
// Go errors), and all of them are worth a retry.
func isRetryable(err error) bool {
	return err != nil
}

func backoffDelay(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// decompress handles gzip, deflate, and brotli content-encodings, falling
// through unknown encodings unchanged.
func decompress(contentEncoding string, body []byte) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case "deflate":
		r := flate.NewReader(bytes.NewReader(body))
		defer r.Close()
		return io.ReadAll(r)
	case "br":
		r := brotli.NewReader(bytes.NewReader(body))
		return io.ReadAll(r)
	default:
		return body, nil
	}
}

// Close releases the HTTP transport's idle connections.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
