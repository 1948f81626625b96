package robots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsAllowedDisallowsConfiguredPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private\nSitemap: https://example.test/sitemap.xml\nCrawl-delay: 2\n"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := New(srv.Client(), "seobot")
	ctx := context.Background()

	if p.IsAllowed(ctx, srv.URL+"/public") != true {
		t.Error("expected /public allowed")
	}
	if p.IsAllowed(ctx, srv.URL+"/private/a") != false {
		t.Error("expected /private/a disallowed")
	}

	sitemaps := p.Sitemaps(ctx, srv.URL+"/public")
	if len(sitemaps) != 1 || sitemaps[0] != "https://example.test/sitemap.xml" {
		t.Errorf("unexpected sitemaps: %v", sitemaps)
	}

	if d := p.CrawlDelay(ctx, srv.URL+"/public"); d.Seconds() != 2 {
		t.Errorf("CrawlDelay() = %v, want 2s", d)
	}
}

func TestIsAllowedDefaultsToAllowOn404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := New(srv.Client(), "seobot")
	if !p.IsAllowed(context.Background(), srv.URL+"/anything") {
		t.Error("expected allow-all on 404")
	}
}

func TestIsAllowedDefaultsToAllowOnNetworkFailure(t *testing.T) {
	p := New(&http.Client{}, "seobot")
	if !p.IsAllowed(context.Background(), "http://127.0.0.1:1/whatever") {
		t.Error("expected allow-all on connection failure")
	}
}

func TestIsAllowedCachesPerHost(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("User-agent: *\nAllow: /\n"))
	}))
	defer srv.Close()

	p := New(srv.Client(), "seobot")
	ctx := context.Background()
	p.IsAllowed(ctx, srv.URL+"/a")
	p.IsAllowed(ctx, srv.URL+"/b")
	p.IsAllowed(ctx, srv.URL+"/c")

	if hits != 1 {
		t.Errorf("robots.txt fetched %d times, want 1 (cached)", hits)
	}
}
