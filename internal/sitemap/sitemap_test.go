package sitemap

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchAllParsesURLSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.Write([]byte(`<?xml version="1.0"?><urlset><url><loc>https://example.test/a</loc></url><url><loc>https://example.test/b</loc></url></urlset>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	d := NewDiscoverer(srv.Client())
	urls := d.FetchAll(context.Background(), srv.URL, nil)

	if len(urls) != 2 {
		t.Fatalf("got %d urls, want 2: %v", len(urls), urls)
	}
}

func TestFetchAllRecursesSitemapIndexOneLevel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap_index.xml":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.Write([]byte(`<?xml version="1.0"?><sitemapindex><sitemap><loc>` + srv_URL(r) + `/part1.xml</loc></sitemap></sitemapindex>`))
		case "/part1.xml":
			w.Write([]byte(`<?xml version="1.0"?><urlset><url><loc>https://example.test/p1</loc></url></urlset>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	d := NewDiscoverer(srv.Client())
	urls := d.FetchAll(context.Background(), srv.URL, nil)

	if len(urls) != 1 || urls[0] != "https://example.test/p1" {
		t.Errorf("expected recursed url set entries, got %v", urls)
	}
}

func srv_URL(r *http.Request) string {
	return "http://" + r.Host
}

func TestFetchAllDecodesGzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Write([]byte(`<?xml version="1.0"?><urlset><url><loc>https://example.test/gz</loc></url></urlset>`))
	gw.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.Header().Set("Content-Encoding", "gzip")
			w.Write(buf.Bytes())
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	d := NewDiscoverer(srv.Client())
	urls := d.FetchAll(context.Background(), srv.URL, nil)

	if len(urls) != 1 || urls[0] != "https://example.test/gz" {
		t.Errorf("expected gzip-decoded entry, got %v", urls)
	}
}

func TestFetchAllDeduplicatesAcrossHintsAndDiscovery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.Write([]byte(`<?xml version="1.0"?><urlset><url><loc>https://example.test/dup</loc></url></urlset>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	d := NewDiscoverer(srv.Client())
	urls := d.FetchAll(context.Background(), srv.URL, []string{srv.URL + "/sitemap.xml"})

	if len(urls) != 1 {
		t.Errorf("expected dedup to one entry, got %v", urls)
	}
}
