package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPFetcherFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><title>hi</title></html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPConfig{})
	result := f.Fetch(context.Background(), srv.URL)

	if !result.IsSuccess() {
		t.Fatalf("expected success, got err=%v status=%d", result.Err, result.StatusCode)
	}
	if result.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", result.StatusCode)
	}
	if result.HTML == "" {
		t.Error("expected non-empty HTML")
	}
}

func TestHTTPFetcherFollowsRedirectsAndSetsFinalURL(t *testing.T) {
	var targetURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, targetURL, http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("done"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	targetURL = srv.URL + "/end"

	f := NewHTTPFetcher(HTTPConfig{})
	result := f.Fetch(context.Background(), srv.URL+"/start")

	if result.FinalURL != targetURL {
		t.Errorf("FinalURL = %q, want %q", result.FinalURL, targetURL)
	}
}

func TestHTTPFetcherRecordsNon2xxStatusWithoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPConfig{})
	result := f.Fetch(context.Background(), srv.URL)

	if result.Err != nil {
		t.Errorf("expected no transport error for HTTP 404, got %v", result.Err)
	}
	if result.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", result.StatusCode)
	}
	if result.IsSuccess() {
		t.Error("404 should not be IsSuccess")
	}
}

func TestHTTPFetcherTransportFailureReturnsZeroStatus(t *testing.T) {
	f := NewHTTPFetcher(HTTPConfig{MaxRetries: 1})
	result := f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")

	if result.Err == nil {
		t.Fatal("expected transport error")
	}
	if result.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", result.StatusCode)
	}
}

func TestDecompressGzip(t *testing.T) {
	raw := []byte("hello world")
	compressed := gzipBytes(t, raw)

	got, err := decompress("gzip", compressed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(got) != string(raw) {
		t.Errorf("got %q, want %q", got, raw)
	}
}

func gzipBytes(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecompressPassthroughUnknownEncoding(t *testing.T) {
	raw := []byte("hello")
	got, err := decompress("identity", raw)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(got) != string(raw) {
		t.Errorf("got %q, want %q", got, raw)
	}
}
