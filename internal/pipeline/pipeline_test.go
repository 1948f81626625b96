package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Pavankona715/seo-crawler/internal/crawler"
	"github.com/Pavankona715/seo-crawler/internal/model"
	"github.com/Pavankona715/seo-crawler/internal/repo"
)

func TestDriverRunEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>About Us - A Fine Example Company</title>
<meta name="description" content="Learn about our company and what we do for customers every single day.">
</head><body><h1>About</h1><p>`+wordsRepeated(400)+`</p></body></html>`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Home - A Fine Example Company</title>
<meta name="description" content="Welcome to our homepage, a fine example of a company website online.">
</head><body><h1>Home</h1><p>`+wordsRepeated(400)+`</p><a href="/about">About</a></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := repo.NewMemoryStore()
	repos := store.Repositories()
	ctx := context.Background()

	site, err := repos.Sites.Create(ctx, "example.test", srv.URL+"/")
	if err != nil {
		t.Fatalf("Sites.Create: %v", err)
	}
	job, err := repos.Jobs.Create(ctx, site.ID, model.CrawlJobConfig{MaxDepth: 1, MaxPages: 10, MaxConcurrent: 4, RateLimitRPS: 100})
	if err != nil {
		t.Fatalf("Jobs.Create: %v", err)
	}

	driver := New(repos, model.DefaultWeights())
	cfg := crawler.Config{
		MaxDepth:       1,
		MaxPages:       10,
		MaxConcurrent:  4,
		RateLimitRPS:   100,
		UserAgent:      "testbot",
		RequestTimeout: 5 * time.Second,
		MaxRetries:     1,
	}

	if err := driver.Run(ctx, *site, *job, cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}

	gotJob, err := repos.Jobs.GetByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if gotJob.Status != model.JobCompleted {
		t.Errorf("job status = %v, want completed", gotJob.Status)
	}
	if gotJob.PagesCrawled != 2 {
		t.Errorf("pages_crawled = %d, want 2", gotJob.PagesCrawled)
	}

	pages, err := repos.Pages.GetForSite(ctx, site.ID, 0, 0)
	if err != nil || len(pages) != 2 {
		t.Fatalf("GetForSite = %d pages, %v; want 2, nil", len(pages), err)
	}

	siteScore, err := repos.Scores.GetSiteScore(ctx, site.ID)
	if err != nil {
		t.Fatalf("GetSiteScore: %v", err)
	}
	if siteScore.OverallScore <= 0 {
		t.Errorf("site overall score = %v, want > 0", siteScore.OverallScore)
	}

	updatedSite, err := repos.Sites.GetByID(ctx, site.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updatedSite.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", updatedSite.TotalPages)
	}
}

func TestDriverRunResumesWithoutRefetchingPersistedPages(t *testing.T) {
	var aboutHits int
	mux := http.NewServeMux()
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		aboutHits++
		fmt.Fprint(w, `<html><head><title>About Us - A Fine Example Company</title>
<meta name="description" content="Learn about our company and what we do for customers every single day.">
</head><body><h1>About</h1><p>`+wordsRepeated(400)+`</p></body></html>`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Home - A Fine Example Company</title>
<meta name="description" content="Welcome to our homepage, a fine example of a company website online.">
</head><body><h1>Home</h1><p>`+wordsRepeated(400)+`</p><a href="/about">About</a></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := repo.NewMemoryStore()
	repos := store.Repositories()
	ctx := context.Background()

	site, err := repos.Sites.Create(ctx, "example.test", srv.URL+"/")
	if err != nil {
		t.Fatalf("Sites.Create: %v", err)
	}

	// Pre-seed the about page as if a prior partial run already persisted it.
	if _, err := repos.Pages.Upsert(ctx, model.Page{SiteID: site.ID, URL: srv.URL + "/about"}); err != nil {
		t.Fatalf("Pages.Upsert: %v", err)
	}

	job, err := repos.Jobs.Create(ctx, site.ID, model.CrawlJobConfig{MaxDepth: 1, MaxPages: 10, MaxConcurrent: 4, RateLimitRPS: 100})
	if err != nil {
		t.Fatalf("Jobs.Create: %v", err)
	}

	driver := New(repos, model.DefaultWeights())
	cfg := crawler.Config{
		MaxDepth:       1,
		MaxPages:       10,
		MaxConcurrent:  4,
		RateLimitRPS:   100,
		UserAgent:      "testbot",
		RequestTimeout: 5 * time.Second,
		MaxRetries:     1,
	}

	if err := driver.Run(ctx, *site, *job, cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if aboutHits != 0 {
		t.Errorf("about page was fetched %d times, want 0 (should be skipped as already persisted)", aboutHits)
	}
}

func wordsRepeated(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "content "
	}
	return s
}
