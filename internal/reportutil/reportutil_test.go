package reportutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Pavankona715/seo-crawler/internal/model"
)

func TestWriterWriteCreatesReportFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	report := Report{
		Site: model.Site{ID: "site-1", Domain: "example.test"},
		Job:  model.CrawlJob{ID: "job-1", Status: model.JobCompleted},
		Issues: []model.Issue{
			{ID: "issue-1", Title: "Missing title"},
		},
		Keywords: []model.Keyword{
			{ID: "kw-1", Keyword: "example keyword"},
		},
		GeneratedAt: time.Unix(0, 0).UTC(),
	}

	outDir, err := w.Write(report)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if outDir != filepath.Join(dir, "example.test") {
		t.Errorf("outDir = %q, want %q", outDir, filepath.Join(dir, "example.test"))
	}

	for _, name := range []string{"report.json", "issues.json", "keywords.json"} {
		path := filepath.Join(outDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	var reread Report
	data, err := os.ReadFile(filepath.Join(outDir, "report.json"))
	if err != nil {
		t.Fatalf("read report.json: %v", err)
	}
	if err := json.Unmarshal(data, &reread); err != nil {
		t.Fatalf("unmarshal report.json: %v", err)
	}
	if reread.Site.Domain != "example.test" {
		t.Errorf("reread domain = %q, want example.test", reread.Site.Domain)
	}
	if len(reread.Issues) != 1 || reread.Issues[0].Title != "Missing title" {
		t.Errorf("reread issues mismatch: %+v", reread.Issues)
	}
}

func TestNewProgressBarDoesNotPanic(t *testing.T) {
	bar := NewProgressBar(10, "crawling")
	if bar == nil {
		t.Fatal("NewProgressBar returned nil")
	}
	_ = bar.Add(1)
}
