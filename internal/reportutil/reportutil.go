// Package reportutil writes a completed crawl job's results to disk as a
// JSON report bundle and drives a CLI progress bar while a job runs.
package reportutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Pavankona715/seo-crawler/internal/model"
)

// Report is the on-disk summary of one completed crawl job.
type Report struct {
	Site        model.Site     `json:"site"`
	Job         model.CrawlJob `json:"job"`
	SiteScore   *model.Score   `json:"site_score,omitempty"`
	Issues      []model.Issue  `json:"issues"`
	Keywords    []model.Keyword `json:"keywords"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Writer persists Report bundles under a per-domain directory.
type Writer struct {
	outputDir string
}

// NewWriter builds a Writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// Write serializes report to <outputDir>/<domain>/report.json, plus a
// separate issues.json and keywords.json for callers that only want one
// slice without parsing the full bundle.
func (w *Writer) Write(report Report) (string, error) {
	dir := filepath.Join(w.outputDir, report.Site.Domain)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, "report.json"), report); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, "issues.json"), report.Issues); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, "keywords.json"), report.Keywords); err != nil {
		return "", err
	}

	return dir, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// NewProgressBar builds a CLI progress bar for a crawl job with max pages,
// using a bracketed ASCII theme.
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
