package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Crawl.MaxConcurrent != 20 {
		t.Errorf("MaxConcurrent = %d, want 20", cfg.Crawl.MaxConcurrent)
	}
	if cfg.Crawl.UserAgent == "" {
		t.Error("expected default user agent")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("crawl:\n  max_depth: 7\n"), 0o644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Crawl.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d, want 7", cfg.Crawl.MaxDepth)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(dir)

	os.Setenv("CRAWLER_MAX_DEPTH", "9")
	defer os.Unsetenv("CRAWLER_MAX_DEPTH")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Crawl.MaxDepth != 9 {
		t.Errorf("MaxDepth = %d, want 9 (from env)", cfg.Crawl.MaxDepth)
	}
}

func TestScoreConfigValidateRejectsBadSum(t *testing.T) {
	s := ScoreConfig{TechnicalWeight: 0.5, ContentWeight: 0.5, AuthorityWeight: 0.5}
	if err := s.Validate(); err == nil {
		t.Error("expected error for weights summing to 1.5")
	}
}

func TestResourceConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		r    ResourceConfig
		ok   bool
	}{
		{"valid", ResourceConfig{SafetyReserveMemoryMB: 512, CPULoadThresholdPct: 80, MaxBrowserTabs: 8}, true},
		{"low memory", ResourceConfig{SafetyReserveMemoryMB: 10, CPULoadThresholdPct: 80, MaxBrowserTabs: 8}, false},
		{"bad cpu", ResourceConfig{SafetyReserveMemoryMB: 512, CPULoadThresholdPct: 0, MaxBrowserTabs: 8}, false},
		{"too many tabs", ResourceConfig{SafetyReserveMemoryMB: 512, CPULoadThresholdPct: 80, MaxBrowserTabs: 99}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.r.Validate()
			if (err == nil) != c.ok {
				t.Errorf("Validate() err=%v, want ok=%v", err, c.ok)
			}
		})
	}
}
