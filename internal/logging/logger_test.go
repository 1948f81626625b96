package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInit(t *testing.T) {
	tempDir := t.TempDir()

	cfg := Config{
		Level:      "debug",
		Dir:        tempDir,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}

	if err := Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		t.Errorf("log dir not created: %s", tempDir)
	}

	L.Info().Msg("info test")
	L.Warn().Msg("warn test")
	L.Debug().Msg("debug test")

	time.Sleep(50 * time.Millisecond)

	mainLogPath := filepath.Join(tempDir, "crawler.log")
	if _, err := os.Stat(mainLogPath); os.IsNotExist(err) {
		t.Errorf("main log file not created: %s", mainLogPath)
	}
}

func TestErrorLogIsolatesBySeverity(t *testing.T) {
	tempDir := t.TempDir()

	cfg := Default()
	cfg.Dir = tempDir
	cfg.Console = false
	if err := Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	L.Info().Msg("should not reach error log")
	L.Error().Msg("should reach error log")

	time.Sleep(50 * time.Millisecond)

	errLog, err := os.ReadFile(filepath.Join(tempDir, "crawler_error.log"))
	if err != nil {
		t.Fatalf("read error log: %v", err)
	}
	if len(errLog) == 0 {
		t.Fatal("error log is empty, expected the error-level line")
	}
	if bytes.Contains(errLog, []byte("should not reach error log")) {
		t.Error("info-level line reached the error log")
	}

	mainLog, err := os.ReadFile(filepath.Join(tempDir, "crawler.log"))
	if err != nil {
		t.Fatalf("read main log: %v", err)
	}
	if len(mainLog) == 0 {
		t.Fatal("main log is empty")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %s", cfg.Level)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected default max backups 3, got %d", cfg.MaxBackups)
	}
	if !cfg.Compress {
		t.Error("expected compression on by default")
	}
}
