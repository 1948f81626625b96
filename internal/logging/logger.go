// Package logging wires the process-wide zerolog logger: a colored console
// writer plus two rotated files (main + error-only), matching FilteredWriter
// semantics by level rather than by writer.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// L is the process-wide logger, set by Init.
var L zerolog.Logger

// Config controls log level, rotation, and destinations.
type Config struct {
	Level      string // trace, debug, info, warn, error, fatal, panic
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Console    bool
}

// Default returns sane defaults for a CLI run.
func Default() Config {
	return Config{
		Level:      "info",
		Dir:        "logs",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
		Console:    true,
	}
}

// Init configures the global logger from cfg.
func Init(cfg Config) error {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	mainLog := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "crawler.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	errorLog := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, "crawler_error.log"),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}

	writers := []io.Writer{mainLog, levelFilter{w: errorLog, min: zerolog.ErrorLevel}}
	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	L = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	log.Logger = L

	L.Info().Str("level", cfg.Level).Str("dir", cfg.Dir).Msg("logging initialized")
	return nil
}

// levelFilter only forwards writes whose parsed zerolog level meets min.
// zerolog's io.Writer contract gives us the rendered line, not the level, so
// WriteLevel (called by zerolog's multi-level writer path) is what actually
// filters; Write is a passthrough for writers that don't support levels.
type levelFilter struct {
	w   io.Writer
	min zerolog.Level
}

func (f levelFilter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f levelFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < f.min {
		return len(p), nil
	}
	return f.w.Write(p)
}
