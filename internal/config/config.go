// Package config loads layered configuration (file, environment, defaults)
// for the crawler, scorer weights, logging, and resource limits.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level application configuration.
type Config struct {
	Crawl    CrawlConfig    `mapstructure:"crawl"`
	Score    ScoreConfig    `mapstructure:"score"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Resource ResourceConfig `mapstructure:"resource"`
}

// CrawlConfig controls one crawl job's behavior.
type CrawlConfig struct {
	MaxConcurrent   int     `mapstructure:"max_concurrent"`
	MaxDepth        int     `mapstructure:"max_depth"`
	MaxPages        int     `mapstructure:"max_pages"`
	RequestTimeout  int     `mapstructure:"request_timeout"`
	MaxRetries      int     `mapstructure:"max_retries"`
	UserAgent       string  `mapstructure:"user_agent"`
	RateLimitRPS    float64 `mapstructure:"rate_limit_rps"`
	JSRenderTimeout int     `mapstructure:"js_render_timeout"`
	UseBrowser      bool    `mapstructure:"use_browser"`
	RespectRobots   bool    `mapstructure:"respect_robots"`
}

// ScoreConfig carries the five overall-score weights. They must sum to 1.0.
type ScoreConfig struct {
	TechnicalWeight    float64 `mapstructure:"technical_weight"`
	ContentWeight      float64 `mapstructure:"content_weight"`
	AuthorityWeight    float64 `mapstructure:"authority_weight"`
	LinkingWeight      float64 `mapstructure:"linking_weight"`
	AIVisibilityWeight float64 `mapstructure:"ai_visibility_weight"`
}

// Validate checks the five weights sum to 1.0 within floating tolerance.
func (s ScoreConfig) Validate() error {
	sum := s.TechnicalWeight + s.ContentWeight + s.AuthorityWeight + s.LinkingWeight + s.AIVisibilityWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("score weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// LoggingConfig configures the zerolog-based logger.
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig mirrors lumberjack's rotation knobs.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// ResourceConfig bounds the browser fetcher's concurrency under memory/CPU
// pressure.
type ResourceConfig struct {
	SafetyReserveMemoryMB int `mapstructure:"safety_reserve_memory_mb"`
	CPULoadThresholdPct   int `mapstructure:"cpu_load_threshold_pct"`
	MaxBrowserTabs        int `mapstructure:"max_browser_tabs"`
}

// Validate rejects resource settings outside sane operating ranges.
func (r ResourceConfig) Validate() error {
	if r.SafetyReserveMemoryMB < 128 {
		return fmt.Errorf("safety_reserve_memory_mb must be >= 128, got %d", r.SafetyReserveMemoryMB)
	}
	if r.CPULoadThresholdPct < 10 || r.CPULoadThresholdPct > 100 {
		return fmt.Errorf("cpu_load_threshold_pct must be in [10,100], got %d", r.CPULoadThresholdPct)
	}
	if r.MaxBrowserTabs < 1 || r.MaxBrowserTabs > 32 {
		return fmt.Errorf("max_browser_tabs must be in [1,32], got %d", r.MaxBrowserTabs)
	}
	return nil
}

// Load reads configuration from configPath if given, otherwise searches
// ./configs, ., and ~/.seocrawl for a "config.yaml", falling back to
// defaults and environment overrides when no file is found.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".seocrawl"))
		}
	}

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Score.Validate(); err != nil {
		return nil, fmt.Errorf("score config: %w", err)
	}
	if err := cfg.Resource.Validate(); err != nil {
		return nil, fmt.Errorf("resource config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawl.max_concurrent", 20)
	v.SetDefault("crawl.max_depth", 3)
	v.SetDefault("crawl.max_pages", 500)
	v.SetDefault("crawl.request_timeout", 30)
	v.SetDefault("crawl.max_retries", 3)
	v.SetDefault("crawl.user_agent", "SEOBot/1.0 (+https://example.invalid/bot)")
	v.SetDefault("crawl.rate_limit_rps", 1.0)
	v.SetDefault("crawl.js_render_timeout", 15000)
	v.SetDefault("crawl.use_browser", false)
	v.SetDefault("crawl.respect_robots", true)

	v.SetDefault("score.technical_weight", 0.35)
	v.SetDefault("score.content_weight", 0.30)
	v.SetDefault("score.authority_weight", 0.20)
	v.SetDefault("score.linking_weight", 0.10)
	v.SetDefault("score.ai_visibility_weight", 0.05)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size_mb", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age_days", 28)
	v.SetDefault("logging.rotation.compress", true)

	v.SetDefault("resource.safety_reserve_memory_mb", 1024)
	v.SetDefault("resource.cpu_load_threshold_pct", 80)
	v.SetDefault("resource.max_browser_tabs", 8)
}

// bindEnv wires the enumerated CRAWLER_*/SCORE_* environment variables onto
// the viper keys they override. Viper's automatic env replacer (dots →
// underscores) would produce CRAWL_MAX_CONCURRENT, not CRAWLER_MAX_CONCURRENT,
// so each is bound explicitly.
func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("crawl.max_concurrent", "CRAWLER_MAX_CONCURRENT")
	_ = v.BindEnv("crawl.max_depth", "CRAWLER_MAX_DEPTH")
	_ = v.BindEnv("crawl.request_timeout", "CRAWLER_REQUEST_TIMEOUT")
	_ = v.BindEnv("crawl.max_retries", "CRAWLER_MAX_RETRIES")
	_ = v.BindEnv("crawl.user_agent", "CRAWLER_USER_AGENT")
	_ = v.BindEnv("crawl.rate_limit_rps", "CRAWLER_RATE_LIMIT_RPS")
	_ = v.BindEnv("crawl.js_render_timeout", "CRAWLER_JS_RENDER_TIMEOUT")
	_ = v.BindEnv("score.technical_weight", "SCORE_TECHNICAL_WEIGHT")
	_ = v.BindEnv("score.content_weight", "SCORE_CONTENT_WEIGHT")
	_ = v.BindEnv("score.authority_weight", "SCORE_AUTHORITY_WEIGHT")
	_ = v.BindEnv("score.linking_weight", "SCORE_LINKING_WEIGHT")
	_ = v.BindEnv("score.ai_visibility_weight", "SCORE_AI_VISIBILITY_WEIGHT")
}
