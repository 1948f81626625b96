package model

import "time"

// JobStatus is the crawl job's lifecycle state.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobPaused    JobStatus = "paused"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// IsTerminal reports whether the status has no further transitions.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	default:
		return false
	}
}

// CrawlJobConfig is the per-job crawl configuration.
type CrawlJobConfig struct {
	MaxDepth       int     `json:"max_depth" mapstructure:"max_depth"`
	MaxPages       int     `json:"max_pages" mapstructure:"max_pages"`
	MaxConcurrent  int     `json:"max_concurrent" mapstructure:"max_concurrent"`
	RateLimitRPS   float64 `json:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	UseJSRendering bool    `json:"use_js_rendering" mapstructure:"use_js_rendering"`
	RespectRobots  bool    `json:"respect_robots" mapstructure:"respect_robots"`
	UserAgent      string  `json:"user_agent" mapstructure:"user_agent"`
	RequestTimeout int     `json:"request_timeout" mapstructure:"request_timeout"`
	MaxRetries     int     `json:"max_retries" mapstructure:"max_retries"`
	JSRenderTimeMs int     `json:"js_render_timeout_ms" mapstructure:"js_render_timeout_ms"`
}

// Validate rejects structurally impossible configuration.
func (c CrawlJobConfig) Validate() error {
	if c.MaxDepth < 0 {
		return errInvalidConfig("max_depth must be >= 0")
	}
	if c.MaxPages <= 0 {
		return errInvalidConfig("max_pages must be > 0")
	}
	if c.MaxConcurrent <= 0 {
		return errInvalidConfig("max_concurrent must be > 0")
	}
	if c.RateLimitRPS <= 0 {
		return errInvalidConfig("rate_limit_rps must be > 0")
	}
	return nil
}

type configError string

func (e configError) Error() string { return string(e) }

func errInvalidConfig(msg string) error { return configError(msg) }

// CrawlJob tracks one crawl's execution and progress.
type CrawlJob struct {
	ID            string         `json:"id"`
	SiteID        string         `json:"site_id"`
	Status        JobStatus      `json:"status"`
	Config        CrawlJobConfig `json:"config"`
	PagesCrawled  int            `json:"pages_crawled"`
	PagesFailed   int            `json:"pages_failed"`
	PagesQueued   int            `json:"pages_queued"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   time.Time      `json:"completed_at"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// MaxErrorMessageLen bounds a persisted failure message.
const MaxErrorMessageLen = 2000
