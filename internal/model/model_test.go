package model

import "testing"

func TestCrawlJobConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CrawlJobConfig
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: CrawlJobConfig{
				MaxDepth:      3,
				MaxPages:      1000,
				MaxConcurrent: 20,
				RateLimitRPS:  2,
			},
			wantErr: false,
		},
		{
			name:    "negative depth",
			cfg:     CrawlJobConfig{MaxDepth: -1, MaxPages: 10, MaxConcurrent: 1, RateLimitRPS: 1},
			wantErr: true,
		},
		{
			name:    "zero max pages",
			cfg:     CrawlJobConfig{MaxDepth: 1, MaxPages: 0, MaxConcurrent: 1, RateLimitRPS: 1},
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			cfg:     CrawlJobConfig{MaxDepth: 1, MaxPages: 10, MaxConcurrent: 0, RateLimitRPS: 1},
			wantErr: true,
		},
		{
			name:    "zero rate",
			cfg:     CrawlJobConfig{MaxDepth: 1, MaxPages: 10, MaxConcurrent: 1, RateLimitRPS: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJobStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobPending, false},
		{JobRunning, false},
		{JobPaused, false},
		{JobCompleted, true},
		{JobFailed, true},
		{JobCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	w := DefaultWeights()
	sum := w.Technical + w.Content + w.Authority + w.Linking + w.AIVisibility
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("weights sum = %v, want 1.0", sum)
	}
}
