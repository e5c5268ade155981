package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"REDDIT_CLIENT_ID", "REDDIT_CLIENT_SECRET", "REDDIT_USER_AGENT",
		"REQUEST_DELAY", "LOG_LEVEL", "SAVE_API_BASE_URL",
		"BOOKCRAWL_BACKUP_DIR", "BOOKCRAWL_DB_PATH", "BOOKCRAWL_SEEDS", "PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.RedditUserAgent != "BookRecommendationBot/1.0" {
		t.Errorf("RedditUserAgent = %q", cfg.RedditUserAgent)
	}
	if cfg.RequestDelay != time.Second {
		t.Errorf("RequestDelay = %v, want 1s default", cfg.RequestDelay)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.SaveAPIBaseURL != "" {
		t.Errorf("SaveAPIBaseURL = %q, want empty", cfg.SaveAPIBaseURL)
	}
}

func TestRequestDelayParsing(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"2", 2 * time.Second},
		{"0.5", 500 * time.Millisecond},
		{"0", 0},
		{"nonsense", time.Second},
		{"-3", time.Second},
	}
	for _, tc := range cases {
		t.Setenv("REQUEST_DELAY", tc.raw)
		if got := delayFromEnv(); got != tc.want {
			t.Errorf("REQUEST_DELAY=%q -> %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestDBPathOverride(t *testing.T) {
	t.Setenv("BOOKCRAWL_DB_PATH", "/tmp/override.db")
	cfg := Load()
	if cfg.DBPath != "/tmp/override.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}
