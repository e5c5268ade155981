package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the crawler reads from the environment.
// A .env file in the working directory is honored when present.
type Config struct {
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string

	RequestDelay time.Duration // pacing between requests to a single source
	LogLevel     string

	SaveAPIBaseURL string // remote save API; empty means every run falls back to local backup
	BackupDir      string
	DBPath         string
	SeedsPath      string
	Port           string
}

// Load reads the environment (after a best-effort .env load) and applies
// defaults. It never fails: missing credentials only disable the
// discussion source at call time.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditUserAgent:    getenv("REDDIT_USER_AGENT", "BookRecommendationBot/1.0"),
		RequestDelay:       delayFromEnv(),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		SaveAPIBaseURL:     os.Getenv("SAVE_API_BASE_URL"),
		BackupDir:          getenv("BOOKCRAWL_BACKUP_DIR", "."),
		DBPath:             defaultDBPath(),
		SeedsPath:          getenv("BOOKCRAWL_SEEDS", filepath.Join("config", "seeds.yaml")),
		Port:               getenv("PORT", "8080"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// delayFromEnv parses REQUEST_DELAY as seconds; malformed or negative
// values fall back to the 1s default.
func delayFromEnv() time.Duration {
	raw := os.Getenv("REQUEST_DELAY")
	if raw == "" {
		return time.Second
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || secs < 0 {
		return time.Second
	}
	return time.Duration(secs * float64(time.Second))
}

func defaultDBPath() string {
	if p := os.Getenv("BOOKCRAWL_DB_PATH"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".bookcrawl", "data.db")
}
