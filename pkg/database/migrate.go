package database

import (
	"database/sql"
	"fmt"
)

// schema is applied on every open; statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT,
  genres TEXT,          -- JSON array as text
  rating REAL,
  rating_count INTEGER,
  english_level TEXT,
  recommended_for TEXT,
  description TEXT,
  url TEXT,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS crawl_runs (
  id TEXT PRIMARY KEY,
  mode TEXT NOT NULL,
  status TEXT NOT NULL,        -- 'running' | 'success' | 'failed'
  books_count INTEGER NOT NULL DEFAULT 0,
  reddit_items INTEGER NOT NULL DEFAULT 0,
  error TEXT,
  backup_file TEXT,
  started_at TEXT NOT NULL,
  finished_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_crawl_runs_started ON crawl_runs(started_at);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
