// Package store keeps a local sqlite snapshot of crawled books and a
// history of crawl runs. It is supplementary bookkeeping: the persistence
// contract is the remote save API, and every write here is best-effort.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookcrawl/pkg/models"
)

type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

// SnapshotBooks upserts the given records into the books table. Records
// without an ID are skipped — there is nothing stable to key them on.
func (s *Store) SnapshotBooks(ctx context.Context, books []models.BookRecord) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (id, title, author, genres, rating, rating_count,
		                   english_level, recommended_for, description, url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  author = excluded.author,
		  genres = excluded.genres,
		  rating = excluded.rating,
		  rating_count = excluded.rating_count,
		  english_level = excluded.english_level,
		  recommended_for = excluded.recommended_for,
		  description = excluded.description,
		  url = excluded.url,
		  updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, b := range books {
		if b.ID == "" {
			continue
		}
		genresJSON, err := json.Marshal(b.Genres)
		if err != nil {
			return fmt.Errorf("marshal genres for %s: %w", b.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			b.ID, b.Title, b.Author, string(genresJSON), b.Rating, b.RatingCount,
			b.EnglishLevel, b.RecommendedFor, b.Description, b.URL, now,
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// CrawlRun is one row of run history.
type CrawlRun struct {
	ID          string `json:"id"`
	Mode        string `json:"mode"`
	Status      string `json:"status"`
	BooksCount  int    `json:"books_count"`
	RedditItems int    `json:"reddit_items"`
	Error       string `json:"error,omitempty"`
	BackupFile  string `json:"backup_file,omitempty"`
	StartedAt   string `json:"started_at"`
	FinishedAt  string `json:"finished_at,omitempty"`
}

// StartRun records a new running entry and returns its ID.
func (s *Store) StartRun(ctx context.Context, mode string) (string, error) {
	id := uuid.NewString()
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO crawl_runs (id, mode, status, started_at)
		VALUES (?, ?, 'running', ?)
	`, id, mode, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun closes a run entry with its outcome.
func (s *Store) FinishRun(ctx context.Context, run CrawlRun) error {
	status := "success"
	if run.Error != "" {
		status = "failed"
	}
	_, err := s.DB.ExecContext(ctx, `
		UPDATE crawl_runs
		SET status = ?, books_count = ?, reddit_items = ?, error = ?, backup_file = ?, finished_at = ?
		WHERE id = ?
	`, status, run.BooksCount, run.RedditItems, run.Error, run.BackupFile,
		time.Now().UTC().Format(time.RFC3339), run.ID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// RecentRuns returns the latest n runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, n int) ([]CrawlRun, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, mode, status, books_count, reddit_items,
		       COALESCE(error, ''), COALESCE(backup_file, ''),
		       started_at, COALESCE(finished_at, '')
		FROM crawl_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []CrawlRun
	for rows.Next() {
		var r CrawlRun
		if err := rows.Scan(&r.ID, &r.Mode, &r.Status, &r.BooksCount, &r.RedditItems,
			&r.Error, &r.BackupFile, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// BookCount reports how many books the snapshot currently holds.
func (s *Store) BookCount(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}
