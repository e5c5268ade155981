package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"bookcrawl/pkg/database"
)

func main() {
	var (
		booksOut = flag.String("books", "data/books.csv", "output CSV path for book snapshots")
		runsOut  = flag.String("runs", "data/crawl_runs.csv", "output CSV path for crawl run history")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportBooks(ctx, db, *booksOut); err != nil {
		log.Fatalf("export books failed: %v", err)
	}
	if err := exportRuns(ctx, db, *runsOut); err != nil {
		log.Fatalf("export crawl runs failed: %v", err)
	}

	log.Printf("✅ exported books to %s and crawl runs to %s", *booksOut, *runsOut)
}

func exportBooks(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "title", "author", "genres", "rating", "rating_count", "english_level", "recommended_for", "url", "updated_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, title, author, genres, rating, rating_count, english_level, recommended_for, url, updated_at
        FROM books
        ORDER BY title
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id             string
			title          string
			author         sql.NullString
			genres         sql.NullString
			rating         sql.NullFloat64
			ratingCount    sql.NullInt64
			englishLevel   sql.NullString
			recommendedFor sql.NullString
			url            sql.NullString
			updatedAt      sql.NullString
		)

		if err := rows.Scan(&id, &title, &author, &genres, &rating, &ratingCount, &englishLevel, &recommendedFor, &url, &updatedAt); err != nil {
			return err
		}

		ratingStr := ""
		if rating.Valid {
			ratingStr = strconv.FormatFloat(rating.Float64, 'f', 2, 64)
		}
		countStr := ""
		if ratingCount.Valid {
			countStr = strconv.FormatInt(ratingCount.Int64, 10)
		}

		if err := w.Write([]string{
			id,
			title,
			author.String,
			genres.String,
			ratingStr,
			countStr,
			englishLevel.String,
			recommendedFor.String,
			url.String,
			updatedAt.String,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportRuns(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "mode", "status", "books_count", "reddit_items", "error", "backup_file", "started_at", "finished_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, mode, status, books_count, reddit_items, COALESCE(error, ''), COALESCE(backup_file, ''), started_at, COALESCE(finished_at, '')
        FROM crawl_runs
        ORDER BY started_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          string
			mode        string
			status      string
			booksCount  int64
			redditItems int64
			runErr      string
			backupFile  string
			startedAt   string
			finishedAt  string
		)

		if err := rows.Scan(&id, &mode, &status, &booksCount, &redditItems, &runErr, &backupFile, &startedAt, &finishedAt); err != nil {
			return err
		}

		if err := w.Write([]string{
			id,
			mode,
			status,
			strconv.FormatInt(booksCount, 10),
			strconv.FormatInt(redditItems, 10),
			runErr,
			backupFile,
			startedAt,
			finishedAt,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
