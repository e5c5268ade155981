// Package main provides the crawl CLI: one-shot full, incremental, or
// daily runs from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookcrawl/internal/crawler"
	"bookcrawl/internal/curated"
	"bookcrawl/internal/source/gutenberg"
	"bookcrawl/internal/source/openlibrary"
	"bookcrawl/internal/source/reddit"
	"bookcrawl/internal/store"
	"bookcrawl/pkg/config"
	"bookcrawl/pkg/database"
	"bookcrawl/pkg/logger"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "crawler [full|incremental|daily]",
		Short:   "Crawl book sources and build recommendation data",
		Long:    "Crawler gathers public-domain book metadata, community discussions, and ratings, then persists the combined result. Without an argument the daily update runs.",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := "daily"
			if len(args) == 1 {
				mode = args[0]
			}
			return runMode(cmd.Context(), mode)
		},
	}
	rootCmd.SetVersionTemplate("crawler version {{.Version}}\n")
	return rootCmd
}

func runMode(ctx context.Context, mode string) error {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	orch, cleanup, err := buildOrchestrator(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	switch mode {
	case "full":
		return orch.RunFull(ctx)
	case "incremental":
		return orch.RunIncremental(ctx)
	case "daily":
		return orch.RunDaily(ctx)
	default:
		return fmt.Errorf("unknown mode %q: must be 'full', 'incremental' or 'daily'", mode)
	}
}

// buildOrchestrator wires the sources, matcher, enricher, builder, and
// saver from config. The local store is best-effort: a failing database
// open disables run history but never blocks a crawl.
func buildOrchestrator(cfg config.Config, log *zap.Logger) (*crawler.Orchestrator, func(), error) {
	seeds, err := curated.LoadSeeds(cfg.SeedsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("seeds: %w", err)
	}

	catalog := gutenberg.NewClient(log, cfg.RedditUserAgent, cfg.RequestDelay)
	reviews := openlibrary.NewClient(log, cfg.RedditUserAgent, cfg.RequestDelay)
	discussions := reddit.NewClient(log, cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)

	matcher := crawler.NewMatcher(catalog, log)
	enricher := crawler.NewEnricher(reviews, log)
	builder := curated.NewBuilder(matcher, enricher, seeds, log)
	saver := crawler.NewSaver(cfg.SaveAPIBaseURL, cfg.BackupDir, log)

	var st *store.Store
	cleanup := func() {}
	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Warn("local store unavailable", zap.Error(err))
	} else if err := database.Migrate(db); err != nil {
		log.Warn("local store migration failed", zap.Error(err))
		db.Close()
	} else {
		st = store.New(db)
		cleanup = func() { db.Close() }
	}

	orch := crawler.NewOrchestrator(catalog, discussions, matcher, enricher,
		builder, saver, st, log, cfg.RequestDelay)
	return orch, cleanup, nil
}
