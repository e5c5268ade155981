package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookcrawl/internal/api"
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

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	seeds, err := curated.LoadSeeds(cfg.SeedsPath)
	if err != nil {
		return fmt.Errorf("seeds: %w", err)
	}

	db := database.MustOpen(database.Config{Path: cfg.DBPath})
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}
	st := store.New(db)

	catalog := gutenberg.NewClient(log, cfg.RedditUserAgent, cfg.RequestDelay)
	reviews := openlibrary.NewClient(log, cfg.RedditUserAgent, cfg.RequestDelay)
	discussions := reddit.NewClient(log, cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)

	matcher := crawler.NewMatcher(catalog, log)
	enricher := crawler.NewEnricher(reviews, log)
	builder := curated.NewBuilder(matcher, enricher, seeds, log)
	saver := crawler.NewSaver(cfg.SaveAPIBaseURL, cfg.BackupDir, log)
	orch := crawler.NewOrchestrator(catalog, discussions, matcher, enricher,
		builder, saver, st, log, cfg.RequestDelay)

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	sources := api.SourceStatus{
		Gutenberg:   true,
		Reddit:      cfg.RedditClientID != "" && cfg.RedditClientSecret != "",
		OpenLibrary: true,
		SaveAPI:     cfg.SaveAPIBaseURL != "",
	}
	handler := api.NewHandler(orch, st, sources, log)
	handler.RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP API server listening", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
	return nil
}
