package crawler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bookcrawl/internal/curated"
	"bookcrawl/internal/store"
	"bookcrawl/pkg/models"
)

const (
	fullCrawlPages    = 5
	fullEnrichLimit   = 50
	incrementalEnrich = 10

	recommendationLimit = 50
	trendingLimit       = 30
	reviewsPerClassic   = 10
)

// classicBooks are the titles whose discussion-site reviews every crawl
// gathers.
var classicBooks = []models.SeedEntry{
	{Title: "Pride and Prejudice", Author: "Jane Austen"},
	{Title: "Alice's Adventures in Wonderland", Author: "Lewis Carroll"},
	{Title: "The Adventures of Tom Sawyer", Author: "Mark Twain"},
	{Title: "Dracula", Author: "Bram Stoker"},
	{Title: "Frankenstein", Author: "Mary Shelley"},
}

// Orchestrator sequences the run modes. Everything runs synchronously, one
// network call at a time; per-source pacing lives inside the clients and an
// extra delay separates the per-classic review searches.
type Orchestrator struct {
	Catalog  CatalogSource
	Reddit   DiscussionSource
	Matcher  *Matcher
	Enricher *Enricher
	Builder  *curated.Builder
	Saver    *Saver
	Store    *store.Store // optional local bookkeeping
	Log      *zap.Logger
	Pace     time.Duration

	// now is swappable in tests.
	now func() time.Time
}

func NewOrchestrator(catalog CatalogSource, reddit DiscussionSource, matcher *Matcher,
	enricher *Enricher, builder *curated.Builder, saver *Saver, st *store.Store,
	log *zap.Logger, pace time.Duration) *Orchestrator {
	return &Orchestrator{
		Catalog:  catalog,
		Reddit:   reddit,
		Matcher:  matcher,
		Enricher: enricher,
		Builder:  builder,
		Saver:    saver,
		Store:    st,
		Log:      log,
		Pace:     pace,
		now:      time.Now,
	}
}

// RunFull executes a full crawl: five catalog pages with per-item details,
// the complete discussion-source gathering, review-source enrichment of
// the first fifty books, then persistence.
func (o *Orchestrator) RunFull(ctx context.Context) error {
	o.Log.Info("full crawl started")
	runID := o.startRun(ctx, "full")

	books := o.crawlCatalog(ctx, fullCrawlPages, true)
	reddit := o.gatherRedditData(ctx)
	books = o.enrichBooks(ctx, books, fullEnrichLimit)

	result, err := o.Saver.SaveCrawledData(ctx, books, reddit)
	o.finishRun(ctx, runID, len(books), reddit.ItemCount(), result, err)
	o.snapshot(ctx, books)
	if err != nil {
		return fmt.Errorf("full crawl: %w", err)
	}

	o.Log.Info("full crawl finished",
		zap.Int("books", len(books)),
		zap.Int("redditItems", reddit.ItemCount()),
	)
	return nil
}

// RunIncremental executes an incremental crawl: the discussion-source
// gathering plus catalog page one only, enriching just the first ten books.
func (o *Orchestrator) RunIncremental(ctx context.Context) error {
	o.Log.Info("incremental crawl started")
	runID := o.startRun(ctx, "incremental")

	reddit := o.gatherRedditData(ctx)
	books := o.crawlCatalog(ctx, 1, false)
	books = o.enrichBooks(ctx, books, incrementalEnrich)

	result, err := o.Saver.SaveCrawledData(ctx, books, reddit)
	o.finishRun(ctx, runID, len(books), reddit.ItemCount(), result, err)
	o.snapshot(ctx, books)
	if err != nil {
		return fmt.Errorf("incremental crawl: %w", err)
	}

	o.Log.Info("incremental crawl finished", zap.Int("books", len(books)))
	return nil
}

// RunDaily builds the daily recommendation set, annotates it with featured
// quotes, and persists it.
func (o *Orchestrator) RunDaily(ctx context.Context) error {
	o.Log.Info("daily update started")
	runID := o.startRun(ctx, "daily")

	recs := o.Builder.DailyRecommendationsAt(ctx, o.now())
	allBooks := recs.Flatten()
	recs.FeaturedQuotes = o.Builder.FeaturedQuotes(allBooks)

	result, err := o.Saver.SaveDailyRecommendations(ctx, recs)
	o.finishRun(ctx, runID, len(allBooks), 0, result, err)
	o.snapshot(ctx, allBooks)
	if err != nil {
		return fmt.Errorf("daily update: %w", err)
	}

	o.Log.Info("daily update finished",
		zap.Int("books", len(allBooks)),
		zap.Int("quotes", len(recs.FeaturedQuotes)),
	)
	return nil
}

// crawlCatalog pages through the catalog listing. A failing page is logged
// and skipped; with details enabled each item's detail record is merged in,
// and a failing detail fetch keeps the listing record.
func (o *Orchestrator) crawlCatalog(ctx context.Context, maxPages int, withDetails bool) []models.BookRecord {
	var all []models.BookRecord

	for page := 1; page <= maxPages; page++ {
		books, err := o.Catalog.ListPage(ctx, page)
		if err != nil {
			o.Log.Error("catalog page failed", zap.Int("page", page), zap.Error(err))
			continue
		}

		for i := range books {
			if withDetails && books[i].ID != "" {
				details, err := o.Catalog.GetDetails(ctx, books[i].ID)
				if err != nil {
					o.Log.Warn("catalog details failed",
						zap.String("id", books[i].ID),
						zap.Error(err),
					)
				} else {
					books[i].Merge(details)
				}
			}
			all = append(all, books[i])
		}
		o.Log.Info("catalog page collected", zap.Int("page", page), zap.Int("books", len(books)))
	}
	return all
}

// gatherRedditData collects recommendations, trending mentions, and the
// classic-title reviews. Each gathering step is fault-isolated.
func (o *Orchestrator) gatherRedditData(ctx context.Context) models.RedditData {
	data := models.RedditData{
		Recommendations: []models.DiscussionItem{},
		Reviews:         []models.DiscussionItem{},
		Trending:        []models.TrendingMention{},
	}

	recs, err := o.Reddit.GetBookRecommendations(ctx, recommendationLimit)
	if err != nil {
		o.Log.Error("recommendation gathering failed", zap.Error(err))
	} else {
		data.Recommendations = append(data.Recommendations, recs...)
	}

	trending, err := o.Reddit.GetTrendingBooks(ctx, trendingLimit)
	if err != nil {
		o.Log.Error("trending gathering failed", zap.Error(err))
	} else {
		data.Trending = append(data.Trending, trending...)
	}

	for _, classic := range classicBooks {
		reviews, err := o.Reddit.GetBookReviews(ctx, classic.Title, classic.Author, reviewsPerClassic)
		if err != nil {
			o.Log.Warn("review gathering failed",
				zap.String("title", classic.Title),
				zap.Error(err),
			)
		} else {
			data.Reviews = append(data.Reviews, reviews...)
		}
		o.pace(ctx)
	}

	o.Log.Info("reddit data gathered",
		zap.Int("recommendations", len(data.Recommendations)),
		zap.Int("reviews", len(data.Reviews)),
		zap.Int("trending", len(data.Trending)),
	)
	return data
}

// enrichBooks truncates the crawl to the first limit books and enriches
// them; anything past the limit is dropped, not persisted unenriched.
func (o *Orchestrator) enrichBooks(ctx context.Context, books []models.BookRecord, limit int) []models.BookRecord {
	if len(books) > limit {
		o.Log.Info("truncating crawl to enrichment limit",
			zap.Int("crawled", len(books)),
			zap.Int("kept", limit),
		)
		books = books[:limit]
	}
	out := make([]models.BookRecord, 0, len(books))
	for i := range books {
		out = append(out, *o.Enricher.Enrich(ctx, &books[i]))
	}
	return out
}

// pace sleeps the inter-call delay, waking early on cancellation.
func (o *Orchestrator) pace(ctx context.Context) {
	if o.Pace <= 0 {
		return
	}
	timer := time.NewTimer(o.Pace)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (o *Orchestrator) startRun(ctx context.Context, mode string) string {
	if o.Store == nil {
		return ""
	}
	id, err := o.Store.StartRun(ctx, mode)
	if err != nil {
		o.Log.Warn("run history unavailable", zap.Error(err))
		return ""
	}
	return id
}

func (o *Orchestrator) finishRun(ctx context.Context, runID string, books, redditItems int, result SaveResult, runErr error) {
	if o.Store == nil || runID == "" {
		return
	}
	run := store.CrawlRun{
		ID:          runID,
		BooksCount:  books,
		RedditItems: redditItems,
		BackupFile:  result.BackupFile,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := o.Store.FinishRun(ctx, run); err != nil {
		o.Log.Warn("run history update failed", zap.Error(err))
	}
}

func (o *Orchestrator) snapshot(ctx context.Context, books []models.BookRecord) {
	if o.Store == nil || len(books) == 0 {
		return
	}
	if err := o.Store.SnapshotBooks(ctx, books); err != nil {
		o.Log.Warn("book snapshot failed", zap.Error(err))
	}
}
