package curated

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookcrawl/pkg/models"
)

const (
	levelListCap         = 10
	transcriptionListCap = 12

	todayPickSize = 3
)

// BookFinder locates a seed's book in the catalog.
type BookFinder interface {
	FindBook(ctx context.Context, title, author string) (*models.BookRecord, error)
}

// BookEnricher overlays review-source fields onto a found record.
type BookEnricher interface {
	Enrich(ctx context.Context, base *models.BookRecord) *models.BookRecord
}

// Builder drives finder and enricher across the seed tables. It keeps no
// state beyond the tables themselves.
type Builder struct {
	Finder   BookFinder
	Enricher BookEnricher
	Seeds    *Seeds
	Log      *zap.Logger
}

func NewBuilder(finder BookFinder, enricher BookEnricher, seeds *Seeds, log *zap.Logger) *Builder {
	return &Builder{Finder: finder, Enricher: enricher, Seeds: seeds, Log: log}
}

// ByEnglishLevel builds one recommendation list per reading level. Seeds
// that fail to match or error are logged and skipped; a level stops
// growing at ten books. Every returned record carries its level tag.
func (b *Builder) ByEnglishLevel(ctx context.Context) map[string][]models.BookRecord {
	recommendations := make(map[string][]models.BookRecord, len(Levels))

	for _, level := range Levels {
		b.Log.Info("building level list", zap.String("level", level))
		recommendations[level] = []models.BookRecord{}

		for _, seed := range b.Seeds.EnglishLevels[level] {
			book := b.findAndEnrich(ctx, seed)
			if book == nil {
				continue
			}
			book.EnglishLevel = level
			book.RecommendedFor = level + " English learners"

			recommendations[level] = append(recommendations[level], *book)
			if len(recommendations[level]) >= levelListCap {
				break
			}
		}
		b.Log.Info("level list built",
			zap.String("level", level),
			zap.Int("books", len(recommendations[level])),
		)
	}
	return recommendations
}

// TranscriptionList builds the transcription-practice list: at most twelve
// books, each annotated with its seed's style note and a difficulty tier.
func (b *Builder) TranscriptionList(ctx context.Context) []models.BookRecord {
	books := []models.BookRecord{}

	for _, seed := range b.Seeds.Transcription {
		book := b.findAndEnrich(ctx, seed)
		if book == nil {
			continue
		}
		book.RecommendedFor = "transcription practice"
		book.WritingStyle = seed.Style
		// Tier lookup uses the seed's author, not the matched record's:
		// the catalog writes authors "Last, First" while the tier lists
		// hold natural-order names.
		book.Difficulty = b.difficultyFor(seed.Author)

		books = append(books, *book)
		if len(books) >= transcriptionListCap {
			break
		}
	}

	b.Log.Info("transcription list built", zap.Int("books", len(books)))
	return books
}

// findAndEnrich runs one seed through the match+enrich pipeline. Any
// failure yields nil so the caller can skip and continue.
func (b *Builder) findAndEnrich(ctx context.Context, seed models.SeedEntry) *models.BookRecord {
	book, err := b.Finder.FindBook(ctx, seed.Title, seed.Author)
	if err != nil {
		b.Log.Warn("seed lookup failed",
			zap.String("title", seed.Title),
			zap.String("author", seed.Author),
			zap.Error(err),
		)
		return nil
	}
	if book == nil {
		b.Log.Debug("seed not found in catalog", zap.String("title", seed.Title))
		return nil
	}
	return b.Enricher.Enrich(ctx, book)
}

// difficultyFor classifies an author by tier membership (substring match,
// case-insensitive). Unknown authors are medium.
func (b *Builder) difficultyFor(author string) string {
	lower := strings.ToLower(author)
	for _, name := range b.Seeds.DifficultyTiers.Easy {
		if strings.Contains(lower, strings.ToLower(name)) {
			return "easy"
		}
	}
	for _, name := range b.Seeds.DifficultyTiers.Hard {
		if strings.Contains(lower, strings.ToLower(name)) {
			return "hard"
		}
	}
	return "medium"
}

// DailyRecommendationsAt composes the full curated collections and the
// day's picks. The pick sampler is seeded with now's day-of-month, so two
// calls on the same calendar day select identical picks; the caller
// injects now, which keeps tests on any seed they like.
func (b *Builder) DailyRecommendationsAt(ctx context.Context, now time.Time) *models.DailyRecommendationSet {
	levelBooks := b.ByEnglishLevel(ctx)
	transcription := b.TranscriptionList(ctx)

	rng := rand.New(rand.NewSource(int64(now.Day())))

	picks := make(map[string][]models.BookRecord, len(Levels)+1)
	for _, level := range Levels {
		picks[level] = sample(rng, levelBooks[level], todayPickSize)
	}
	picks["transcription"] = sample(rng, transcription, todayPickSize)

	return &models.DailyRecommendationSet{
		TodayPicks: picks,
		AllRecommendations: models.AllRecommendations{
			EnglishLevels: levelBooks,
			Transcription: transcription,
		},
		GeneratedAt: now.Format(time.RFC3339),
		NextUpdate:  nextUpdateAt(now).Format(time.RFC3339),
	}
}

// sample picks up to n distinct items in the order the generator permutes
// them.
func sample(rng *rand.Rand, items []models.BookRecord, n int) []models.BookRecord {
	if n > len(items) {
		n = len(items)
	}
	out := make([]models.BookRecord, 0, n)
	for _, idx := range rng.Perm(len(items))[:n] {
		out = append(out, items[idx])
	}
	return out
}

// nextUpdateAt returns the next 02:00 boundary: today's if now is before
// it, otherwise tomorrow's.
func nextUpdateAt(now time.Time) time.Time {
	anchor := time.Date(now.Year(), now.Month(), now.Day(), 2, 0, 0, 0, now.Location())
	if now.Before(anchor) {
		return anchor
	}
	return anchor.AddDate(0, 0, 1)
}

// FeaturedQuotes matches the quote table's title fragments against the
// given books (case-insensitive substring) and returns one entry per
// matching book x quote pair.
func (b *Builder) FeaturedQuotes(books []models.BookRecord) []models.FeaturedQuote {
	quotes := []models.FeaturedQuote{}

	for _, book := range books {
		title := strings.ToLower(book.Title)
		for fragment, lines := range b.Seeds.Quotes {
			if !strings.Contains(title, strings.ToLower(fragment)) {
				continue
			}
			for _, line := range lines {
				quotes = append(quotes, models.FeaturedQuote{
					BookTitle: book.Title,
					Author:    book.Author,
					Quote:     line,
					BookID:    book.ID,
				})
			}
		}
	}
	return quotes
}
