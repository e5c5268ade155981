package crawler

import (
	"context"

	"go.uber.org/zap"

	"bookcrawl/pkg/models"
)

// Enricher overlays review-source fields onto catalog records.
type Enricher struct {
	Reviews ReviewSource
	Log     *zap.Logger
}

func NewEnricher(reviews ReviewSource, log *zap.Logger) *Enricher {
	return &Enricher{Reviews: reviews, Log: log}
}

// Enrich searches the review source for base's title/author and merges what
// it finds (enriching fields overwrite on collision, empty fields never
// clobber). When the search result carries a detail-page reference, the
// details are fetched and merged the same way. Each step is independently
// fault-tolerant: a failure is logged and leaves the record as merged so
// far — the caller always gets a usable record back.
func (e *Enricher) Enrich(ctx context.Context, base *models.BookRecord) *models.BookRecord {
	merged := base.Clone()
	if merged == nil {
		return nil
	}

	found, err := e.Reviews.Search(ctx, merged.Title, merged.Author)
	if err != nil {
		e.Log.Warn("review-source search failed",
			zap.String("title", merged.Title),
			zap.Error(err),
		)
		return merged
	}
	if found == nil {
		return merged
	}
	merged.Merge(found)

	if merged.ReviewURL == "" {
		return merged
	}
	details, err := e.Reviews.GetDetails(ctx, merged.ReviewURL)
	if err != nil {
		e.Log.Warn("review-source details failed",
			zap.String("url", merged.ReviewURL),
			zap.Error(err),
		)
		return merged
	}
	merged.Merge(details)
	return merged
}
