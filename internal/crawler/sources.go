// Package crawler coordinates the external sources: matching catalog books
// against curated targets, enriching records with review-source data, and
// driving the crawl run modes.
package crawler

import (
	"context"

	"bookcrawl/pkg/models"
)

// CatalogSource is the digital-library provider (paginated listing plus a
// detail lookup per book ID).
type CatalogSource interface {
	ListPage(ctx context.Context, page int) ([]models.BookRecord, error)
	GetDetails(ctx context.Context, id string) (*models.BookRecord, error)
}

// ReviewSource is the rating/description provider. Search has first-match
// semantics and returns (nil, nil) when nothing matched; GetDetails follows
// the detail-page reference Search captured.
type ReviewSource interface {
	Search(ctx context.Context, title, author string) (*models.BookRecord, error)
	GetDetails(ctx context.Context, reviewURL string) (*models.BookRecord, error)
}

// DiscussionSource is the social-platform provider.
type DiscussionSource interface {
	GetBookRecommendations(ctx context.Context, limit int) ([]models.DiscussionItem, error)
	GetBookReviews(ctx context.Context, title, author string, limit int) ([]models.DiscussionItem, error)
	GetTrendingBooks(ctx context.Context, limit int) ([]models.TrendingMention, error)
}
