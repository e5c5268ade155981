package crawler

import (
	"context"
	"fmt"

	"bookcrawl/pkg/models"
)

// fakeCatalog serves canned listing pages keyed by page number and details
// keyed by ID.
type fakeCatalog struct {
	pages       map[int][]models.BookRecord
	details     map[string]*models.BookRecord
	pageErrs    map[int]error
	detailsErrs map[string]error
	listCalls   int
	detailCalls int
}

func (f *fakeCatalog) ListPage(ctx context.Context, page int) ([]models.BookRecord, error) {
	f.listCalls++
	if err := f.pageErrs[page]; err != nil {
		return nil, err
	}
	return f.pages[page], nil
}

func (f *fakeCatalog) GetDetails(ctx context.Context, id string) (*models.BookRecord, error) {
	f.detailCalls++
	if err := f.detailsErrs[id]; err != nil {
		return nil, err
	}
	return f.details[id], nil
}

// fakeReviews serves canned search results keyed by lowercase title.
type fakeReviews struct {
	byTitle    map[string]*models.BookRecord
	details    map[string]*models.BookRecord
	searchErr  error
	detailsErr error
}

func (f *fakeReviews) Search(ctx context.Context, title, author string) (*models.BookRecord, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.byTitle[title], nil
}

func (f *fakeReviews) GetDetails(ctx context.Context, reviewURL string) (*models.BookRecord, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return f.details[reviewURL], nil
}

// fakeReddit returns fixed discussion data.
type fakeReddit struct {
	recs     []models.DiscussionItem
	reviews  []models.DiscussionItem
	trending []models.TrendingMention

	recsErr     error
	reviewsErr  error
	trendingErr error

	reviewTitles []string
}

func (f *fakeReddit) GetBookRecommendations(ctx context.Context, limit int) ([]models.DiscussionItem, error) {
	if f.recsErr != nil {
		return nil, f.recsErr
	}
	return f.recs, nil
}

func (f *fakeReddit) GetBookReviews(ctx context.Context, title, author string, limit int) ([]models.DiscussionItem, error) {
	f.reviewTitles = append(f.reviewTitles, title)
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	return f.reviews, nil
}

func (f *fakeReddit) GetTrendingBooks(ctx context.Context, limit int) ([]models.TrendingMention, error) {
	if f.trendingErr != nil {
		return nil, f.trendingErr
	}
	return f.trending, nil
}

func book(id, title, author string) models.BookRecord {
	return models.BookRecord{ID: id, Title: title, Author: author}
}

var errBoom = fmt.Errorf("boom")
