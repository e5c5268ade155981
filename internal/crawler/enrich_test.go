package crawler

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"bookcrawl/pkg/models"
)

func TestEnrichMergesSearchAndDetails(t *testing.T) {
	reviews := &fakeReviews{
		byTitle: map[string]*models.BookRecord{
			"Dracula": {
				Rating:      3.97,
				RatingCount: 1234,
				ReviewURL:   "https://openlibrary.org/works/OL190818W",
			},
		},
		details: map[string]*models.BookRecord{
			"https://openlibrary.org/works/OL190818W": {
				Description: "An epistolary horror novel.",
				Genres:      []string{"Horror", "Gothic fiction"},
			},
		},
	}
	e := NewEnricher(reviews, zap.NewNop())

	base := book("345", "Dracula", "Stoker, Bram")
	base.DownloadCount = 20000

	got := e.Enrich(context.Background(), &base)
	if got.Rating != 3.97 {
		t.Errorf("Rating = %v", got.Rating)
	}
	if got.Description != "An epistolary horror novel." {
		t.Errorf("Description = %q", got.Description)
	}
	if len(got.Genres) != 2 {
		t.Errorf("Genres = %v", got.Genres)
	}
	// base fields survive
	if got.DownloadCount != 20000 || got.ID != "345" {
		t.Errorf("base fields lost: %+v", got)
	}
	// the input record is untouched
	if base.Rating != 0 {
		t.Errorf("input mutated: Rating = %v", base.Rating)
	}
}

func TestEnrichNoMatchReturnsCopy(t *testing.T) {
	e := NewEnricher(&fakeReviews{}, zap.NewNop())

	base := book("345", "Dracula", "Stoker, Bram")
	got := e.Enrich(context.Background(), &base)
	if got == &base {
		t.Fatal("expected a copy, got the same pointer")
	}
	if got.ID != "345" || got.Title != "Dracula" {
		t.Errorf("got = %+v", got)
	}
}

func TestEnrichSearchFailureKeepsBase(t *testing.T) {
	e := NewEnricher(&fakeReviews{searchErr: errBoom}, zap.NewNop())

	base := book("345", "Dracula", "Stoker, Bram")
	got := e.Enrich(context.Background(), &base)
	if got == nil || got.Title != "Dracula" {
		t.Fatalf("got = %+v, want usable record despite search failure", got)
	}
}

func TestEnrichDetailsFailureKeepsSearchFields(t *testing.T) {
	reviews := &fakeReviews{
		byTitle: map[string]*models.BookRecord{
			"Dracula": {Rating: 3.97, ReviewURL: "https://openlibrary.org/works/OL190818W"},
		},
		detailsErr: errBoom,
	}
	e := NewEnricher(reviews, zap.NewNop())

	base := book("345", "Dracula", "Stoker, Bram")
	got := e.Enrich(context.Background(), &base)
	if got.Rating != 3.97 {
		t.Errorf("search fields lost on details failure: %+v", got)
	}
}

func TestEnrichOverwriteWinsEmptyNever(t *testing.T) {
	reviews := &fakeReviews{
		byTitle: map[string]*models.BookRecord{
			// non-empty description overwrites; empty author never clobbers
			"Dracula": {Description: "Review-source description."},
		},
	}
	e := NewEnricher(reviews, zap.NewNop())

	base := book("345", "Dracula", "Stoker, Bram")
	base.Description = "Catalog description."

	got := e.Enrich(context.Background(), &base)
	if got.Description != "Review-source description." {
		t.Errorf("Description = %q, want overwrite", got.Description)
	}
	if got.Author != "Stoker, Bram" {
		t.Errorf("Author = %q, empty field clobbered", got.Author)
	}
}
