package crawler

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"bookcrawl/pkg/models"
)

// maxSearchPages caps how deep FindBook scans the catalog listing.
const maxSearchPages = 5

// Matcher locates a specific book in the catalog by fuzzy title/author
// comparison.
type Matcher struct {
	Catalog CatalogSource
	Log     *zap.Logger
}

func NewMatcher(catalog CatalogSource, log *zap.Logger) *Matcher {
	return &Matcher{Catalog: catalog, Log: log}
}

// FindBook scans up to maxSearchPages listing pages for the target and
// returns the first candidate that matches, with its details merged in.
// First match wins in page/listing order; a shared common word can select
// a wrong edition or an unrelated work — that ambiguity is part of the
// contract, so no scoring is attempted. Returns nil when no page matched.
func (m *Matcher) FindBook(ctx context.Context, title, author string) (*models.BookRecord, error) {
	for page := 1; page <= maxSearchPages; page++ {
		books, err := m.Catalog.ListPage(ctx, page)
		if err != nil {
			m.Log.Warn("catalog page scan failed",
				zap.Int("page", page),
				zap.String("title", title),
				zap.Error(err),
			)
			continue
		}

		for i := range books {
			if !titleAuthorMatch(title, author, books[i].Title, books[i].Author) {
				continue
			}
			found := books[i].Clone()
			if found.ID != "" {
				details, err := m.Catalog.GetDetails(ctx, found.ID)
				if err != nil {
					m.Log.Warn("catalog details failed",
						zap.String("id", found.ID),
						zap.Error(err),
					)
				} else {
					found.Merge(details)
				}
			}
			return found, nil
		}
	}
	return nil, nil
}

// titleAuthorMatch implements the matching heuristic: either the target
// title is a case-insensitive substring of the candidate title, or any
// token of the target title appears in the candidate title while the
// target author's last token (surname) appears in the candidate author.
func titleAuthorMatch(title, author, candTitle, candAuthor string) bool {
	t := strings.ToLower(title)
	ct := strings.ToLower(candTitle)
	ca := strings.ToLower(candAuthor)

	if strings.Contains(ct, t) {
		return true
	}

	surname := ""
	if fields := strings.Fields(strings.ToLower(author)); len(fields) > 0 {
		surname = fields[len(fields)-1]
	}
	if surname == "" || !strings.Contains(ca, surname) {
		return false
	}
	for _, word := range strings.Fields(t) {
		if strings.Contains(ct, word) {
			return true
		}
	}
	return false
}
