package models

// AllRecommendations holds the full curated collections, keyed the way the
// save API expects them.
type AllRecommendations struct {
	EnglishLevels map[string][]BookRecord `json:"english_levels"`
	Transcription []BookRecord            `json:"transcription"`
}

// DailyRecommendationSet is the daily-update payload. TodayPicks is a small
// deterministic sample per category: built from the same calendar day it
// always contains the same books in the same order.
type DailyRecommendationSet struct {
	TodayPicks         map[string][]BookRecord `json:"today_picks"`
	AllRecommendations AllRecommendations      `json:"all_recommendations"`
	GeneratedAt        string                  `json:"generated_at"`
	NextUpdate         string                  `json:"next_update"`
	FeaturedQuotes     []FeaturedQuote         `json:"featured_quotes"`
}

// FeaturedQuote pairs a curated book with one of its well-known sentences.
type FeaturedQuote struct {
	BookTitle string `json:"book_title"`
	Author    string `json:"author,omitempty"`
	Quote     string `json:"quote"`
	BookID    string `json:"book_id,omitempty"`
}

// Flatten returns every book in the set's full recommendation lists, levels
// first, then transcription. Used for quote matching.
func (d *DailyRecommendationSet) Flatten() []BookRecord {
	var out []BookRecord
	for _, level := range []string{"beginner", "intermediate", "advanced"} {
		out = append(out, d.AllRecommendations.EnglishLevels[level]...)
	}
	out = append(out, d.AllRecommendations.Transcription...)
	return out
}
