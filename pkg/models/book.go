package models

// BookRecord is the normalized, internal form of a book entry used by the
// crawler pipeline and the snapshot store.
//
// Every external source is mapped into this structure first; enrichment
// merges additional sources into an existing record. All fields are
// optional — sources disagree about what they know, and absence is valid.
type BookRecord struct {
	ID            string            `json:"id,omitempty"`             // catalog identifier (Gutenberg book ID)
	Title         string            `json:"title,omitempty"`          // main title
	Author        string            `json:"author,omitempty"`         // primary author
	URL           string            `json:"url,omitempty"`            // catalog page URL
	DownloadCount int               `json:"download_count,omitempty"` // catalog popularity signal
	Subjects      []string          `json:"subjects,omitempty"`
	Language      string            `json:"language,omitempty"`
	ReleaseDate   string            `json:"release_date,omitempty"`
	Bookshelves   []string          `json:"bookshelves,omitempty"`
	DownloadLinks map[string]string `json:"download_links,omitempty"` // format -> URL

	// Review-source fields.
	Description   string        `json:"description,omitempty"`
	Genres        []string      `json:"genres,omitempty"`
	Rating        float64       `json:"rating,omitempty"`
	RatingCount   int           `json:"rating_count,omitempty"`
	RatingText    string        `json:"rating_text,omitempty"`
	ReviewURL     string        `json:"review_url,omitempty"` // review-site detail page
	CoverImage    string        `json:"cover_image,omitempty"`
	PublishedDate string        `json:"published_date,omitempty"`
	PageCount     int           `json:"page_count,omitempty"`
	SimilarBooks  []RelatedBook `json:"similar_books,omitempty"`

	// Curation tags.
	EnglishLevel   string `json:"english_level,omitempty"`
	RecommendedFor string `json:"recommended_for,omitempty"`
	WritingStyle   string `json:"writing_style,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
}

// RelatedBook is a lightweight reference to another title, used for the
// review source's "readers also enjoyed" links.
type RelatedBook struct {
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Merge overlays other onto b, field by field. An incoming field wins only
// when it is non-empty (non-zero); a field present in b is never dropped
// otherwise. Returns b for chaining.
func (b *BookRecord) Merge(other *BookRecord) *BookRecord {
	if other == nil {
		return b
	}
	if other.ID != "" {
		b.ID = other.ID
	}
	if other.Title != "" {
		b.Title = other.Title
	}
	if other.Author != "" {
		b.Author = other.Author
	}
	if other.URL != "" {
		b.URL = other.URL
	}
	if other.DownloadCount != 0 {
		b.DownloadCount = other.DownloadCount
	}
	if len(other.Subjects) > 0 {
		b.Subjects = other.Subjects
	}
	if other.Language != "" {
		b.Language = other.Language
	}
	if other.ReleaseDate != "" {
		b.ReleaseDate = other.ReleaseDate
	}
	if len(other.Bookshelves) > 0 {
		b.Bookshelves = other.Bookshelves
	}
	if len(other.DownloadLinks) > 0 {
		b.DownloadLinks = other.DownloadLinks
	}
	if other.Description != "" {
		b.Description = other.Description
	}
	if len(other.Genres) > 0 {
		b.Genres = other.Genres
	}
	if other.Rating != 0 {
		b.Rating = other.Rating
	}
	if other.RatingCount != 0 {
		b.RatingCount = other.RatingCount
	}
	if other.RatingText != "" {
		b.RatingText = other.RatingText
	}
	if other.ReviewURL != "" {
		b.ReviewURL = other.ReviewURL
	}
	if other.CoverImage != "" {
		b.CoverImage = other.CoverImage
	}
	if other.PublishedDate != "" {
		b.PublishedDate = other.PublishedDate
	}
	if other.PageCount != 0 {
		b.PageCount = other.PageCount
	}
	if len(other.SimilarBooks) > 0 {
		b.SimilarBooks = other.SimilarBooks
	}
	if other.EnglishLevel != "" {
		b.EnglishLevel = other.EnglishLevel
	}
	if other.RecommendedFor != "" {
		b.RecommendedFor = other.RecommendedFor
	}
	if other.WritingStyle != "" {
		b.WritingStyle = other.WritingStyle
	}
	if other.Difficulty != "" {
		b.Difficulty = other.Difficulty
	}
	return b
}

// Clone returns a deep copy of b so that enrichment never aliases the
// caller's slices and maps.
func (b *BookRecord) Clone() *BookRecord {
	if b == nil {
		return nil
	}
	out := *b
	out.Subjects = append([]string(nil), b.Subjects...)
	out.Bookshelves = append([]string(nil), b.Bookshelves...)
	out.Genres = append([]string(nil), b.Genres...)
	out.SimilarBooks = append([]RelatedBook(nil), b.SimilarBooks...)
	if b.DownloadLinks != nil {
		out.DownloadLinks = make(map[string]string, len(b.DownloadLinks))
		for k, v := range b.DownloadLinks {
			out.DownloadLinks[k] = v
		}
	}
	return &out
}

// SeedEntry is one hand-picked (title, author) pair driving curated-list
// building. Style annotates transcription seeds; it is never persisted as
// crawl output.
type SeedEntry struct {
	Title  string `yaml:"title" json:"title"`
	Author string `yaml:"author" json:"author"`
	Style  string `yaml:"style,omitempty" json:"style,omitempty"`
}
