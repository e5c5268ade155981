package models

// DiscussionItem captures one social-platform post about books. Items are
// produced per listing/search call and collected into crawl payloads; they
// are never stored individually.
type DiscussionItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Score       int     `json:"score"`
	UpvoteRatio float64 `json:"upvote_ratio,omitempty"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	URL         string  `json:"url"`
	Selftext    string  `json:"selftext,omitempty"` // truncated to 500 runes
	Author      string  `json:"author"`             // "deleted" when the account is gone
	Subreddit   string  `json:"subreddit,omitempty"`
	Type        string  `json:"type,omitempty"` // "recommendation" | "review"
	SearchTerm  string  `json:"search_term,omitempty"`
}

// TrendingMention is a book title extracted from a popular discussion post.
// Extraction is a quoted-substring heuristic, not NLP.
type TrendingMention struct {
	Title          string `json:"title"`
	MentionedIn    string `json:"mentioned_in"` // post ID
	Context        string `json:"context"`
	RedditScore    int    `json:"reddit_score"`
	RedditComments int    `json:"reddit_comments"`
}

// RedditData groups everything one discussion-source gathering pass
// produces.
type RedditData struct {
	Recommendations []DiscussionItem  `json:"recommendations"`
	Reviews         []DiscussionItem  `json:"reviews"`
	Trending        []TrendingMention `json:"trending"`
}

// ItemCount is the total number of collected discussion items across all
// three groups, used for backup bookkeeping.
func (d RedditData) ItemCount() int {
	return len(d.Recommendations) + len(d.Reviews) + len(d.Trending)
}

// CrawlPayload is the body POSTed to the remote save API after a full or
// incremental crawl.
type CrawlPayload struct {
	Books           []BookRecord      `json:"books"`
	Reviews         []DiscussionItem  `json:"reviews"`
	Recommendations []DiscussionItem  `json:"recommendations"`
	Trending        []TrendingMention `json:"trending"`
}
