// Package reddit fetches book discussions from the Reddit JSON API using
// application-only OAuth (static client credentials).
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"bookcrawl/pkg/models"
)

const (
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	defaultAPIURL   = "https://oauth.reddit.com"

	selftextLimit = 500
)

// bookSubreddits are the communities scanned for recommendations and
// discussions.
var bookSubreddits = []string{"books", "booksuggestions", "literature", "reading", "bookclub"}

// recommendationSubreddits are scanned for recommendation posts; ordering
// matters only for pacing.
var recommendationSubreddits = []string{"booksuggestions", "suggestmeabook", "books", "bookclub", "literature"}

// HTTPClient is injectable for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithTokenURL overrides the OAuth token endpoint (tests).
func WithTokenURL(u string) ClientOption {
	return func(c *Client) { c.tokenURL = u }
}

// WithAPIURL overrides the API host (tests).
func WithAPIURL(u string) ClientOption {
	return func(c *Client) { c.apiURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc HTTPClient) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// Client talks to the discussion source. The app-only token is fetched
// lazily and cached until shortly before expiry.
type Client struct {
	clientID     string
	clientSecret string
	userAgent    string
	tokenURL     string
	apiURL       string
	httpClient   HTTPClient
	log          *zap.Logger

	token       string
	tokenExpiry time.Time
}

// NewClient builds a discussion-source client. Credentials may be empty;
// calls will then fail and be treated as no-data by callers.
func NewClient(log *zap.Logger, clientID, clientSecret, userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		tokenURL:     defaultTokenURL,
		apiURL:       defaultAPIURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		log:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listing mirrors Reddit's wrapped listing shape.
type listing struct {
	Data struct {
		Children []struct {
			Data submission `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type submission struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Score       int     `json:"score"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
}

// toItem maps a submission into a DiscussionItem with the source's
// defaulting rules: deleted accounts become "deleted", bodies are truncated.
func (s submission) toItem() models.DiscussionItem {
	author := s.Author
	if author == "" {
		author = "deleted"
	}
	body := s.Selftext
	if runes := []rune(body); len(runes) > selftextLimit {
		body = string(runes[:selftextLimit])
	}
	return models.DiscussionItem{
		ID:          s.ID,
		Title:       s.Title,
		Score:       s.Score,
		UpvoteRatio: s.UpvoteRatio,
		NumComments: s.NumComments,
		CreatedUTC:  s.CreatedUTC,
		URL:         "https://reddit.com" + s.Permalink,
		Selftext:    body,
		Author:      author,
		Subreddit:   s.Subreddit,
	}
}

// GetBookRecommendations collects recommendation posts from the hot
// listings of the recommendation subreddits. A failing subreddit is logged
// and skipped.
func (c *Client) GetBookRecommendations(ctx context.Context, limit int) ([]models.DiscussionItem, error) {
	perSub := perSubredditLimit(limit, len(recommendationSubreddits))

	var recs []models.DiscussionItem
	for _, sub := range recommendationSubreddits {
		posts, err := c.hot(ctx, sub, perSub)
		if err != nil {
			c.log.Warn("subreddit listing failed",
				zap.String("subreddit", sub),
				zap.Error(err),
			)
			continue
		}
		for _, post := range posts {
			if !isRecommendationPost(post.Title) {
				continue
			}
			item := post.toItem()
			item.Subreddit = sub
			item.Type = "recommendation"
			recs = append(recs, item)
		}
	}

	c.log.Info("collected recommendation posts", zap.Int("count", len(recs)))
	return recs, nil
}

// GetBookReviews searches r/books for review-style posts about one title.
func (c *Client) GetBookReviews(ctx context.Context, title, author string, limit int) ([]models.DiscussionItem, error) {
	searchTerms := []string{
		fmt.Sprintf("%q review", title),
		fmt.Sprintf("%q thoughts", title),
		fmt.Sprintf("finished reading %q", title),
	}
	if author != "" {
		searchTerms = append(searchTerms, fmt.Sprintf("%q %q", author, title))
	}
	perTerm := perSubredditLimit(limit, len(searchTerms))

	var reviews []models.DiscussionItem
	for _, term := range searchTerms {
		posts, err := c.search(ctx, "books", term, perTerm)
		if err != nil {
			c.log.Warn("review search failed",
				zap.String("term", term),
				zap.Error(err),
			)
			continue
		}
		for _, post := range posts {
			if !isReviewPost(post.Title) {
				continue
			}
			item := post.toItem()
			item.Type = "review"
			item.SearchTerm = term
			reviews = append(reviews, item)
		}
	}

	c.log.Info("collected review posts",
		zap.String("title", title),
		zap.Int("count", len(reviews)),
	)
	return reviews, nil
}

// SearchBookDiscussions finds posts about one title across all book
// subreddits (quoted-phrase search).
func (c *Client) SearchBookDiscussions(ctx context.Context, title, author string, limit int) ([]models.DiscussionItem, error) {
	query := fmt.Sprintf("%q", title)
	if author != "" {
		query += fmt.Sprintf(" %q", author)
	}
	perSub := perSubredditLimit(limit, len(bookSubreddits))

	var discussions []models.DiscussionItem
	for _, sub := range bookSubreddits {
		posts, err := c.search(ctx, sub, query, perSub)
		if err != nil {
			c.log.Warn("discussion search failed",
				zap.String("subreddit", sub),
				zap.Error(err),
			)
			continue
		}
		for _, post := range posts {
			item := post.toItem()
			item.Subreddit = sub
			discussions = append(discussions, item)
		}
	}
	return discussions, nil
}

// GetTrendingBooks extracts book mentions from popular r/books posts.
// Mentions are deduped by title, keeping the highest-scoring post, and
// returned sorted by score descending.
func (c *Client) GetTrendingBooks(ctx context.Context, limit int) ([]models.TrendingMention, error) {
	posts, err := c.hot(ctx, "books", limit)
	if err != nil {
		return nil, fmt.Errorf("reddit: trending listing: %w", err)
	}

	unique := make(map[string]models.TrendingMention)
	for _, post := range posts {
		if post.Score <= 100 {
			continue
		}
		for _, mention := range extractBookMentions(post) {
			prev, seen := unique[mention.Title]
			if !seen || mention.RedditScore > prev.RedditScore {
				unique[mention.Title] = mention
			}
		}
	}

	trending := make([]models.TrendingMention, 0, len(unique))
	for _, m := range unique {
		trending = append(trending, m)
	}
	sortMentions(trending)

	c.log.Info("collected trending mentions", zap.Int("count", len(trending)))
	return trending, nil
}

func (c *Client) hot(ctx context.Context, subreddit string, limit int) ([]submission, error) {
	endpoint := fmt.Sprintf("%s/r/%s/hot?limit=%d&raw_json=1", c.apiURL, subreddit, limit)
	return c.fetchListing(ctx, endpoint)
}

func (c *Client) search(ctx context.Context, subreddit, query string, limit int) ([]submission, error) {
	endpoint := fmt.Sprintf("%s/r/%s/search?q=%s&limit=%d&sort=relevance&restrict_sr=1&raw_json=1",
		c.apiURL, subreddit, url.QueryEscape(query), limit)
	return c.fetchListing(ctx, endpoint)
}

func (c *Client) fetchListing(ctx context.Context, endpoint string) ([]submission, error) {
	body, err := c.doAuthed(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var l listing
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	subs := make([]submission, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		if child.Data.ID == "" {
			continue
		}
		subs = append(subs, child.Data)
	}
	return subs, nil
}

func (c *Client) doAuthed(ctx context.Context, endpoint string) ([]byte, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// accessToken returns the cached app-only token, refreshing it when it is
// within a minute of expiring.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("reddit credentials not configured")
	}
	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token status %d: %s", resp.StatusCode, string(body))
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}

	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.token, nil
}

func perSubredditLimit(total, buckets int) int {
	if buckets <= 0 {
		return total
	}
	per := total / buckets
	if per < 1 {
		per = 1
	}
	return per
}
