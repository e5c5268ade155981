// Package openlibrary fetches ratings, descriptions and genre tags from
// Open Library, the pipeline's review source.
package openlibrary

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
	"golang.org/x/time/rate"

	"bookcrawl/pkg/models"
)

const defaultBaseURL = "https://openlibrary.org"

const maxGenres = 10

// HTTPClient is injectable for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API host (tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc HTTPClient) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// Client searches the review source and fetches work details. Requests are
// paced through a shared limiter like the catalog client.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	limiter    *rate.Limiter
	userAgent  string
	log        *zap.Logger
}

func NewClient(log *zap.Logger, userAgent string, delay time.Duration, opts ...ClientOption) *Client {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(limit, 1),
		userAgent:  userAgent,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Key            string   `json:"key"`
		Title          string   `json:"title"`
		AuthorNames    []string `json:"author_name"`
		CoverID        int      `json:"cover_i"`
		RatingsAverage float64  `json:"ratings_average"`
		RatingsCount   int      `json:"ratings_count"`
	} `json:"docs"`
}

// Search looks the book up and returns the first result — the source
// contract is first-match, not best-of-N. Returns (nil, nil) when nothing
// matched.
func (c *Client) Search(ctx context.Context, title, author string) (*models.BookRecord, error) {
	q := url.Values{}
	q.Set("title", title)
	if author != "" {
		q.Set("author", author)
	}
	q.Set("limit", "5")
	q.Set("fields", "key,title,author_name,cover_i,ratings_average,ratings_count")
	endpoint := fmt.Sprintf("%s/search.json?%s", c.baseURL, q.Encode())

	body, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("openlibrary: search %q: %w", title, err)
	}
	if body == nil {
		return nil, nil
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openlibrary: decode search %q: %w", title, err)
	}
	if len(resp.Docs) == 0 {
		c.log.Debug("no review-source match", zap.String("title", title))
		return nil, nil
	}

	doc := resp.Docs[0]
	rec := &models.BookRecord{
		Title:       doc.Title,
		Rating:      doc.RatingsAverage,
		RatingCount: doc.RatingsCount,
	}
	if len(doc.AuthorNames) > 0 {
		rec.Author = doc.AuthorNames[0]
	}
	if doc.Key != "" {
		rec.ReviewURL = c.baseURL + doc.Key
	}
	if doc.CoverID != 0 {
		rec.CoverImage = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", doc.CoverID)
	}
	if rec.Rating > 0 {
		rec.RatingText = fmt.Sprintf("%.2f avg rating — %d ratings", rec.Rating, rec.RatingCount)
	}
	return rec, nil
}

// workResponse tolerates the API's two description encodings: a bare
// string or a {"type", "value"} object.
type workResponse struct {
	Title       string          `json:"title"`
	Description json.RawMessage `json:"description"`
	Subjects    []string        `json:"subjects"`
}

// GetDetails fetches the work page behind a ReviewURL captured by Search.
// Returns (nil, nil) for unknown works.
func (c *Client) GetDetails(ctx context.Context, reviewURL string) (*models.BookRecord, error) {
	if reviewURL == "" {
		return nil, nil
	}
	endpoint := strings.TrimSuffix(reviewURL, "/") + ".json"

	body, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("openlibrary: details %s: %w", reviewURL, err)
	}
	if body == nil {
		return nil, nil
	}

	var work workResponse
	if err := json.Unmarshal(body, &work); err != nil {
		return nil, fmt.Errorf("openlibrary: decode details %s: %w", reviewURL, err)
	}

	rec := &models.BookRecord{
		Description: decodeDescription(work.Description),
	}
	if len(work.Subjects) > 0 {
		genres := work.Subjects
		if len(genres) > maxGenres {
			genres = genres[:maxGenres]
		}
		rec.Genres = genres
	}
	return rec, nil
}

// decodeDescription handles both description shapes; anything unparseable
// defaults to empty rather than failing the record.
func decodeDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	return ""
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
