// Package gutenberg fetches the Project Gutenberg catalog through the
// Gutendex JSON API (https://gutendex.com).
package gutenberg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bookcrawl/pkg/models"
)

const (
	defaultBaseURL = "https://gutendex.com"
	ebookBaseURL   = "https://www.gutenberg.org"
)

// HTTPClient is the subset of *http.Client the source needs; injectable
// for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different catalog host (tests).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc HTTPClient) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// Client lists and describes catalog books. Every request waits on the
// pacing limiter first, so callers can loop without sleeping themselves.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	limiter    *rate.Limiter
	userAgent  string
	log        *zap.Logger
}

// NewClient builds a catalog client. delay is the pacing interval between
// requests; zero disables pacing.
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

type listResponse struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  []bookEntry `json:"results"`
}

type bookEntry struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Summaries     []string          `json:"summaries"`
	Subjects      []string          `json:"subjects"`
	Bookshelves   []string          `json:"bookshelves"`
	Languages     []string          `json:"languages"`
	Copyright     *bool             `json:"copyright"`
	Formats       map[string]string `json:"formats"`
	DownloadCount int               `json:"download_count"`
}

// ListPage returns one page of the catalog, most-downloaded first. Page
// numbers start at 1.
func (c *Client) ListPage(ctx context.Context, page int) ([]models.BookRecord, error) {
	if page < 1 {
		page = 1
	}
	url := fmt.Sprintf("%s/books/?sort=popular&page=%d", c.baseURL, page)

	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("gutenberg: list page %d: %w", page, err)
	}
	if body == nil { // past the last page
		return nil, nil
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("gutenberg: decode page %d: %w", page, err)
	}

	books := make([]models.BookRecord, 0, len(resp.Results))
	for _, entry := range resp.Results {
		books = append(books, entry.toRecord(c.baseURL))
	}

	c.log.Info("fetched catalog page",
		zap.Int("page", page),
		zap.Int("books", len(books)),
	)
	return books, nil
}

// GetDetails fetches the full entry for one book ID. Returns (nil, nil)
// when the catalog does not know the ID.
func (c *Client) GetDetails(ctx context.Context, id string) (*models.BookRecord, error) {
	if id == "" {
		return nil, nil
	}
	url := fmt.Sprintf("%s/books/%s", c.baseURL, id)

	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("gutenberg: details %s: %w", id, err)
	}
	if body == nil { // 404
		return nil, nil
	}

	var entry bookEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("gutenberg: decode details %s: %w", id, err)
	}

	rec := entry.toRecord(c.baseURL)
	return &rec, nil
}

// toRecord maps a catalog entry into the canonical record. Each field maps
// independently: a missing or malformed field stays at its zero value
// without voiding the rest of the record.
func (e bookEntry) toRecord(baseURL string) models.BookRecord {
	rec := models.BookRecord{
		Title:         e.Title,
		DownloadCount: e.DownloadCount,
		Subjects:      e.Subjects,
		Bookshelves:   e.Bookshelves,
	}
	if e.ID != 0 {
		rec.ID = fmt.Sprintf("%d", e.ID)
		rec.URL = fmt.Sprintf("%s/ebooks/%d", ebookBaseURL, e.ID)
	}
	if len(e.Authors) > 0 {
		rec.Author = e.Authors[0].Name
	}
	if rec.Author == "" {
		rec.Author = "Unknown"
	}
	if len(e.Languages) > 0 {
		rec.Language = e.Languages[0]
	}
	if len(e.Summaries) > 0 {
		rec.Description = e.Summaries[0]
	}
	if len(e.Formats) > 0 {
		rec.DownloadLinks = e.Formats
	}
	if e.Copyright != nil && !*e.Copyright {
		rec.ReleaseDate = "Public domain"
	}
	return rec
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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
