package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"bookcrawl/pkg/models"
)

const (
	saveCrawledPath = "/internal/save-crawled-data"
	saveDailyPath   = "/internal/save-daily-recommendations"

	saveTimeout = 30 * time.Second
)

// Saver writes crawl results to the remote save API. Any non-200 response
// or transport failure falls back to a timestamped local JSON file — the
// pipeline's only failure-recovery mechanism. SaveResult reports which path
// was taken.
type Saver struct {
	BaseURL    string
	BackupDir  string
	HTTPClient *http.Client
	Log        *zap.Logger

	// now is swappable in tests to pin backup filenames.
	now func() time.Time
}

// SaveResult describes where a payload ended up.
type SaveResult struct {
	Remote     bool
	BackupFile string
}

func NewSaver(baseURL, backupDir string, log *zap.Logger) *Saver {
	return &Saver{
		BaseURL:    baseURL,
		BackupDir:  backupDir,
		HTTPClient: &http.Client{Timeout: saveTimeout},
		Log:        log,
		now:        time.Now,
	}
}

// crawlBackup is the on-disk shape of a crawl backup: the payload plus a
// timestamp and item counts for quick inspection.
type crawlBackup struct {
	Timestamp        string              `json:"timestamp"`
	Books            []models.BookRecord `json:"books"`
	RedditData       models.RedditData   `json:"reddit_data"`
	TotalBooks       int                 `json:"total_books"`
	TotalRedditItems int                 `json:"total_reddit_items"`
}

// SaveCrawledData persists a full/incremental crawl payload.
func (s *Saver) SaveCrawledData(ctx context.Context, books []models.BookRecord, reddit models.RedditData) (SaveResult, error) {
	payload := models.CrawlPayload{
		Books:           books,
		Reviews:         reddit.Reviews,
		Recommendations: reddit.Recommendations,
		Trending:        reddit.Trending,
	}

	if err := s.post(ctx, saveCrawledPath, payload); err == nil {
		s.Log.Info("crawl data saved remotely",
			zap.Int("books", len(books)),
			zap.Int("redditItems", reddit.ItemCount()),
		)
		return SaveResult{Remote: true}, nil
	} else {
		s.Log.Error("remote save failed, writing local backup", zap.Error(err))
	}

	ts := s.now().Format("20060102_150405")
	backup := crawlBackup{
		Timestamp:        ts,
		Books:            books,
		RedditData:       reddit,
		TotalBooks:       len(books),
		TotalRedditItems: reddit.ItemCount(),
	}
	file, err := s.writeBackup(fmt.Sprintf("crawl_backup_%s.json", ts), backup)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save crawled data: %w", err)
	}
	return SaveResult{BackupFile: file}, nil
}

// SaveDailyRecommendations persists a daily-update payload.
func (s *Saver) SaveDailyRecommendations(ctx context.Context, recs *models.DailyRecommendationSet) (SaveResult, error) {
	if err := s.post(ctx, saveDailyPath, recs); err == nil {
		s.Log.Info("daily recommendations saved remotely")
		return SaveResult{Remote: true}, nil
	} else {
		s.Log.Error("remote daily save failed, writing local backup", zap.Error(err))
	}

	file, err := s.writeBackup(
		fmt.Sprintf("daily_recommendations_%s.json", s.now().Format("20060102")), recs)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save daily recommendations: %w", err)
	}
	return SaveResult{BackupFile: file}, nil
}

func (s *Saver) post(ctx context.Context, path string, payload any) error {
	if s.BaseURL == "" {
		return fmt.Errorf("save API not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("post %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}
	return nil
}

// writeBackup writes payload pretty-printed to the backup directory and
// returns the file path.
func (s *Saver) writeBackup(name string, payload any) (string, error) {
	dir := s.BackupDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backup dir: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal backup: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	s.Log.Info("local backup written", zap.String("file", path))
	return path, nil
}
