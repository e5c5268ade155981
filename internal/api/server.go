// Package api exposes the HTTP trigger surface: health probes, the three
// crawl endpoints, and a status page backed by the local run history.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookcrawl/internal/store"
)

// Version is reported on the root endpoint.
const Version = "0.1.0"

// Runner drives a crawl mode to completion.
type Runner interface {
	RunFull(ctx context.Context) error
	RunIncremental(ctx context.Context) error
	RunDaily(ctx context.Context) error
}

// SourceStatus reports which external sources are configured.
type SourceStatus struct {
	Gutenberg   bool `json:"gutenberg"`
	Reddit      bool `json:"reddit"`
	OpenLibrary bool `json:"open_library"`
	SaveAPI     bool `json:"save_api"`
}

type Handler struct {
	Runner  Runner
	Store   *store.Store // optional
	Sources SourceStatus
	Log     *zap.Logger
}

func NewHandler(runner Runner, st *store.Store, sources SourceStatus, log *zap.Logger) *Handler {
	return &Handler{Runner: runner, Store: st, Sources: sources, Log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.root)
	r.GET("/health", h.health)
	r.GET("/status", h.status)
	r.POST("/daily-update", h.trigger("daily update", h.Runner.RunDaily))
	r.POST("/full-crawl", h.trigger("full crawl", h.Runner.RunFull))
	r.POST("/incremental-crawl", h.trigger("incremental crawl", h.Runner.RunIncremental))
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "book crawler",
		"version":   Version,
		"status":    "running",
		"timestamp": time.Now().Format(time.RFC3339),
		"endpoints": []string{
			"GET /health",
			"GET /status",
			"POST /daily-update",
			"POST /full-crawl",
			"POST /incremental-crawl",
		},
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// trigger wraps a run mode into a synchronous endpoint. The response is
// only sent once the run finishes, so a full crawl holds the connection
// for minutes.
func (h *Handler) trigger(name string, run func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.Log.Info("crawl triggered", zap.String("mode", name))

		if err := run(c.Request.Context()); err != nil {
			h.Log.Error("crawl failed", zap.String("mode", name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":    "error",
				"detail":    err.Error(),
				"timestamp": time.Now().Format(time.RFC3339),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "success",
			"message":   name + " completed",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

func (h *Handler) status(c *gin.Context) {
	resp := gin.H{
		"sources":   h.Sources,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if h.Store != nil {
		ctx := c.Request.Context()
		if runs, err := h.Store.RecentRuns(ctx, 10); err == nil {
			resp["recent_runs"] = runs
		} else {
			h.Log.Warn("run history read failed", zap.Error(err))
		}
		if n, err := h.Store.BookCount(ctx); err == nil {
			resp["books_stored"] = n
		}
	}

	c.JSON(http.StatusOK, resp)
}
