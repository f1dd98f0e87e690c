package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/news-comb/app/aggregator"
	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/sources"
)

var channels = map[string]feed.Channel{
	"turkish": {Name: "turkish", Title: "Türkçe Teknoloji Haberleri", Language: "tr"},
	"global":  {Name: "global", Title: "Global Tech News", Language: "en"},
	"all":     {Name: "all", Title: "Tüm Teknoloji Haberleri"},
}

type Handler struct {
	service     NewsService
	generator   GeneratorInterface
	extractor   ExtractorInterface          // optional
	fetchLog    database.FetchLogRepository // optional
	configCache *sources.ConfigCache
	newsAPI     bool
}

func NewHandler(service NewsService, generator GeneratorInterface, extractor ExtractorInterface,
	fetchLog database.FetchLogRepository, configCache *sources.ConfigCache, newsAPI bool) *Handler {
	return &Handler{
		service:     service,
		generator:   generator,
		extractor:   extractor,
		fetchLog:    fetchLog,
		configCache: configCache,
		newsAPI:     newsAPI,
	}
}

func (h *Handler) GetNews(c *gin.Context) {
	aggregated, err := h.service.GetAggregatedNews(c.Request.Context())
	if err != nil {
		slog.Error("Aggregation failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "News temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, aggregated)
}

func (h *Handler) GetCategory(c *gin.Context) {
	category := c.Param("category")

	aggregated, err := h.service.GetAggregatedNews(c.Request.Context())
	if err != nil {
		slog.Error("Aggregation failed", "category", category, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "News temporarily unavailable"})
		return
	}

	items, ok := aggregated.Bucket(category)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown category"})
		return
	}

	c.Header("X-Total-Items", strconv.Itoa(len(items)))
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"items":    toItemResponses(items),
	})
}

func (h *Handler) GetItem(c *gin.Context) {
	id := c.Param("id")

	item, err := h.service.GetNewsByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, aggregator.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "News item not found"})
			return
		}
		slog.Error("Aggregation failed", "id", id, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "News temporarily unavailable"})
		return
	}

	// Full text is best effort: on failure the item is served as it is.
	if c.Query("full") == "1" && item.Content == "" && h.extractor != nil {
		content, err := h.extractor.Extract(c.Request.Context(), item.URL)
		if err != nil {
			slog.Warn("Content extraction failed", "id", id, "url", item.URL, "error", err)
		} else {
			item.Content = content
		}
	}

	c.JSON(http.StatusOK, itemResponse{Item: item, CardDescription: item.CardDescription()})
}

func (h *Handler) GetFeed(c *gin.Context) {
	category := c.Param("category")

	channel, ok := channels[category]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	aggregated, err := h.service.GetAggregatedNews(c.Request.Context())
	if err != nil {
		slog.Error("Aggregation failed", "category", category, "error", err)
		c.Status(http.StatusServiceUnavailable)
		return
	}

	items, _ := aggregated.Bucket(category)

	rss, err := h.generator.Run(channel, items)
	if err != nil {
		slog.Error("RSS generation error", "category", category, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(items)))
	c.Header("X-Feed-Name", category)

	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":          "ok",
		"timestamp":       time.Now().In(time.Local).Format(time.RFC3339),
		"sources":         len(h.configCache.GetEnabledConfigs()),
		"news_api":        h.newsAPI,
		"fetch_log":       h.fetchLog != nil,
		"content_extract": h.extractor != nil,
	}

	if expiresAt, ok := h.service.ExpiresAt(); ok {
		health["cache_expires_at"] = expiresAt.In(time.Local).Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIGetStats(c *gin.Context) {
	if h.fetchLog == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fetch log disabled (DB_PATH not set)"})
		return
	}

	runs, err := h.fetchLog.GetLatestRuns()
	if err != nil {
		slog.Error("Database error", "operation", "get_latest_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.fetchLog.GetRunCount()
	if err != nil {
		slog.Error("Database error", "operation", "get_run_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	latest := make([]fetchRunResponse, 0, len(runs))
	for _, run := range runs {
		latest = append(latest, fetchRunResponse{
			Source:     run.Source,
			StartedAt:  run.StartedAt,
			DurationMs: run.Duration.Milliseconds(),
			ItemCount:  run.ItemCount,
			Error:      run.Error,
			Succeeded:  run.Succeeded(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"sources":    latest,
		"total_runs": total,
	})
}

func (h *Handler) APIRefresh(c *gin.Context) {
	aggregated, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		slog.Error("Refresh failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to refresh news",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"counts": gin.H{
			"turkish": len(aggregated.Turkish),
			"global":  len(aggregated.Global),
			"all":     len(aggregated.All),
		},
	})
}
