package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Open-Coding-Society/optivize-backend/models"
	"github.com/Open-Coding-Society/optivize-backend/prediction"
	"github.com/Open-Coding-Society/optivize-backend/services"
	"github.com/Open-Coding-Society/optivize-backend/store"
)

// PredictionChannel is the Redis pub/sub channel new prediction records
// are published to for the live WebSocket feed.
const PredictionChannel = "optivize:predictions"

type PredictionHandler struct {
	scorer     *prediction.Scorer
	aggregator *prediction.Aggregator
	records    *store.RecordStore
	cache      *services.CacheService
}

func NewPredictionHandler(scorer *prediction.Scorer, aggregator *prediction.Aggregator, records *store.RecordStore, cache *services.CacheService) *PredictionHandler {
	return &PredictionHandler{
		scorer:     scorer,
		aggregator: aggregator,
		records:    records,
		cache:      cache,
	}
}

// PredictRequest uses pointer fields so absent keys can be reported by
// name, rather than silently zeroed.
type PredictRequest struct {
	ItemText             *string  `json:"item_text"`
	Seasonality          *string  `json:"seasonality"`
	Price                *float64 `json:"price"`
	Marketing            *float64 `json:"marketing"`
	DistributionChannels *float64 `json:"distribution_channels"`
}

func (r *PredictRequest) missingFields() []string {
	var missing []string
	if r.ItemText == nil {
		missing = append(missing, "item_text")
	}
	if r.Seasonality == nil {
		missing = append(missing, "seasonality")
	}
	if r.Price == nil {
		missing = append(missing, "price")
	}
	if r.Marketing == nil {
		missing = append(missing, "marketing")
	}
	if r.DistributionChannels == nil {
		missing = append(missing, "distribution_channels")
	}
	return missing
}

type PredictResponse struct {
	Success    bool                      `json:"success"`
	Score      float64                   `json:"score"`
	IsSuccess  bool                      `json:"is_success"`
	Category   string                    `json:"category"`
	Insights   *prediction.InsightReport `json:"insights"`
	DatabaseID uint                      `json:"database_id"`
}

// Predict runs the full pipeline: classify, aggregate history, score,
// synthesize insights, persist, publish.
func (h *PredictionHandler) Predict(c *gin.Context) {
	start := time.Now()
	defer func() {
		prediction.PredictDuration.Observe(time.Since(start).Seconds())
	}()

	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body", "error": err.Error()})
		return
	}
	if missing := req.missingFields(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields", "missing": missing})
		return
	}

	if !h.scorer.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Model not trained"})
		return
	}

	ctx := c.Request.Context()
	category := prediction.Classify(*req.ItemText)
	priceStats := h.aggregator.PriceStatsForCategory(ctx, category)
	marketingStats := h.aggregator.GlobalMarketingStats(ctx)

	score, err := h.scorer.Score(*req.ItemText, *req.Seasonality,
		*req.Price, *req.Marketing, *req.DistributionChannels)
	if errors.Is(err, prediction.ErrModelUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Model not trained"})
		return
	}
	if err != nil {
		prediction.PredictionsFailed.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"message": fmt.Sprintf("prediction failed: %v", err)})
		return
	}
	prediction.PredictionsGenerated.Inc()

	isSuccess := math.Round(score) >= prediction.SuccessThreshold
	insights := prediction.Synthesize(score, *req.Price, *req.Marketing,
		*req.DistributionChannels, *req.Seasonality, category, priceStats, marketingStats)

	rec := models.PredictionRecord{
		ItemText:             *req.ItemText,
		Seasonality:          *req.Seasonality,
		Price:                *req.Price,
		Marketing:            *req.Marketing,
		DistributionChannels: *req.DistributionChannels,
		Category:             category,
		Success:              isSuccess,
		Score:                score,
	}
	if err := h.records.Insert(ctx, &rec); err != nil {
		prediction.PredictionsFailed.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"message": fmt.Sprintf("failed to store prediction: %v", err)})
		return
	}
	prediction.PredictionsStored.Inc()

	go func() {
		if err := h.cache.Publish(context.Background(), PredictionChannel, rec); err != nil {
			log.Printf("prediction publish failed: %v", err)
		} else {
			prediction.PredictionsPublished.Inc()
		}
		// A failed invalidation leaves stale history pages until the
		// cache TTL expires, so it must show up in the logs.
		if err := h.cache.InvalidatePrefix(context.Background(), "history:"); err != nil {
			log.Printf("history cache invalidation failed: %v", err)
		}
	}()

	c.JSON(http.StatusOK, PredictResponse{
		Success:    true,
		Score:      score,
		IsSuccess:  isSuccess,
		Category:   category,
		Insights:   insights,
		DatabaseID: rec.ID,
	})
}

type TrainRequest struct {
	Samples []prediction.Sample `json:"samples"`
}

// Train fits and swaps in a new score model from a labeled batch.
func (h *PredictionHandler) Train(c *gin.Context) {
	start := time.Now()
	defer func() {
		prediction.TrainDuration.Observe(time.Since(start).Seconds())
	}()

	var req TrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body", "error": err.Error()})
		return
	}
	if req.Samples == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields", "missing": []string{"samples"}})
		return
	}

	result, err := h.scorer.Train(req.Samples)
	if err != nil {
		prediction.TrainingFailed.Inc()
		var insufficient *prediction.InsufficientDataError
		if errors.As(err, &insufficient) {
			c.JSON(http.StatusBadRequest, gin.H{"message": insufficient.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": fmt.Sprintf("training failed: %v", err)})
		return
	}
	prediction.TrainingRuns.Inc()

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"samples_used":  result.SamplesUsed,
		"r2_score":      result.R2,
		"mae":           result.MAE,
		"model_version": result.ModelVersion,
	})
}

// History returns persisted prediction records newest first, with
// cursor pagination and a short-lived cache.
func (h *PredictionHandler) History(c *gin.Context) {
	page := parseHistoryPage(c)

	cursorKey := ""
	if page.Cursor != nil {
		cursorKey = encodeHistoryCursor(page.Cursor.CreatedAt, page.Cursor.ID)
	}
	cacheKey := fmt.Sprintf("history:%d:%s", page.Limit, cursorKey)

	var cached historyResponse
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Records != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	rows, err := h.records.History(c.Request.Context(), page.Limit+1, page.Cursor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "database query failed"})
		return
	}

	hasMore := len(rows) > page.Limit
	if hasMore {
		rows = rows[:page.Limit]
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		nextCursor = encodeHistoryCursor(last.CreatedAt, last.ID)
	}

	resp := historyResponse{Records: rows, NextCursor: nextCursor, HasMore: hasMore}
	go h.cache.Set(context.Background(), cacheKey, resp, 10*time.Second)

	c.JSON(http.StatusOK, resp)
}
