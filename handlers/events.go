package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Open-Coding-Society/optivize-backend/models"
	"github.com/Open-Coding-Society/optivize-backend/services"
)

// eventTimeLayout matches the wire format used by the calendar frontend.
const eventTimeLayout = "2006-01-02 15:04:05"

type EventsHandler struct {
	db    *gorm.DB
	cache *services.CacheService
}

func NewEventsHandler(db *gorm.DB, cache *services.CacheService) *EventsHandler {
	return &EventsHandler{db: db, cache: cache}
}

type eventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Category    *string `json:"category"`
}

func (h *EventsHandler) List(c *gin.Context) {
	const cacheKey = "events:all"

	var cached struct {
		Data []models.Event `json:"data"`
	}
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var events []models.Event
	if err := h.db.Order("start_time").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	resp := gin.H{"data": events}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}

func (h *EventsHandler) Create(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	var missing []string
	if req.Title == nil {
		missing = append(missing, "title")
	}
	if req.Description == nil {
		missing = append(missing, "description")
	}
	if req.StartTime == nil {
		missing = append(missing, "start_time")
	}
	if req.EndTime == nil {
		missing = append(missing, "end_time")
	}
	if req.Category == nil {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields", "missing": missing})
		return
	}

	start, err := time.Parse(eventTimeLayout, *req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must use format " + eventTimeLayout})
		return
	}
	end, err := time.Parse(eventTimeLayout, *req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must use format " + eventTimeLayout})
		return
	}

	event := models.Event{
		Title:       *req.Title,
		Description: *req.Description,
		StartTime:   start,
		EndTime:     end,
		Category:    *req.Category,
	}
	if err := h.db.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	go h.cache.Delete(context.Background(), "events:all")
	c.JSON(http.StatusCreated, gin.H{"success": true, "event": event})
}

func (h *EventsHandler) Update(c *gin.Context) {
	var event models.Event
	if err := h.db.First(&event, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.StartTime != nil {
		start, err := time.Parse(eventTimeLayout, *req.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must use format " + eventTimeLayout})
			return
		}
		event.StartTime = start
	}
	if req.EndTime != nil {
		end, err := time.Parse(eventTimeLayout, *req.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must use format " + eventTimeLayout})
			return
		}
		event.EndTime = end
	}
	if req.Category != nil {
		event.Category = *req.Category
	}

	if err := h.db.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}

	go h.cache.Delete(context.Background(), "events:all")
	c.JSON(http.StatusOK, gin.H{"success": true, "event": event})
}

func (h *EventsHandler) Delete(c *gin.Context) {
	var event models.Event
	if err := h.db.First(&event, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	if err := h.db.Delete(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}

	go h.cache.Delete(context.Background(), "events:all")
	c.JSON(http.StatusOK, gin.H{"success": true, "event_id": event.ID})
}
