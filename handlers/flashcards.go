package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Open-Coding-Society/optivize-backend/middleware"
	"github.com/Open-Coding-Society/optivize-backend/models"
)

// FlashcardsHandler serves the user-scoped flashcard resource. Regular
// users only see and touch their own rows; admins see everything.
type FlashcardsHandler struct {
	db *gorm.DB
}

func NewFlashcardsHandler(db *gorm.DB) *FlashcardsHandler {
	return &FlashcardsHandler{db: db}
}

type flashcardRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (h *FlashcardsHandler) List(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	query := h.db.Order("created_at DESC")
	if claims.Role != "admin" {
		query = query.Where("user_id = ?", claims.UserID)
	}

	var cards []models.Flashcard
	if err := query.Find(&cards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cards})
}

func (h *FlashcardsHandler) Create(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req flashcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.Title == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields", "missing": []string{"title"}})
		return
	}

	card := models.Flashcard{Title: *req.Title, UserID: claims.UserID}
	if req.Content != nil {
		card.Content = *req.Content
	}
	if err := h.db.Create(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create flashcard"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "flashcard": card})
}

func (h *FlashcardsHandler) Update(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var card models.Flashcard
	if err := h.db.First(&card, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Flashcard not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	if card.UserID != claims.UserID && claims.Role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "flashcard belongs to another user"})
		return
	}

	var req flashcardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.Title != nil {
		card.Title = *req.Title
	}
	if req.Content != nil {
		card.Content = *req.Content
	}

	if err := h.db.Save(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update flashcard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flashcard": card})
}

func (h *FlashcardsHandler) Delete(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var card models.Flashcard
	if err := h.db.First(&card, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Flashcard not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	if card.UserID != claims.UserID && claims.Role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "flashcard belongs to another user"})
		return
	}

	if err := h.db.Delete(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete flashcard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "flashcard_id": card.ID})
}
