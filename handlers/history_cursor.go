package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Open-Coding-Society/optivize-backend/models"
	"github.com/Open-Coding-Society/optivize-backend/store"
)

// Prediction history is paged with an opaque cursor that pins the
// (created_at, id) position of the last record served, matching the
// feed's (created_at DESC, id DESC) ordering. Timestamp alone is not
// enough: bursts of predictions can share a created_at.

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200

	cursorSeparator = '~'
)

type historyPage struct {
	Limit  int
	Cursor *store.RecordCursor
}

type historyResponse struct {
	Records    []models.PredictionRecord `json:"records"`
	NextCursor string                    `json:"next_cursor,omitempty"`
	HasMore    bool                      `json:"has_more"`
}

func parseHistoryPage(c *gin.Context) historyPage {
	p := historyPage{Limit: defaultHistoryLimit}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			p.Limit = l
		}
	}
	if p.Limit > maxHistoryLimit {
		p.Limit = maxHistoryLimit
	}

	// A cursor that fails to parse is treated as absent: the client
	// gets the first page rather than an error.
	p.Cursor = parseHistoryCursor(c.Query("cursor"))

	return p
}

// encodeHistoryCursor renders a record position as "<RFC3339Nano>~<id>".
func encodeHistoryCursor(createdAt time.Time, id uint) string {
	return fmt.Sprintf("%s%c%d", createdAt.Format(time.RFC3339Nano), cursorSeparator, id)
}

func parseHistoryCursor(raw string) *store.RecordCursor {
	if raw == "" {
		return nil
	}
	sep := strings.LastIndexByte(raw, cursorSeparator)
	if sep < 0 {
		return nil
	}
	createdAt, err := time.Parse(time.RFC3339Nano, raw[:sep])
	if err != nil {
		return nil
	}
	id, err := strconv.ParseUint(raw[sep+1:], 10, 64)
	if err != nil {
		return nil
	}
	return &store.RecordCursor{CreatedAt: createdAt, ID: uint(id)}
}
