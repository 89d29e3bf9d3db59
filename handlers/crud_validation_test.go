package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

// Validation runs before any database access, so these paths are
// exercised without a connection.

func decodeMissing(t *testing.T, body []byte) []string {
	t.Helper()
	var resp struct {
		Message string   `json:"message"`
		Missing []string `json:"missing"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Message != "Missing required fields" {
		t.Errorf("message = %q", resp.Message)
	}
	return resp.Missing
}

func TestEventCreateMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEventsHandler(nil, nil)
	router := gin.New()
	router.POST("/api/events", h.Create)

	w := postJSON(router, "/api/events", `{"title": "Bake Sale"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	missing := decodeMissing(t, w.Body.Bytes())
	want := []string{"description", "start_time", "end_time", "category"}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d] = %q, want %q", i, missing[i], want[i])
		}
	}
}

func TestEventCreateBadTimeFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEventsHandler(nil, nil)
	router := gin.New()
	router.POST("/api/events", h.Create)

	w := postJSON(router, "/api/events",
		`{"title": "Bake Sale", "description": "annual", "start_time": "not-a-time", "end_time": "2025-06-01 15:00:00", "category": "community"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestShipmentCreateMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewShipmentsHandler(nil)
	router := gin.New()
	router.POST("/api/shipments", h.Create)

	w := postJSON(router, "/api/shipments", `{"inventory": "Chocolate Chip"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	missing := decodeMissing(t, w.Body.Bytes())
	want := []string{"amount", "transport_method"}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
}

func TestShipmentCreateBadDeliveryDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewShipmentsHandler(nil)
	router := gin.New()
	router.POST("/api/shipments", h.Create)

	w := postJSON(router, "/api/shipments",
		`{"inventory": "Chocolate Chip", "amount": 40, "transport_method": "truck", "delivery_date": "June 1st"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
