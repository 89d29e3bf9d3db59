package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Open-Coding-Society/optivize-backend/prediction"
)

// newPredictionRouter wires only the pieces the validation and
// model-availability paths reach; storage-backed paths need a database
// and are covered by integration tests.
func newPredictionRouter(t *testing.T, scorer *prediction.Scorer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewPredictionHandler(scorer, nil, nil, nil)
	router := gin.New()
	router.POST("/api/predict", h.Predict)
	router.POST("/api/train", h.Train)
	return router
}

func untrainedScorer(t *testing.T) *prediction.Scorer {
	t.Helper()
	return prediction.NewScorer(filepath.Join(t.TempDir(), "model.json"), 1)
}

func postJSON(router *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPredictMissingFields(t *testing.T) {
	router := newPredictionRouter(t, untrainedScorer(t))

	w := postJSON(router, "/api/predict",
		`{"item_text": "Chocolate Chip", "price": 4.50}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp struct {
		Message string   `json:"message"`
		Missing []string `json:"missing"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Message != "Missing required fields" {
		t.Errorf("message = %q", resp.Message)
	}
	want := []string{"seasonality", "marketing", "distribution_channels"}
	if len(resp.Missing) != len(want) {
		t.Fatalf("missing = %v, want %v", resp.Missing, want)
	}
	for i, field := range want {
		if resp.Missing[i] != field {
			t.Errorf("missing[%d] = %q, want %q", i, resp.Missing[i], field)
		}
	}
}

func TestPredictEmptyBody(t *testing.T) {
	router := newPredictionRouter(t, untrainedScorer(t))

	w := postJSON(router, "/api/predict", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp struct {
		Missing []string `json:"missing"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Missing) != 5 {
		t.Errorf("missing = %v, want all 5 fields", resp.Missing)
	}
}

func TestPredictInvalidJSON(t *testing.T) {
	router := newPredictionRouter(t, untrainedScorer(t))

	w := postJSON(router, "/api/predict", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPredictModelNotTrained(t *testing.T) {
	router := newPredictionRouter(t, untrainedScorer(t))

	w := postJSON(router, "/api/predict",
		`{"item_text": "Chocolate Chip", "seasonality": "All Year", "price": 4.50, "marketing": 8, "distribution_channels": 6}`)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Model not trained") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestTrainMissingSamples(t *testing.T) {
	router := newPredictionRouter(t, untrainedScorer(t))

	w := postJSON(router, "/api/train", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp struct {
		Missing []string `json:"missing"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Missing) != 1 || resp.Missing[0] != "samples" {
		t.Errorf("missing = %v, want [samples]", resp.Missing)
	}
}

func TestTrainInsufficientSamples(t *testing.T) {
	scorer := untrainedScorer(t)
	router := newPredictionRouter(t, scorer)

	w := postJSON(router, "/api/train",
		`{"samples": [{"item_text": "Chocolate Chip", "seasonality": "All Year", "price": 4.5, "marketing": 8, "distribution_channels": 6, "success_score": 90}]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if scorer.Ready() {
		t.Error("failed training must not install a model")
	}
}

func TestTrainSuccess(t *testing.T) {
	scorer := untrainedScorer(t)
	router := newPredictionRouter(t, scorer)

	samples := []prediction.Sample{
		{ItemText: "Chocolate Chip", Seasonality: "All Year", Price: 4.00, Marketing: 9, DistributionChannels: 8, SuccessScore: 92},
		{ItemText: "Double Chocolate", Seasonality: "All Year", Price: 4.50, Marketing: 8, DistributionChannels: 7, SuccessScore: 88},
		{ItemText: "Lemon Bar", Seasonality: "Summer", Price: 3.50, Marketing: 3, DistributionChannels: 2, SuccessScore: 35},
		{ItemText: "Pumpkin Spice", Seasonality: "Winter", Price: 5.00, Marketing: 7, DistributionChannels: 6, SuccessScore: 75},
		{ItemText: "Plain Sugar", Seasonality: "All Year", Price: 2.50, Marketing: 2, DistributionChannels: 1, SuccessScore: 20},
	}
	body, _ := json.Marshal(map[string]any{"samples": samples})

	w := postJSON(router, "/api/train", string(body))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success      bool    `json:"success"`
		SamplesUsed  int     `json:"samples_used"`
		R2           float64 `json:"r2_score"`
		MAE          float64 `json:"mae"`
		ModelVersion string  `json:"model_version"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success {
		t.Error("success should be true")
	}
	if resp.SamplesUsed != 5 {
		t.Errorf("samples_used = %d, want 5", resp.SamplesUsed)
	}
	if resp.ModelVersion == "" {
		t.Error("model_version should be set")
	}
	if !scorer.Ready() {
		t.Error("scorer should be ready after training")
	}
}
