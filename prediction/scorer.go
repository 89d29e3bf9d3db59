package prediction

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// SuccessThreshold is the rounded score at or above which a
	// prediction counts as a success.
	SuccessThreshold = 70.0

	hashBuckets = 1000
)

// Scorer holds the shared score model. Reads take an atomic snapshot so
// an in-flight prediction is unaffected by a concurrent retrain.
type Scorer struct {
	model        atomic.Pointer[Forest]
	artifactPath string

	mu  sync.Mutex // guards rng and artifact writes
	rng *rand.Rand
}

// NewScorer creates a scorer backed by the given artifact path. seed
// controls the saturation jitter and training randomness; 0 seeds from
// the clock.
func NewScorer(artifactPath string, seed int64) *Scorer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Scorer{
		artifactPath: artifactPath,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// EncodeFeatures builds the 5-feature vector for the model. Text fields
// use a stable FNV-1a hash mod 1000; collisions are an accepted
// limitation of the encoding.
func EncodeFeatures(itemText, seasonality string, price, marketing, distribution float64) []float64 {
	return []float64{
		float64(stableHash(itemText) % hashBuckets),
		float64(stableHash(seasonality) % hashBuckets),
		price,
		marketing,
		distribution,
	}
}

func stableHash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Ready reports whether a model is currently loaded.
func (s *Scorer) Ready() bool {
	return s.model.Load() != nil
}

// ModelVersion returns the loaded model's version tag, or "" when no
// model is loaded.
func (s *Scorer) ModelVersion() string {
	m := s.model.Load()
	if m == nil {
		return ""
	}
	return m.Version
}

// Score evaluates the current model for a candidate item and returns a
// success score in [0, 100]. Scores landing exactly on 0 or 100 are
// nudged inward by a small random offset so persisted history never
// saturates at the extremes.
func (s *Scorer) Score(itemText, seasonality string, price, marketing, distribution float64) (float64, error) {
	model := s.model.Load()
	if model == nil {
		return 0, ErrModelUnavailable
	}

	features := EncodeFeatures(itemText, seasonality, price, marketing, distribution)
	raw := model.Predict(features)
	score := math.Max(0, math.Min(100, raw))

	if score == 0 || score == 100 {
		s.mu.Lock()
		offset := 0.5 + s.rng.Float64()*1.5
		s.mu.Unlock()
		if score == 0 {
			score += offset
		} else {
			score -= offset
		}
	}
	return score, nil
}

// LoadArtifact reads a previously persisted model from disk. A missing
// artifact is not an error: the scorer simply stays unready until the
// first training run.
func (s *Scorer) LoadArtifact() error {
	data, err := os.ReadFile(s.artifactPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read model artifact: %w", err)
	}

	var forest Forest
	if err := json.Unmarshal(data, &forest); err != nil {
		return fmt.Errorf("decode model artifact: %w", err)
	}
	s.model.Store(&forest)
	return nil
}

// persist writes the forest to the artifact path via a temp file and
// rename, so a crash mid-write never leaves a truncated artifact.
func (s *Scorer) persist(forest *Forest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(forest)
	if err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}

	dir := filepath.Dir(s.artifactPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "model-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.artifactPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace model artifact: %w", err)
	}
	return nil
}
