package prediction

import (
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// MinTrainingSamples is the minimum number of valid labeled samples a
// training batch must contain.
const MinTrainingSamples = 5

// Sample is one labeled training observation.
type Sample struct {
	ItemText             string  `json:"item_text"`
	Seasonality          string  `json:"seasonality"`
	Price                float64 `json:"price"`
	Marketing            float64 `json:"marketing"`
	DistributionChannels float64 `json:"distribution_channels"`
	SuccessScore         float64 `json:"success_score"`
}

// Valid reports whether the sample can be used for training. Invalid
// samples are skipped, not fatal to the batch.
func (s Sample) Valid() bool {
	return s.ItemText != "" &&
		s.Seasonality != "" &&
		s.Price > 0 &&
		s.SuccessScore >= 0 && s.SuccessScore <= 100
}

// TrainResult reports the outcome of a training run, including in-sample
// fit quality.
type TrainResult struct {
	SamplesUsed  int     `json:"samples_used"`
	R2           float64 `json:"r2_score"`
	MAE          float64 `json:"mae"`
	ModelVersion string  `json:"model_version"`
}

// Train fits a fresh forest on the valid samples, persists it to the
// artifact path, and atomically swaps it in as the shared model. The
// current model is untouched on any error.
func (s *Scorer) Train(samples []Sample) (*TrainResult, error) {
	valid := make([]Sample, 0, len(samples))
	for _, sample := range samples {
		if sample.Valid() {
			valid = append(valid, sample)
		}
	}
	if len(valid) < MinTrainingSamples {
		return nil, &InsufficientDataError{Valid: len(valid), Min: MinTrainingSamples}
	}

	X := make([][]float64, len(valid))
	y := make([]float64, len(valid))
	for i, sample := range valid {
		X[i] = EncodeFeatures(sample.ItemText, sample.Seasonality,
			sample.Price, sample.Marketing, sample.DistributionChannels)
		y[i] = sample.SuccessScore
	}

	s.mu.Lock()
	forest := FitForest(X, y, DefaultForestConfig(), s.rng)
	s.mu.Unlock()
	forest.Version = uuid.NewString()[:8]

	estimates := make([]float64, len(valid))
	sumAbs := 0.0
	for i := range X {
		estimates[i] = forest.Predict(X[i])
		sumAbs += math.Abs(estimates[i] - y[i])
	}
	r2 := stat.RSquaredFrom(estimates, y, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0
	}
	mae := sumAbs / float64(len(valid))

	if err := s.persist(forest); err != nil {
		return nil, err
	}
	s.model.Store(forest)

	return &TrainResult{
		SamplesUsed:  len(valid),
		R2:           r2,
		MAE:          mae,
		ModelVersion: forest.Version,
	}, nil
}
