package prediction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optivize_predictions_generated_total",
		Help: "Total number of success scores computed.",
	})
	PredictionsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optivize_predictions_stored_total",
		Help: "Total number of prediction records stored in the database.",
	})
	PredictionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optivize_predictions_failed_total",
		Help: "Total number of prediction failures.",
	})
	PredictionsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optivize_predictions_published_total",
		Help: "Total number of predictions published to Redis.",
	})
	TrainingRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optivize_training_runs_total",
		Help: "Total number of completed training runs.",
	})
	TrainingFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optivize_training_failed_total",
		Help: "Total number of rejected or failed training runs.",
	})
	PredictDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optivize_predict_duration_seconds",
		Help:    "Duration of a full predict pipeline pass.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
	})
	TrainDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optivize_train_duration_seconds",
		Help:    "Duration of a training run.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0},
	})
)
