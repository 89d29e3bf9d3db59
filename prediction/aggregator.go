package prediction

import (
	"context"
	"log"

	"github.com/montanaflynn/stats"
)

const (
	// DefaultMarketingLevel substitutes for the global marketing average
	// when no successful records exist yet.
	DefaultMarketingLevel = 5.0

	// placeholderStdDev avoids overstating confidence downstream when a
	// category has fewer than two successful samples.
	placeholderStdDev = 1.0
)

// PriceStats summarizes the prices of successful records in a category.
// SampleCount == 0 means the values are default-derived from the
// category's base price.
type PriceStats struct {
	Average     float64 `json:"average"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	StdDev      float64 `json:"std_dev"`
	SampleCount int     `json:"sample_count"`
}

// MarketingStats summarizes marketing levels across all successful
// records.
type MarketingStats struct {
	Average     float64 `json:"average"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	SampleCount int     `json:"sample_count"`
}

// StatsSource supplies the raw per-record values the aggregator
// summarizes. Only records flagged successful are included.
type StatsSource interface {
	SuccessfulPricesForCategory(ctx context.Context, category string) ([]float64, error)
	SuccessfulMarketingLevels(ctx context.Context) ([]float64, error)
}

// Aggregator computes summary statistics over persisted prediction
// history. It never fails outward: on any error or empty result it
// substitutes the category base price or the fixed marketing default.
type Aggregator struct {
	source StatsSource
}

func NewAggregator(source StatsSource) *Aggregator {
	return &Aggregator{source: source}
}

// PriceStatsForCategory returns price statistics for successful records
// in the category, falling back to the configured base price when none
// exist.
func (a *Aggregator) PriceStatsForCategory(ctx context.Context, category string) PriceStats {
	prices, err := a.source.SuccessfulPricesForCategory(ctx, category)
	if err != nil {
		log.Printf("price stats query failed for category=%s, using base price: %v", category, err)
		prices = nil
	}
	return computePriceStats(prices, CategoryFor(category).BasePrice)
}

// GlobalMarketingStats returns marketing statistics over all successful
// records, falling back to the fixed default when none exist.
func (a *Aggregator) GlobalMarketingStats(ctx context.Context) MarketingStats {
	levels, err := a.source.SuccessfulMarketingLevels(ctx)
	if err != nil {
		log.Printf("marketing stats query failed, using default: %v", err)
		levels = nil
	}
	return computeMarketingStats(levels)
}

func computePriceStats(prices []float64, basePrice float64) PriceStats {
	if len(prices) == 0 {
		return PriceStats{
			Average: basePrice,
			Min:     basePrice,
			Max:     basePrice,
			StdDev:  placeholderStdDev,
		}
	}

	mean, _ := stats.Mean(prices)
	min, _ := stats.Min(prices)
	max, _ := stats.Max(prices)

	stdDev := placeholderStdDev
	if len(prices) > 1 {
		if sd, err := stats.StandardDeviationSample(prices); err == nil && sd > 0 {
			stdDev = sd
		}
	}

	return PriceStats{
		Average:     mean,
		Min:         min,
		Max:         max,
		StdDev:      stdDev,
		SampleCount: len(prices),
	}
}

func computeMarketingStats(levels []float64) MarketingStats {
	if len(levels) == 0 {
		return MarketingStats{
			Average: DefaultMarketingLevel,
			Min:     DefaultMarketingLevel,
			Max:     DefaultMarketingLevel,
		}
	}

	mean, _ := stats.Mean(levels)
	min, _ := stats.Min(levels)
	max, _ := stats.Max(levels)

	return MarketingStats{
		Average:     mean,
		Min:         min,
		Max:         max,
		SampleCount: len(levels),
	}
}
