package prediction

import (
	"fmt"
	"math"
	"strings"
)

// InsightReport is the structured explanation returned alongside a score.
type InsightReport struct {
	ScoreTier        ScoreTier        `json:"score_tier"`
	PricePositioning PricePositioning `json:"price_positioning"`
	MarketingRating  MarketingRating  `json:"marketing_rating"`
	SeasonalityMatch SeasonalityMatch `json:"seasonality_match"`
	ProbabilityRange ProbabilityRange `json:"probability_range"`
	Recommendations  []string         `json:"recommendations"`
}

type ScoreTier struct {
	Label       string  `json:"label"`
	Description string  `json:"description"`
	RiskLevel   float64 `json:"risk_level"`
}

type PricePositioning struct {
	Label       string  `json:"label"`
	PercentDiff float64 `json:"percent_diff"`
	Explanation string  `json:"explanation"`
}

type MarketingRating struct {
	Label string  `json:"label"`
	Gap   float64 `json:"gap"`
}

type SeasonalityMatch struct {
	Match          bool   `json:"match"`
	ExpectedSeason string `json:"expected_season"`
	Impact         string `json:"impact"`
}

type ProbabilityRange struct {
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
	Confidence string  `json:"confidence"`
}

// maxRecommendations caps the advisory list length.
const maxRecommendations = 10

type scoreBand struct {
	Floor       float64
	Label       string
	Description string
}

// Six fixed bands, highest first.
var scoreBands = []scoreBand{
	{90, "Exceptional", "Outstanding success potential; the market profile strongly favors this item"},
	{80, "Strong", "High success potential with a favorable market fit"},
	{70, "Promising", "Good success potential; a few factors could be tuned further"},
	{60, "Moderate", "Mixed outlook; success depends on execution of pricing and marketing"},
	{50, "Weak", "Below-average outlook; significant adjustments recommended before launch"},
	{0, "Poor", "Low success potential; the concept needs rework before committing resources"},
}

// Synthesize combines the model score with historical statistics and the
// fixed rule tables into a complete report. Pure function of its inputs.
func Synthesize(score, price, marketing, distribution float64, seasonality, category string, priceStats PriceStats, marketingStats MarketingStats) *InsightReport {
	tier := tierFor(score)
	pricePos := positionPrice(price, priceStats)
	mktRating := rateMarketing(marketing, marketingStats)
	seasonMatch := matchSeason(seasonality, category)
	probRange := probabilityRange(score)

	return &InsightReport{
		ScoreTier:        tier,
		PricePositioning: pricePos,
		MarketingRating:  mktRating,
		SeasonalityMatch: seasonMatch,
		ProbabilityRange: probRange,
		Recommendations:  buildRecommendations(score, price, marketing, priceStats, marketingStats, seasonMatch, category),
	}
}

func tierFor(score float64) ScoreTier {
	for _, band := range scoreBands {
		if score >= band.Floor {
			return ScoreTier{
				Label:       band.Label,
				Description: band.Description,
				RiskLevel:   100 - score,
			}
		}
	}
	last := scoreBands[len(scoreBands)-1]
	return ScoreTier{Label: last.Label, Description: last.Description, RiskLevel: 100 - score}
}

func positionPrice(price float64, stats PriceStats) PricePositioning {
	percentDiff := 0.0
	if stats.Average > 0 {
		percentDiff = (price - stats.Average) / stats.Average * 100
	}

	var label string
	switch {
	case price > stats.Average+1.5*stats.StdDev:
		label = "Premium"
	case price > stats.Average+0.5*stats.StdDev:
		label = "High-end"
	case price >= stats.Average-0.5*stats.StdDev:
		label = "Competitive"
	default:
		label = "Value"
	}

	direction := "above"
	if percentDiff < 0 {
		direction = "below"
	}
	explanation := fmt.Sprintf("Price is %.1f%% %s the category average of $%.2f",
		math.Abs(percentDiff), direction, stats.Average)

	return PricePositioning{Label: label, PercentDiff: percentDiff, Explanation: explanation}
}

func rateMarketing(marketing float64, stats MarketingStats) MarketingRating {
	gap := marketing - stats.Average
	var label string
	switch {
	case gap >= 1:
		label = "Excellent"
	case gap >= -1:
		label = "Good"
	default:
		label = "Below Average"
	}
	return MarketingRating{Label: label, Gap: gap}
}

func matchSeason(seasonality, category string) SeasonalityMatch {
	expected := CategoryFor(category).Season
	match := expected == SeasonAllYear ||
		strings.EqualFold(seasonality, SeasonAllYear) ||
		strings.EqualFold(seasonality, expected)

	impact := fmt.Sprintf("Launch timing aligns with the %s demand window for %s items", expected, category)
	if !match {
		impact = fmt.Sprintf("%s items historically peak in %s, not %s; off-season launches see reduced demand",
			capitalize(category), expected, seasonality)
	}

	return SeasonalityMatch{Match: match, ExpectedSeason: expected, Impact: impact}
}

func probabilityRange(score float64) ProbabilityRange {
	low := math.Max(0, score-15)
	high := math.Min(100, score+15)

	confidence := "Medium"
	if high-low < 20 {
		confidence = "High"
	}
	return ProbabilityRange{Low: low, High: high, Confidence: confidence}
}

func buildRecommendations(score, price, marketing float64, priceStats PriceStats, marketingStats MarketingStats, season SeasonalityMatch, category string) []string {
	var recs []string

	switch {
	case score >= 90:
		recs = append(recs,
			"Scale production and distribution to meet expected demand")
	case score >= 70:
		recs = append(recs,
			"Maintain the current formulation and monitor early sales closely")
	case score >= 50:
		recs = append(recs,
			"Run a limited pilot before committing full volume",
			"Revisit the pricing and marketing mix")
	default:
		recs = append(recs,
			"Reformulate the product concept",
			"Delay launch pending further market testing")
	}

	switch {
	case price > priceStats.Average+priceStats.StdDev:
		recs = append(recs,
			fmt.Sprintf("Price sits well above the %s category average of $%.2f; consider a lower introductory price", category, priceStats.Average))
	case price < priceStats.Average-priceStats.StdDev:
		recs = append(recs,
			fmt.Sprintf("Price is below %s category norms; test a modest increase to protect margin", category))
	}

	switch {
	case marketing < marketingStats.Average:
		recs = append(recs,
			fmt.Sprintf("Increase marketing investment toward the successful-sample average of %.1f", marketingStats.Average))
	case marketing >= marketingStats.Average+2:
		recs = append(recs,
			"Marketing level already exceeds successful peers; consider reallocating spend to distribution")
	}

	if !season.Match {
		recs = append(recs,
			fmt.Sprintf("Time the launch for %s, when demand for %s items peaks", season.ExpectedSeason, category))
	}

	return dedupeCapped(recs, maxRecommendations)
}

// dedupeCapped drops empty strings and duplicates while preserving
// order, then truncates to the cap.
func dedupeCapped(recs []string, limit int) []string {
	seen := make(map[string]struct{}, len(recs))
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
