package prediction

import (
	"math"
	"testing"
)

func defaultPriceStats() PriceStats {
	return PriceStats{Average: 4.50, Min: 3.00, Max: 6.00, StdDev: 0.75, SampleCount: 12}
}

func defaultMarketingStats() MarketingStats {
	return MarketingStats{Average: 6.0, Min: 2.0, Max: 10.0, SampleCount: 12}
}

func TestTierBands(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "Exceptional"},
		{90, "Exceptional"},
		{89.9, "Strong"},
		{80, "Strong"},
		{75, "Promising"},
		{70, "Promising"},
		{65, "Moderate"},
		{55, "Weak"},
		{49.9, "Poor"},
		{0, "Poor"},
	}
	for _, tt := range tests {
		tier := tierFor(tt.score)
		if tier.Label != tt.want {
			t.Errorf("tierFor(%v).Label = %q, want %q", tt.score, tier.Label, tt.want)
		}
		if math.Abs(tier.RiskLevel-(100-tt.score)) > 1e-9 {
			t.Errorf("tierFor(%v).RiskLevel = %v, want %v", tt.score, tier.RiskLevel, 100-tt.score)
		}
		if tier.Description == "" {
			t.Errorf("tierFor(%v) has empty description", tt.score)
		}
	}
}

func TestPositionPrice(t *testing.T) {
	stats := defaultPriceStats()
	tests := []struct {
		name  string
		price float64
		want  string
	}{
		{"far above average", 6.50, "Premium"},
		{"somewhat above average", 5.00, "High-end"},
		{"near average", 4.50, "Competitive"},
		{"slightly below average", 4.20, "Competitive"},
		{"well below average", 3.00, "Value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := positionPrice(tt.price, stats)
			if got.Label != tt.want {
				t.Errorf("positionPrice(%v) = %q, want %q", tt.price, got.Label, tt.want)
			}
			if got.Explanation == "" {
				t.Error("explanation should not be empty")
			}
		})
	}
}

func TestPositionPricePercentDiff(t *testing.T) {
	got := positionPrice(5.40, PriceStats{Average: 4.50, StdDev: 1.0})
	if math.Abs(got.PercentDiff-20.0) > 0.01 {
		t.Errorf("PercentDiff = %v, want 20.0", got.PercentDiff)
	}
}

func TestRateMarketing(t *testing.T) {
	stats := defaultMarketingStats()
	tests := []struct {
		marketing float64
		want      string
	}{
		{9, "Excellent"},
		{7, "Excellent"},
		{6, "Good"},
		{5, "Good"},
		{3, "Below Average"},
	}
	for _, tt := range tests {
		got := rateMarketing(tt.marketing, stats)
		if got.Label != tt.want {
			t.Errorf("rateMarketing(%v) = %q, want %q", tt.marketing, got.Label, tt.want)
		}
		if math.Abs(got.Gap-(tt.marketing-stats.Average)) > 1e-9 {
			t.Errorf("rateMarketing(%v).Gap = %v", tt.marketing, got.Gap)
		}
	}
}

func TestMatchSeason(t *testing.T) {
	tests := []struct {
		name        string
		seasonality string
		category    string
		want        bool
	}{
		{"all-year category always matches", "Winter", "chocolate", true},
		{"all-year request always matches", "All Year", "seasonal", true},
		{"seasonal match", "Winter", "seasonal", true},
		{"seasonal mismatch", "Summer", "seasonal", false},
		{"fruit peaks in summer", "Summer", "fruit", true},
		{"fruit off-season", "Winter", "fruit", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchSeason(tt.seasonality, tt.category)
			if got.Match != tt.want {
				t.Errorf("matchSeason(%q, %q) = %v, want %v", tt.seasonality, tt.category, got.Match, tt.want)
			}
			if got.Impact == "" {
				t.Error("impact should not be empty")
			}
		})
	}
}

func TestProbabilityRange(t *testing.T) {
	tests := []struct {
		score          float64
		wantLow        float64
		wantHigh       float64
		wantConfidence string
	}{
		{50, 35, 65, "Medium"},
		{95, 80, 100, "Medium"},
		{5, 0, 20, "Medium"},
		{99, 84, 100, "High"},
		{1, 0, 16, "High"},
	}
	for _, tt := range tests {
		got := probabilityRange(tt.score)
		if got.Low != tt.wantLow || got.High != tt.wantHigh {
			t.Errorf("probabilityRange(%v) = [%v, %v], want [%v, %v]",
				tt.score, got.Low, got.High, tt.wantLow, tt.wantHigh)
		}
		if got.Confidence != tt.wantConfidence {
			t.Errorf("probabilityRange(%v).Confidence = %q, want %q",
				tt.score, got.Confidence, tt.wantConfidence)
		}
	}
}

func TestSynthesizeCompleteReport(t *testing.T) {
	report := Synthesize(82, 4.75, 8, 6, "All Year", "chocolate",
		defaultPriceStats(), defaultMarketingStats())

	if report.ScoreTier.Label != "Strong" {
		t.Errorf("ScoreTier.Label = %q", report.ScoreTier.Label)
	}
	if report.SeasonalityMatch.ExpectedSeason != SeasonAllYear {
		t.Errorf("ExpectedSeason = %q", report.SeasonalityMatch.ExpectedSeason)
	}
	if len(report.Recommendations) == 0 {
		t.Fatal("report should contain recommendations")
	}
}

func TestRecommendationsCappedAndNonEmpty(t *testing.T) {
	// A low score with extreme price/marketing deviation and a seasonal
	// mismatch triggers every rule family at once.
	report := Synthesize(20, 20.0, 0, 1, "Summer", "seasonal",
		defaultPriceStats(), defaultMarketingStats())

	if len(report.Recommendations) > maxRecommendations {
		t.Errorf("recommendations length = %d, cap is %d", len(report.Recommendations), maxRecommendations)
	}
	seen := make(map[string]bool)
	for i, rec := range report.Recommendations {
		if rec == "" {
			t.Errorf("recommendation %d is empty", i)
		}
		if seen[rec] {
			t.Errorf("duplicate recommendation: %q", rec)
		}
		seen[rec] = true
	}
}

func TestDedupeCapped(t *testing.T) {
	in := []string{"a", "", "b", "a", "c", "b", "d"}
	got := dedupeCapped(in, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("got %v", got)
	}
}
