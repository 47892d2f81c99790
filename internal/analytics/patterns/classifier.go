// Package patterns classifies a monthly revenue series by trend, volatility
// and predictability, and marks its peak, low and stable months.
package patterns

import (
	"math"

	"github.com/workshop-financial-engine/internal/domain/analytics"
)

// Classification thresholds
const (
	TrendThreshold          = 5.0  // percent average growth
	HighVolatilityCV        = 0.30 // coefficient of variation
	LowVolatilityCV         = 0.15
	StableDeviation         = 10.0 // percent points from the recent mean
	ErraticDeviation        = 20.0
	recentWindow            = 3
	minimumClassifiedMonths = 2
)

// Classify inspects seasonal indices and growth rates of the records.
// With fewer than two records it reports insufficient history with a
// stable trend instead of failing.
func Classify(records []analytics.MonthlyRecord) analytics.PatternAnalysis {
	result := analytics.PatternAnalysis{
		Trend:          analytics.TrendStable,
		Volatility:     analytics.LevelLow,
		Predictability: analytics.LevelLow,
		PeakMonths:     []string{},
		LowMonths:      []string{},
		StableMonths:   []string{},
	}
	if len(records) < minimumClassifiedMonths {
		result.InsufficientHistory = true
		return result
	}

	indices := make([]float64, len(records))
	growth := make([]float64, len(records))
	for i, r := range records {
		indices[i] = r.SeasonalIndex
		growth[i] = r.GrowthRate
	}

	mu, sigma := meanStd(indices)
	for _, r := range records {
		switch {
		case r.SeasonalIndex > mu+sigma:
			result.PeakMonths = append(result.PeakMonths, r.MonthLabel)
		case r.SeasonalIndex < mu-sigma:
			result.LowMonths = append(result.LowMonths, r.MonthLabel)
		default:
			result.StableMonths = append(result.StableMonths, r.MonthLabel)
		}
	}

	recent := growth
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	recentMean, _ := meanStd(recent)
	result.RecentAverageGrowth = recentMean
	switch {
	case recentMean > TrendThreshold:
		result.Trend = analytics.TrendIncreasing
	case recentMean < -TrendThreshold:
		result.Trend = analytics.TrendDecreasing
	}

	// the first month has no predecessor, so its growth rate is not a sample
	growthMean, growthStd := meanStd(growth[1:])
	cv := 0.0
	if growthMean != 0 {
		cv = growthStd / math.Abs(growthMean)
	}
	result.CoefficientOfVariation = cv
	switch {
	case cv > HighVolatilityCV:
		result.Volatility = analytics.LevelHigh
	case cv < LowVolatilityCV:
		result.Volatility = analytics.LevelLow
	default:
		result.Volatility = analytics.LevelMedium
	}

	maxDeviation := 0.0
	for _, g := range recent {
		maxDeviation = math.Max(maxDeviation, math.Abs(g-recentMean))
	}
	switch {
	case result.Volatility == analytics.LevelHigh || maxDeviation > ErraticDeviation:
		result.Predictability = analytics.LevelLow
	case result.Volatility == analytics.LevelLow && maxDeviation < StableDeviation:
		result.Predictability = analytics.LevelHigh
	default:
		result.Predictability = analytics.LevelMedium
	}

	return result
}

// meanStd returns the mean and population standard deviation
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}
