package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workshop-financial-engine/internal/domain/analytics"
)

func types(recs []analytics.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Type
	}
	return out
}

func TestEngine_DefaultRules(t *testing.T) {
	engine := NewDefaultEngine(DefaultThresholds())

	tests := []struct {
		name     string
		input    Input
		expected []string
	}{
		{
			name: "nothing fires",
			input: Input{
				Metrics:  analytics.Metrics{TransactionCount: 10, AverageTransactionValue: 800_000, LatestGrowthRate: 5, CorporateShare: 40},
				Patterns: analytics.PatternAnalysis{Volatility: analytics.LevelLow},
			},
			expected: []string{},
		},
		{
			name: "growth",
			input: Input{
				Metrics: analytics.Metrics{TransactionCount: 10, AverageTransactionValue: 800_000, LatestGrowthRate: 10.5},
			},
			expected: []string{"growth"},
		},
		{
			name: "growth exactly at threshold does not fire",
			input: Input{
				Metrics: analytics.Metrics{TransactionCount: 10, AverageTransactionValue: 800_000, LatestGrowthRate: 10},
			},
			expected: []string{},
		},
		{
			name: "corporate share and low ticket",
			input: Input{
				Metrics: analytics.Metrics{TransactionCount: 4, AverageTransactionValue: 300_000, CorporateShare: 75},
			},
			expected: []string{"strategy", "opportunity"},
		},
		{
			name: "no transactions is not a low ticket",
			input: Input{
				Metrics: analytics.Metrics{},
			},
			expected: []string{},
		},
		{
			name: "all rules in order",
			input: Input{
				Metrics:  analytics.Metrics{TransactionCount: 4, AverageTransactionValue: 100, LatestGrowthRate: 50, CorporateShare: 80, LatestRevenue: 1000},
				Patterns: analytics.PatternAnalysis{Volatility: analytics.LevelHigh},
				Forecast: analytics.ForecastPoint{Revenue: 500, Confidence: 75, MonthLabel: "2025-04"},
			},
			expected: []string{"growth", "strategy", "opportunity", "stability", "forecast"},
		},
		{
			name: "insufficient history suppresses volatility",
			input: Input{
				Metrics:  analytics.Metrics{TransactionCount: 1, AverageTransactionValue: 900_000},
				Patterns: analytics.PatternAnalysis{Volatility: analytics.LevelHigh, InsufficientHistory: true},
			},
			expected: []string{},
		},
		{
			name: "zero confidence forecast is ignored",
			input: Input{
				Metrics:  analytics.Metrics{TransactionCount: 1, AverageTransactionValue: 900_000, LatestRevenue: 900_000},
				Forecast: analytics.ForecastPoint{Revenue: 0},
			},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, types(engine.Evaluate(tt.input)))
		})
	}
}

func TestEngine_CorporateStrategy(t *testing.T) {
	engine := NewDefaultEngine(DefaultThresholds())

	recs := engine.Evaluate(Input{
		Metrics: analytics.Metrics{TransactionCount: 4, AverageTransactionValue: 700_000, CorporateShare: 75},
	})

	require.Len(t, recs, 1)
	assert.Equal(t, "strategy", recs[0].Type)
	assert.Equal(t, analytics.PriorityMedium, recs[0].Priority)
	assert.True(t, recs[0].Actionable)
	assert.Contains(t, recs[0].Description, "75.0%")
}

func TestEngine_ForecastDrop(t *testing.T) {
	engine := NewDefaultEngine(DefaultThresholds())
	base := analytics.Metrics{TransactionCount: 3, AverageTransactionValue: 900_000, LatestRevenue: 1000}

	recs := engine.Evaluate(Input{Metrics: base, Forecast: analytics.ForecastPoint{Revenue: 901, Confidence: 75}})
	assert.Empty(t, recs)

	recs = engine.Evaluate(Input{Metrics: base, Forecast: analytics.ForecastPoint{Revenue: 850, Confidence: 75, MonthLabel: "2025-04"}})
	require.Len(t, recs, 1)
	assert.Equal(t, "forecast", recs[0].Type)
	assert.Contains(t, recs[0].Description, "15.0%")
}

func TestEngine_CustomRules(t *testing.T) {
	engine := NewEngine(Rule{
		Name: "always",
		When: func(Input) bool { return true },
		Build: func(Input) analytics.Recommendation {
			return analytics.Recommendation{Type: "custom", Priority: analytics.PriorityLow}
		},
	})

	assert.Equal(t, []string{"always"}, engine.Rules())
	assert.Equal(t, []string{"custom"}, types(engine.Evaluate(Input{})))
	assert.Equal(t, []string{"growth", "corporate_concentration", "low_ticket", "volatility", "forecast_drop"},
		NewDefaultEngine(DefaultThresholds()).Rules())
}
