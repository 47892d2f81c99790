// Package recommend turns aggregated metrics, pattern analysis and the
// forecast into an ordered list of recommendations.
package recommend

import (
	"fmt"

	"github.com/workshop-financial-engine/internal/domain/analytics"
)

// Input is everything a rule may inspect
type Input struct {
	Metrics  analytics.Metrics
	Patterns analytics.PatternAnalysis
	Forecast analytics.ForecastPoint
}

// Thresholds parameterise the default rules
type Thresholds struct {
	GrowthRate          float64 // percent
	CorporateShare      float64 // percent of transactions
	LowTransactionValue float64
	ForecastDrop        float64 // percent below the latest month
}

// DefaultThresholds matches the stock configuration
func DefaultThresholds() Thresholds {
	return Thresholds{
		GrowthRate:          10,
		CorporateShare:      60,
		LowTransactionValue: 500_000,
		ForecastDrop:        10,
	}
}

// Rule fires Build when When holds
type Rule struct {
	Name  string
	When  func(Input) bool
	Build func(Input) analytics.Recommendation
}

// Engine evaluates rules in order
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over the given rules
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// NewDefaultEngine creates an engine with DefaultRules
func NewDefaultEngine(t Thresholds) *Engine {
	return NewEngine(DefaultRules(t)...)
}

// Rules returns the rule names in evaluation order
func (e *Engine) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// Evaluate returns the recommendations of every matching rule, in rule order.
// The result is never nil.
func (e *Engine) Evaluate(in Input) []analytics.Recommendation {
	out := []analytics.Recommendation{}
	for _, r := range e.rules {
		if r.When(in) {
			out = append(out, r.Build(in))
		}
	}
	return out
}

// DefaultRules is the stock rule chain
func DefaultRules(t Thresholds) []Rule {
	return []Rule{
		{
			Name: "growth",
			When: func(in Input) bool { return in.Metrics.LatestGrowthRate > t.GrowthRate },
			Build: func(in Input) analytics.Recommendation {
				return analytics.Recommendation{
					Type:            "growth",
					Title:           "Scale capacity for rising demand",
					Description:     fmt.Sprintf("Revenue grew %.1f%% last month. Add mechanic hours and parts stock to keep up.", in.Metrics.LatestGrowthRate),
					Priority:        analytics.PriorityHigh,
					Actionable:      true,
					EstimatedImpact: "Avoid lost sales from booking backlog",
				}
			},
		},
		{
			Name: "corporate_concentration",
			When: func(in Input) bool { return in.Metrics.CorporateShare > t.CorporateShare },
			Build: func(in Input) analytics.Recommendation {
				return analytics.Recommendation{
					Type:            "strategy",
					Title:           "Grow the retail customer base",
					Description:     fmt.Sprintf("Corporate customers account for %.1f%% of transactions. Retail promotions would reduce dependence on fleet contracts.", in.Metrics.CorporateShare),
					Priority:        analytics.PriorityMedium,
					Actionable:      true,
					EstimatedImpact: "Lower revenue concentration risk",
				}
			},
		},
		{
			Name: "low_ticket",
			When: func(in Input) bool {
				return in.Metrics.TransactionCount > 0 && in.Metrics.AverageTransactionValue < t.LowTransactionValue
			},
			Build: func(in Input) analytics.Recommendation {
				return analytics.Recommendation{
					Type:            "opportunity",
					Title:           "Raise the average ticket",
					Description:     fmt.Sprintf("Average transaction value is %.0f. Offer service bundles and inspection add-ons at check-in.", in.Metrics.AverageTransactionValue),
					Priority:        analytics.PriorityMedium,
					Actionable:      true,
					EstimatedImpact: "Higher revenue per visit",
				}
			},
		},
		{
			Name: "volatility",
			When: func(in Input) bool {
				return !in.Patterns.InsufficientHistory && in.Patterns.Volatility == analytics.LevelHigh
			},
			Build: func(in Input) analytics.Recommendation {
				return analytics.Recommendation{
					Type:        "stability",
					Title:       "Smooth out monthly revenue swings",
					Description: fmt.Sprintf("Monthly growth varies widely (coefficient of variation %.2f). Maintenance contracts would even out cash intake.", in.Patterns.CoefficientOfVariation),
					Priority:    analytics.PriorityLow,
					Actionable:  true,
				}
			},
		},
		{
			Name: "forecast_drop",
			When: func(in Input) bool {
				if in.Forecast.Confidence == 0 || in.Metrics.LatestRevenue <= 0 {
					return false
				}
				floor := in.Metrics.LatestRevenue * (1 - t.ForecastDrop/100)
				return in.Forecast.Revenue < floor
			},
			Build: func(in Input) analytics.Recommendation {
				drop := (in.Metrics.LatestRevenue - in.Forecast.Revenue) / in.Metrics.LatestRevenue * 100
				return analytics.Recommendation{
					Type:            "forecast",
					Title:           "Prepare for a slower month",
					Description:     fmt.Sprintf("Revenue for %s is projected %.1f%% below last month. Plan staffing and parts orders accordingly.", in.Forecast.MonthLabel, drop),
					Priority:        analytics.PriorityMedium,
					Actionable:      true,
					EstimatedImpact: "Protect margin during the dip",
				}
			},
		},
	}
}
