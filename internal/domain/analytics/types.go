// Package analytics holds the time-series records, pattern classification,
// forecasts and recommendations derived from sales history.
package analytics

import "github.com/workshop-financial-engine/internal/domain/sale"

// MonthlyRecord aggregates one calendar month of sales
type MonthlyRecord struct {
	MonthLabel              string                   `json:"month_label"`
	Year                    int                      `json:"year"`
	Month                   int                      `json:"month"`
	Revenue                 float64                  `json:"revenue"`
	Expenses                float64                  `json:"expenses"`
	Profit                  float64                  `json:"profit"`
	TransactionCount        int                      `json:"transaction_count"`
	AverageTransactionValue float64                  `json:"average_transaction_value"`
	GrowthRate              float64                  `json:"growth_rate"`
	SeasonalIndex           float64                  `json:"seasonal_index"`
	SegmentRevenue          map[sale.Segment]float64 `json:"segment_revenue"`
	SegmentCount            map[sale.Segment]int     `json:"segment_count"`
}

// QuarterlyRecord aggregates three calendar months
type QuarterlyRecord struct {
	Label            string  `json:"label"`
	Year             int     `json:"year"`
	Quarter          int     `json:"quarter"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transaction_count"`
	GrowthRate       float64 `json:"growth_rate"`
}

// YearlyRecord aggregates a calendar year
type YearlyRecord struct {
	Year                  int     `json:"year"`
	Revenue               float64 `json:"revenue"`
	TransactionCount      int     `json:"transaction_count"`
	MonthsCovered         int     `json:"months_covered"`
	AverageMonthlyRevenue float64 `json:"average_monthly_revenue"`
	GrowthRate            float64 `json:"growth_rate"`
}

// Trend is the direction of recent growth
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Level grades volatility and predictability
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// PatternAnalysis classifies a monthly series
type PatternAnalysis struct {
	Trend                  Trend    `json:"trend"`
	Volatility             Level    `json:"volatility"`
	Predictability         Level    `json:"predictability"`
	RecentAverageGrowth    float64  `json:"recent_average_growth"`
	CoefficientOfVariation float64  `json:"coefficient_of_variation"`
	PeakMonths             []string `json:"peak_months"`
	LowMonths              []string `json:"low_months"`
	StableMonths           []string `json:"stable_months"`
	InsufficientHistory    bool     `json:"insufficient_history"`
}

// ForecastPoint is a predicted month. Confidence is a heuristic that grows
// with the number of months used, not a statistical interval.
type ForecastPoint struct {
	MonthLabel     string                   `json:"month_label"`
	Revenue        float64                  `json:"revenue"`
	SegmentRevenue map[sale.Segment]float64 `json:"segment_revenue,omitempty"`
	Confidence     float64                  `json:"confidence"`
	IsPrediction   bool                     `json:"is_prediction"`
	MonthsUsed     int                      `json:"months_used"`
	Slope          float64                  `json:"slope"`
	Intercept      float64                  `json:"intercept"`
	RSquared       float64                  `json:"r_squared"`
}

// Priority orders recommendations
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is an actionable suggestion produced by a rule
type Recommendation struct {
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Priority        Priority `json:"priority"`
	Actionable      bool     `json:"actionable"`
	EstimatedImpact string   `json:"estimated_impact,omitempty"`
}

// Metrics summarises the window for the recommendation rules
type Metrics struct {
	TotalRevenue            float64 `json:"total_revenue"`
	TransactionCount        int     `json:"transaction_count"`
	AverageTransactionValue float64 `json:"average_transaction_value"`
	LatestRevenue           float64 `json:"latest_revenue"`
	LatestGrowthRate        float64 `json:"latest_growth_rate"`
	CorporateShare          float64 `json:"corporate_share"`
}

// SeasonalityAnalysis is the full time-series report
type SeasonalityAnalysis struct {
	MonthlyData      []MonthlyRecord   `json:"monthly_data"`
	QuarterlyData    []QuarterlyRecord `json:"quarterly_data"`
	YearlyTrend      []YearlyRecord    `json:"yearly_trend"`
	SeasonalPatterns PatternAnalysis   `json:"seasonal_patterns"`
	Insights         []string          `json:"insights"`
}
