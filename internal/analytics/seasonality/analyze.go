// Package seasonality assembles the full time-series report from a monthly
// series: roll-ups, pattern classification and plain-language insights.
package seasonality

import (
	"fmt"
	"strings"

	"github.com/workshop-financial-engine/internal/analytics/patterns"
	"github.com/workshop-financial-engine/internal/analytics/timeseries"
	"github.com/workshop-financial-engine/internal/domain/analytics"
	"github.com/workshop-financial-engine/internal/domain/sale"
)

// Analyze builds the seasonality report for records
func Analyze(records []analytics.MonthlyRecord) analytics.SeasonalityAnalysis {
	if records == nil {
		records = []analytics.MonthlyRecord{}
	}
	p := patterns.Classify(records)
	return analytics.SeasonalityAnalysis{
		MonthlyData:      records,
		QuarterlyData:    timeseries.QuarterlyBuckets(records),
		YearlyTrend:      timeseries.YearlyTrend(records),
		SeasonalPatterns: p,
		Insights:         Insights(records, p),
	}
}

// Insights summarises the series in short sentences
func Insights(records []analytics.MonthlyRecord, p analytics.PatternAnalysis) []string {
	if p.InsufficientHistory {
		return []string{fmt.Sprintf("Only %d month(s) of sales history; at least 2 are needed for pattern analysis.", len(records))}
	}

	insights := []string{
		fmt.Sprintf("Revenue trend is %s with %.1f%% average growth over the last three months.", p.Trend, p.RecentAverageGrowth),
		fmt.Sprintf("Volatility is %s and predictability is %s.", p.Volatility, p.Predictability),
	}
	if len(p.PeakMonths) > 0 {
		insights = append(insights, "Peak months: "+strings.Join(p.PeakMonths, ", ")+".")
	}
	if len(p.LowMonths) > 0 {
		insights = append(insights, "Low months: "+strings.Join(p.LowMonths, ", ")+".")
	}

	best := records[0]
	for _, r := range records[1:] {
		if r.Revenue > best.Revenue {
			best = r
		}
	}
	if best.Revenue > 0 {
		insights = append(insights, fmt.Sprintf("Best month was %s with revenue %.0f.", best.MonthLabel, best.Revenue))
	}

	shares := timeseries.SegmentShares(records)
	insights = append(insights, fmt.Sprintf("Corporate customers contributed %.1f%% of revenue, retail %.1f%%.",
		shares[sale.SegmentCorporate], shares[sale.SegmentRetail]))
	return insights
}
