// Package forecast predicts upcoming monthly revenue with an ordinary least
// squares line fitted over the month index.
package forecast

import (
	"math"
	"time"

	"github.com/workshop-financial-engine/internal/analytics/timeseries"
	"github.com/workshop-financial-engine/internal/domain/analytics"
	"github.com/workshop-financial-engine/internal/domain/sale"
)

// Confidence heuristic bounds
const (
	BaseConfidence     = 60.0
	ConfidencePerMonth = 5.0
	MaxConfidence      = 95.0
	minimumMonths      = 2
)

// PredictNext forecasts the month after the last record
func PredictNext(records []analytics.MonthlyRecord) analytics.ForecastPoint {
	return Forecast(records, 1)[0]
}

// Forecast projects horizon months past the last record, at x = n .. n+horizon-1.
// With fewer than two records every point has zero revenue and zero confidence.
// Predictions never go below zero.
func Forecast(records []analytics.MonthlyRecord, horizon int) []analytics.ForecastPoint {
	if horizon < 1 {
		horizon = 1
	}
	n := len(records)

	points := make([]analytics.ForecastPoint, horizon)
	for k := range points {
		points[k] = analytics.ForecastPoint{
			MonthLabel:   nextLabel(records, k+1),
			IsPrediction: true,
			MonthsUsed:   n,
		}
	}
	if n < minimumMonths {
		return points
	}

	values := make([]float64, n)
	for i, r := range records {
		values[i] = r.Revenue
	}
	slope, intercept, rSquared := linearRegression(values)
	confidence := Confidence(n)
	shares := segmentShares(records[n-1])

	for k := range points {
		revenue := math.Max(0, slope*float64(n+k)+intercept)
		p := &points[k]
		p.Revenue = revenue
		p.Confidence = confidence
		p.Slope = slope
		p.Intercept = intercept
		p.RSquared = rSquared
		if shares != nil {
			p.SegmentRevenue = make(map[sale.Segment]float64, len(shares))
			for seg, share := range shares {
				p.SegmentRevenue[seg] = revenue * share
			}
		}
	}
	return points
}

// Confidence is min(95, 60 + 5 per month used). It is a heuristic, not a
// statistical interval.
func Confidence(monthsUsed int) float64 {
	if monthsUsed < minimumMonths {
		return 0
	}
	return math.Min(MaxConfidence, BaseConfidence+ConfidencePerMonth*float64(monthsUsed))
}

// linearRegression fits y = slope*x + intercept over x = 0..n-1
func linearRegression(values []float64) (slope, intercept, rSquared float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0, 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	if denom := n*sumX2 - sumX*sumX; denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
	}
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, y := range values {
		predicted := slope*float64(i) + intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 1
	}
	return slope, intercept, 1 - ssRes/ssTot
}

// segmentShares is the latest month's revenue split, nil when it had no revenue
func segmentShares(latest analytics.MonthlyRecord) map[sale.Segment]float64 {
	if latest.Revenue == 0 {
		return nil
	}
	shares := make(map[sale.Segment]float64, len(latest.SegmentRevenue))
	for seg, rev := range latest.SegmentRevenue {
		shares[seg] = rev / latest.Revenue
	}
	return shares
}

func nextLabel(records []analytics.MonthlyRecord, ahead int) string {
	if len(records) == 0 {
		return ""
	}
	last := records[len(records)-1]
	m := time.Date(last.Year, time.Month(last.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, ahead, 0)
	return timeseries.MonthLabel(m.Year(), m.Month())
}
