package timeseries

import (
	"fmt"

	"github.com/workshop-financial-engine/internal/domain/analytics"
	"github.com/workshop-financial-engine/internal/domain/sale"
)

// QuarterlyBuckets rolls monthly records up into calendar quarters
func QuarterlyBuckets(records []analytics.MonthlyRecord) []analytics.QuarterlyRecord {
	var out []analytics.QuarterlyRecord
	for _, r := range records {
		q := (r.Month-1)/3 + 1
		if n := len(out); n == 0 || out[n-1].Year != r.Year || out[n-1].Quarter != q {
			out = append(out, analytics.QuarterlyRecord{
				Label:   fmt.Sprintf("%04d-Q%d", r.Year, q),
				Year:    r.Year,
				Quarter: q,
			})
		}
		cur := &out[len(out)-1]
		cur.Revenue += r.Revenue
		cur.TransactionCount += r.TransactionCount
	}
	for i := 1; i < len(out); i++ {
		out[i].GrowthRate = GrowthRate(out[i-1].Revenue, out[i].Revenue)
	}
	if out == nil {
		return []analytics.QuarterlyRecord{}
	}
	return out
}

// YearlyTrend rolls monthly records up into calendar years. Growth compares
// average monthly revenue so partial years at the window edges stay comparable.
func YearlyTrend(records []analytics.MonthlyRecord) []analytics.YearlyRecord {
	var out []analytics.YearlyRecord
	for _, r := range records {
		if n := len(out); n == 0 || out[n-1].Year != r.Year {
			out = append(out, analytics.YearlyRecord{Year: r.Year})
		}
		cur := &out[len(out)-1]
		cur.Revenue += r.Revenue
		cur.TransactionCount += r.TransactionCount
		cur.MonthsCovered++
	}
	for i := range out {
		out[i].AverageMonthlyRevenue = ratio(out[i].Revenue, float64(out[i].MonthsCovered))
		if i > 0 {
			out[i].GrowthRate = GrowthRate(out[i-1].AverageMonthlyRevenue, out[i].AverageMonthlyRevenue)
		}
	}
	if out == nil {
		return []analytics.YearlyRecord{}
	}
	return out
}

// SegmentShares is each segment's percent of revenue across the records
func SegmentShares(records []analytics.MonthlyRecord) map[sale.Segment]float64 {
	totals := make(map[sale.Segment]float64, len(segments))
	for _, s := range segments {
		totals[s] = 0
	}
	var revenue float64
	for _, r := range records {
		revenue += r.Revenue
		for s, v := range r.SegmentRevenue {
			totals[s] += v
		}
	}
	for s, v := range totals {
		totals[s] = ratio(v, revenue) * 100
	}
	return totals
}
