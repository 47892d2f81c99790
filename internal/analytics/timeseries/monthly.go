// Package timeseries rolls sales up into monthly, quarterly and yearly
// records. Every ratio guards its denominator and resolves to 0 when it is 0.
package timeseries

import (
	"fmt"
	"sort"
	"time"

	"github.com/workshop-financial-engine/internal/domain/analytics"
	"github.com/workshop-financial-engine/internal/domain/sale"
)

// DefaultWindowMonths is the default analysis window
const DefaultWindowMonths = 24

var segments = []sale.Segment{sale.SegmentRetail, sale.SegmentCorporate}

type options struct {
	expenses map[string]float64
}

// Option configures MonthlyBuckets
type Option func(*options)

// WithExpenses supplies per-month expenses keyed by MonthLabel
func WithExpenses(expenses map[string]float64) Option {
	return func(o *options) {
		o.expenses = expenses
	}
}

// MonthLabel formats a calendar month as "2006-01"
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// Window returns the inclusive range covering the last months calendar
// months up to and including the month of now
func Window(now time.Time, months int) (time.Time, time.Time) {
	if months <= 0 {
		months = DefaultWindowMonths
	}
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	return start, now
}

// MonthlyBuckets groups transactions by the UTC calendar month of their
// timestamp. The result runs oldest to newest and covers every month from
// the first to the last sale, with empty months zero-filled.
func MonthlyBuckets(txs []*sale.Transaction, opts ...Option) []analytics.MonthlyRecord {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if len(txs) == 0 {
		return []analytics.MonthlyRecord{}
	}

	sorted := make([]*sale.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	first := monthStart(sorted[0].Timestamp)
	last := monthStart(sorted[len(sorted)-1].Timestamp)

	var records []analytics.MonthlyRecord
	index := make(map[string]int)
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		label := MonthLabel(m.Year(), m.Month())
		index[label] = len(records)
		records = append(records, newRecord(m))
	}

	for _, tx := range sorted {
		ts := tx.Timestamp.UTC()
		r := &records[index[MonthLabel(ts.Year(), ts.Month())]]
		revenue := tx.Total.InexactFloat64()
		seg := tx.Segment()
		r.Revenue += revenue
		r.TransactionCount++
		r.SegmentRevenue[seg] += revenue
		r.SegmentCount[seg]++
	}

	mean := 0.0
	for _, r := range records {
		mean += r.Revenue
	}
	mean /= float64(len(records))

	for i := range records {
		r := &records[i]
		r.Expenses = o.expenses[r.MonthLabel]
		r.Profit = r.Revenue - r.Expenses
		r.AverageTransactionValue = ratio(r.Revenue, float64(r.TransactionCount))
		r.SeasonalIndex = ratio(r.Revenue, mean) * 100
		if i > 0 {
			r.GrowthRate = GrowthRate(records[i-1].Revenue, r.Revenue)
		}
	}
	return records
}

// GrowthRate is the percent change from prev to cur, 0 when prev is 0
func GrowthRate(prev, cur float64) float64 {
	return ratio(cur-prev, prev) * 100
}

// Summarize derives the recommendation metrics from a monthly series
func Summarize(records []analytics.MonthlyRecord) analytics.Metrics {
	var (
		m         analytics.Metrics
		corporate int
	)
	for _, r := range records {
		m.TotalRevenue += r.Revenue
		m.TransactionCount += r.TransactionCount
		corporate += r.SegmentCount[sale.SegmentCorporate]
	}
	m.AverageTransactionValue = ratio(m.TotalRevenue, float64(m.TransactionCount))
	m.CorporateShare = ratio(float64(corporate), float64(m.TransactionCount)) * 100
	if n := len(records); n > 0 {
		m.LatestRevenue = records[n-1].Revenue
		m.LatestGrowthRate = records[n-1].GrowthRate
	}
	return m
}

func newRecord(m time.Time) analytics.MonthlyRecord {
	r := analytics.MonthlyRecord{
		MonthLabel:     MonthLabel(m.Year(), m.Month()),
		Year:           m.Year(),
		Month:          int(m.Month()),
		SegmentRevenue: make(map[sale.Segment]float64, len(segments)),
		SegmentCount:   make(map[sale.Segment]int, len(segments)),
	}
	for _, s := range segments {
		r.SegmentRevenue[s] = 0
		r.SegmentCount[s] = 0
	}
	return r
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
