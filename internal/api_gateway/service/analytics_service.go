package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/workshop-financial-engine/internal/analytics/forecast"
	"github.com/workshop-financial-engine/internal/analytics/patterns"
	"github.com/workshop-financial-engine/internal/analytics/recommend"
	"github.com/workshop-financial-engine/internal/analytics/seasonality"
	"github.com/workshop-financial-engine/internal/analytics/statements"
	"github.com/workshop-financial-engine/internal/analytics/timeseries"
	"github.com/workshop-financial-engine/internal/config"
	"github.com/workshop-financial-engine/internal/domain/analytics"
	"github.com/workshop-financial-engine/internal/domain/report"
)

// AnalyticsServiceImpl implements the AnalyticsService interface
type AnalyticsServiceImpl struct {
	sales  SaleReader
	ledger LedgerReader
	engine *recommend.Engine
	cfg    config.AnalyticsConfig
	now    func() time.Time
	logger *slog.Logger
}

// AnalyticsOption configures AnalyticsServiceImpl
type AnalyticsOption func(*AnalyticsServiceImpl)

// WithClock overrides the clock that anchors the analysis window
func WithClock(now func() time.Time) AnalyticsOption {
	return func(s *AnalyticsServiceImpl) {
		s.now = now
	}
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(logger *slog.Logger, sales SaleReader, ledger LedgerReader, cfg config.AnalyticsConfig, opts ...AnalyticsOption) AnalyticsService {
	s := &AnalyticsServiceImpl{
		sales:  sales,
		ledger: ledger,
		engine: recommend.NewDefaultEngine(recommend.Thresholds{
			GrowthRate:          cfg.GrowthThreshold,
			CorporateShare:      cfg.CorporateShare,
			LowTransactionValue: cfg.LowTransactionValue,
			ForecastDrop:        cfg.ForecastDropThreshold,
		}),
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seasonality analyses the last months calendar months of sales
func (s *AnalyticsServiceImpl) Seasonality(ctx context.Context, months int) (*analytics.SeasonalityAnalysis, error) {
	records, err := s.monthly(ctx, s.windowOrDefault(months))
	if err != nil {
		return nil, err
	}
	result := seasonality.Analyze(records)
	return &result, nil
}

// Forecast fits the trend over the last months of sales and projects horizon
// months ahead
func (s *AnalyticsServiceImpl) Forecast(ctx context.Context, months, horizon int) ([]analytics.ForecastPoint, error) {
	if months <= 0 {
		months = s.cfg.ForecastLookback
	}
	records, err := s.monthly(ctx, months)
	if err != nil {
		return nil, err
	}
	return forecast.Forecast(records, horizon), nil
}

// Recommendations evaluates the rule chain over the window. The forecast
// input only uses the configured lookback.
func (s *AnalyticsServiceImpl) Recommendations(ctx context.Context, months int) ([]analytics.Recommendation, error) {
	records, err := s.monthly(ctx, s.windowOrDefault(months))
	if err != nil {
		return nil, err
	}

	lookback := records
	if n := s.cfg.ForecastLookback; n > 0 && len(lookback) > n {
		lookback = lookback[len(lookback)-n:]
	}

	recs := s.engine.Evaluate(recommend.Input{
		Metrics:  timeseries.Summarize(records),
		Patterns: patterns.Classify(records),
		Forecast: forecast.PredictNext(lookback),
	})
	s.logger.Info("Recommendations evaluated", "months", len(records), "count", len(recs))
	return recs, nil
}

func (s *AnalyticsServiceImpl) windowOrDefault(months int) int {
	if months <= 0 {
		return s.cfg.WindowMonths
	}
	return months
}

// monthly buckets the window's sales with per-month expenses from the ledger
func (s *AnalyticsServiceImpl) monthly(ctx context.Context, months int) ([]analytics.MonthlyRecord, error) {
	start, end := timeseries.Window(s.now(), months)

	txs, err := s.sales.ListByTimeRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	registry, err := s.ledger.Registry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account registry: %w", err)
	}
	snap, err := s.ledger.Snapshot(ctx, end)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger snapshot: %w", err)
	}
	expenses := statements.NewAggregator(registry).MonthlyExpenses(snap, report.Period{Start: start, End: end})

	s.logger.Debug("Monthly series built",
		"window_start", start,
		"window_end", end,
		"sales", len(txs),
	)
	return timeseries.MonthlyBuckets(txs, timeseries.WithExpenses(expenses)), nil
}
