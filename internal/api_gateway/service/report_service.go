package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/workshop-financial-engine/internal/analytics/statements"
	"github.com/workshop-financial-engine/internal/domain/account"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/report"
)

// ReportServiceImpl implements the ReportService interface
type ReportServiceImpl struct {
	ledger LedgerReader
	cache  report.SnapshotCache
	strict bool
	logger *slog.Logger
}

// NewReportService creates a new report service. cache may be nil.
func NewReportService(logger *slog.Logger, ledger LedgerReader, cache report.SnapshotCache, strictClassification bool) ReportService {
	return &ReportServiceImpl{
		ledger: ledger,
		cache:  cache,
		strict: strictClassification,
		logger: logger,
	}
}

// Generate reads one snapshot, serves the cached document for its version
// when there is one, and otherwise aggregates and caches the statement.
func (s *ReportServiceImpl) Generate(ctx context.Context, t report.Type, period report.Period) (*report.Document, error) {
	if _, err := report.ParseType(string(t)); err != nil {
		return nil, err
	}
	period.Start = dateOrZero(period.Start)
	period.End = dateOrZero(period.End)
	if err := period.Validate(); err != nil {
		return nil, err
	}

	registry, err := s.ledger.Registry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account registry: %w", err)
	}
	snap, err := s.ledger.Snapshot(ctx, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger snapshot: %w", err)
	}

	key := report.CacheKey(t, period, snap.Digest, registry.Fingerprint())
	if s.cache != nil {
		doc, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Report cache read failed", "type", t, "error", err)
		} else if doc != nil {
			s.logger.Debug("Report served from cache", "type", t, "ledger_version", snap.Version)
			return doc, nil
		}
	}

	stmt, err := s.compute(t, registry, snap, period)
	if err != nil {
		return nil, err
	}
	doc, err := report.NewDocument(t, period, snap.Version, stmt)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, doc); err != nil {
			s.logger.Warn("Report cache write failed", "type", t, "error", err)
		}
	}

	s.logger.Info("Report generated",
		"type", t,
		"period_start", period.Start,
		"period_end", period.End,
		"ledger_version", snap.Version,
	)
	return doc, nil
}

func (s *ReportServiceImpl) compute(t report.Type, registry *account.Registry, snap ledger.Snapshot, period report.Period) (any, error) {
	agg := statements.NewAggregator(registry, statements.WithStrictClassification(s.strict))
	switch t {
	case report.TypeProfitAndLoss:
		return agg.ProfitAndLoss(snap, period)
	case report.TypeBalanceSheet:
		return agg.BalanceSheet(snap, period)
	case report.TypeCashFlow:
		return agg.CashFlow(snap, period)
	default:
		return nil, fmt.Errorf("%w: %q", report.ErrUnknownReportType, t)
	}
}

func dateOrZero(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return ledger.DateOnly(t)
}
