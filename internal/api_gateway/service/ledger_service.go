package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/report"
)

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	store  LedgerStore
	logger *slog.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(logger *slog.Logger, store LedgerStore) LedgerService {
	return &LedgerServiceImpl{
		store:  store,
		logger: logger,
	}
}

func (s *LedgerServiceImpl) PostEntry(ctx context.Context, req ledger.PostingRequest) (*ledger.JournalEntry, error) {
	return s.store.Post(ctx, req)
}

func (s *LedgerServiceImpl) GetEntry(ctx context.Context, entryNumber string) (*ledger.JournalEntry, error) {
	return s.store.Entry(ctx, entryNumber)
}

func (s *LedgerServiceImpl) ReverseEntry(ctx context.Context, entryNumber, reversalNumber string, date time.Time) (*ledger.JournalEntry, error) {
	if reversalNumber == "" {
		reversalNumber = "REV-" + entryNumber
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}
	return s.store.Reverse(ctx, entryNumber, reversalNumber, date)
}

// QueryLines defaults an open end to today
func (s *LedgerServiceImpl) QueryLines(ctx context.Context, period report.Period) ([]ledger.PostedLine, error) {
	if period.End.IsZero() {
		period.End = ledger.DateOnly(time.Now().UTC())
	}
	return s.store.Query(ctx, period)
}
