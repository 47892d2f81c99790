package service

import (
	"context"
	"time"

	"github.com/workshop-financial-engine/internal/domain/account"
	"github.com/workshop-financial-engine/internal/domain/analytics"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/report"
	"github.com/workshop-financial-engine/internal/domain/sale"
	"github.com/workshop-financial-engine/internal/domain/shared"
)

// AccountService manages the chart of accounts
type AccountService interface {
	// CreateAccount adds an active account.
	// Returns ErrDuplicateAccount if the code is taken.
	CreateAccount(ctx context.Context, code, name string, accountType account.Type, parentCode string) (*account.Account, error)

	// ListAccounts returns the chart ordered by code
	ListAccounts(ctx context.Context) ([]account.Account, error)

	// SetActive enables or disables posting to an account.
	// Returns ErrAccountNotFound for unknown codes.
	SetActive(ctx context.Context, code string, active bool) error
}

// LedgerService posts and reads journal entries
type LedgerService interface {
	// PostEntry records a balanced entry atomically.
	// Returns UnbalancedEntryError, InvalidLineError or an account error on rejection.
	PostEntry(ctx context.Context, req ledger.PostingRequest) (*ledger.JournalEntry, error)

	// GetEntry returns ErrEntryNotFound for unknown numbers
	GetEntry(ctx context.Context, entryNumber string) (*ledger.JournalEntry, error)

	// ReverseEntry posts the offsetting entry of entryNumber
	ReverseEntry(ctx context.Context, entryNumber, reversalNumber string, date time.Time) (*ledger.JournalEntry, error)

	// QueryLines returns posted lines dated in the period
	QueryLines(ctx context.Context, period report.Period) ([]ledger.PostedLine, error)
}

// SaleService accepts completed sales for asynchronous posting
type SaleService interface {
	// SubmitSale validates the sale and publishes it to the posting processor.
	// Returns InvalidSaleError or ErrDuplicateSale without publishing.
	SubmitSale(ctx context.Context, tx *sale.Transaction, correlationID string) (*shared.SaleEvent, error)
}

// ReportService computes financial statement documents
type ReportService interface {
	// Generate returns the statement of type t for the period.
	// Returns ErrInvalidPeriod or ErrUnknownReportType for bad input.
	Generate(ctx context.Context, t report.Type, period report.Period) (*report.Document, error)
}

// AnalyticsService runs the time-series analytics over recorded sales
type AnalyticsService interface {
	Seasonality(ctx context.Context, months int) (*analytics.SeasonalityAnalysis, error)
	Forecast(ctx context.Context, months, horizon int) ([]analytics.ForecastPoint, error)
	Recommendations(ctx context.Context, months int) ([]analytics.Recommendation, error)
}

// LedgerReader is the read side of the ledger store used by reports and analytics
type LedgerReader interface {
	Registry(ctx context.Context) (*account.Registry, error)
	Snapshot(ctx context.Context, end time.Time) (ledger.Snapshot, error)
}

// LedgerStore is the ledger store surface used by LedgerService
type LedgerStore interface {
	Post(ctx context.Context, req ledger.PostingRequest) (*ledger.JournalEntry, error)
	Entry(ctx context.Context, entryNumber string) (*ledger.JournalEntry, error)
	Reverse(ctx context.Context, entryNumber, reversalNumber string, date time.Time) (*ledger.JournalEntry, error)
	Query(ctx context.Context, period report.Period) ([]ledger.PostedLine, error)
}

// SaleReader lists recorded sales
type SaleReader interface {
	ListByTimeRange(ctx context.Context, start, end time.Time) ([]*sale.Transaction, error)
}
