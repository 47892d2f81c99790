package service

import (
	"context"

	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/sale"
	"github.com/workshop-financial-engine/internal/domain/shared"
)

// ProcessingService turns sale events into ledger postings.
type ProcessingService interface {
	ProcessSale(ctx context.Context, event *shared.SaleEvent) error
}

// SaleValidator validates sale events before posting
type SaleValidator interface {
	Validate(ctx context.Context, event *shared.SaleEvent) error
}

// LedgerPoster writes the revenue entry for a sale at most once
type LedgerPoster interface {
	PostOnce(ctx context.Context, req ledger.PostingRequest) (*ledger.JournalEntry, bool, error)
}

// SaleRecorder keeps posted sales for the time-series analytics
type SaleRecorder interface {
	Record(ctx context.Context, tx *sale.Transaction) error
}

// FailureRecorder handles sale events that can never be posted
type FailureRecorder interface {
	RecordFailure(ctx context.Context, event *shared.SaleEvent, reason shared.FailureReason, cause error) error
}
