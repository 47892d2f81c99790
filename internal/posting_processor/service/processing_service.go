package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/workshop-financial-engine/internal/domain/account"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/sale"
	"github.com/workshop-financial-engine/internal/domain/shared"
)

type ProcessingServiceImpl struct {
	validator       SaleValidator
	poster          LedgerPoster
	recorder        SaleRecorder
	failureRecorder FailureRecorder
	accounts        sale.PostingAccounts
	entryPrefix     string
	logger          *slog.Logger
}

func NewProcessingService(
	validator SaleValidator,
	poster LedgerPoster,
	recorder SaleRecorder,
	failureRecorder FailureRecorder,
	accounts sale.PostingAccounts,
	entryPrefix string,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		validator:       validator,
		poster:          poster,
		recorder:        recorder,
		failureRecorder: failureRecorder,
		accounts:        accounts,
		entryPrefix:     entryPrefix,
		logger:          logger,
	}
}

// ProcessSale posts the revenue entry for a sale and then stores the sale for
// analytics. Both steps are idempotent, so a redelivered event is safe.
// Permanent rejections are recorded and acknowledged; infrastructure errors
// are returned so the message is redelivered.
func (s *ProcessingServiceImpl) ProcessSale(ctx context.Context, event *shared.SaleEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}
	invoice := event.Sale.InvoiceNumber

	logger.Info("Processing sale", "event_id", event.EventID.String(), "invoice_number", invoice)

	// 1. Validate the sale
	if err := s.validator.Validate(ctx, event); err != nil {
		logger.Error("Sale validation failed", "invoice_number", invoice, "error", err)
		s.recordFailure(ctx, logger, event, shared.FailureReasonInvalidSale, err)
		return nil
	}

	// 2. Post the revenue entry
	var entryNumber string
	var sequence int64
	if event.Sale.HasRevenue() {
		req := event.Sale.PostingRequest(s.accounts, s.entryPrefix)
		entry, posted, err := s.poster.PostOnce(ctx, req)
		if err != nil {
			if reason, permanent := classifyPostingError(err); permanent {
				logger.Error("Sale cannot be posted", "invoice_number", invoice, "reason", reason, "error", err)
				s.recordFailure(ctx, logger, event, reason, err)
				return nil
			}
			return fmt.Errorf("posting sale %s failed: %w", invoice, err)
		}
		if !posted {
			logger.Info("Sale already posted", "invoice_number", invoice, "entry_number", entry.EntryNumber)
		}
		entryNumber, sequence = entry.EntryNumber, entry.Sequence
	} else {
		logger.Info("Sale has no revenue, skipping ledger posting", "invoice_number", invoice)
	}

	// 3. Store the sale for analytics
	tx := event.Sale
	if tx.CorrelationID == "" {
		tx.CorrelationID = event.CorrelationID
	}
	if err := s.recorder.Record(ctx, &tx); err != nil {
		return fmt.Errorf("recording sale %s failed: %w", invoice, err)
	}

	logger.Info("Sale processed", "invoice_number", invoice, "entry_number", entryNumber, "sequence", sequence)
	return nil
}

func (s *ProcessingServiceImpl) recordFailure(ctx context.Context, logger *slog.Logger, event *shared.SaleEvent, reason shared.FailureReason, cause error) {
	if err := s.failureRecorder.RecordFailure(ctx, event, reason, cause); err != nil {
		logger.Error("Failed to record sale failure",
			"invoice_number", event.Sale.InvoiceNumber,
			"reason", reason,
			"error", err,
		)
	}
}

// classifyPostingError maps ledger rejections to failure reasons. The second
// result is false for errors worth retrying.
func classifyPostingError(err error) (shared.FailureReason, bool) {
	switch {
	case errors.Is(err, ledger.UnbalancedEntryError{}):
		return shared.FailureReasonUnbalancedEntry, true
	case errors.Is(err, account.ErrAccountNotFound{}), errors.Is(err, account.ErrInactiveAccount{}):
		return shared.FailureReasonUnknownAccount, true
	case errors.Is(err, ledger.InvalidLineError{}),
		errors.Is(err, ledger.ErrEmptyEntryNumber),
		errors.Is(err, ledger.ErrMissingEntryDate),
		errors.Is(err, ledger.ErrTooFewLines):
		return shared.FailureReasonPostingFailed, true
	default:
		return "", false
	}
}
