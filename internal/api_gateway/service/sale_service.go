package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/workshop-financial-engine/internal/domain/sale"
	"github.com/workshop-financial-engine/internal/domain/shared"
	"github.com/workshop-financial-engine/internal/platform/messaging/producers"
)

// SaleServiceImpl implements the SaleService interface
type SaleServiceImpl struct {
	saleRepo sale.Repository
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(logger *slog.Logger, saleRepo sale.Repository, producer producers.MessagePublisher) SaleService {
	return &SaleServiceImpl{
		saleRepo: saleRepo,
		producer: producer,
		logger:   logger,
	}
}

// SubmitSale rejects invalid and already recorded invoices, then publishes the
// sale keyed by invoice number so redeliveries land on the same partition.
func (s *SaleServiceImpl) SubmitSale(ctx context.Context, tx *sale.Transaction, correlationID string) (*shared.SaleEvent, error) {
	logger := s.logger
	if correlationID != "" {
		logger = s.logger.With("correlation_id", correlationID)
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.saleRepo.GetByInvoice(ctx, tx.InvoiceNumber)
	if err != nil && !errors.Is(err, sale.ErrSaleNotFound{}) {
		logger.Error("Failed to check for existing sale", "invoice_number", tx.InvoiceNumber, "error", err)
		return nil, err
	}
	if existing != nil {
		logger.Info("Sale already recorded", "invoice_number", tx.InvoiceNumber)
		return nil, sale.ErrDuplicateSale{InvoiceNumber: tx.InvoiceNumber}
	}

	event := shared.NewSaleEvent(*tx, correlationID)
	if err := s.producer.Publish(ctx, tx.InvoiceNumber, event); err != nil {
		logger.Error("Failed to publish sale", "invoice_number", tx.InvoiceNumber, "error", err)
		return nil, err
	}

	logger.Info("Sale published",
		"event_id", event.EventID.String(),
		"invoice_number", tx.InvoiceNumber,
		"total", tx.Total.StringFixed(2),
	)
	return &event, nil
}
