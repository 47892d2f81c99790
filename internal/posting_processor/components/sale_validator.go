package components

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/workshop-financial-engine/internal/domain/sale"
	"github.com/workshop-financial-engine/internal/domain/shared"
	"github.com/workshop-financial-engine/internal/posting_processor/service"
)

type SaleValidatorImpl struct {
	logger *slog.Logger
}

func NewSaleValidator(logger *slog.Logger) service.SaleValidator {
	return &SaleValidatorImpl{logger: logger}
}

// Validate checks the event envelope and the sale it carries
func (v *SaleValidatorImpl) Validate(_ context.Context, event *shared.SaleEvent) error {
	logger := v.logger
	if event.CorrelationID != "" {
		logger = v.logger.With("correlation_id", event.CorrelationID)
	}

	if event.EventID == uuid.Nil {
		logger.Error("Sale event has no event id", "invoice_number", event.Sale.InvoiceNumber)
		return sale.InvalidSaleError{InvoiceNumber: event.Sale.InvoiceNumber, Reason: "event id is required"}
	}

	if err := event.Sale.Validate(); err != nil {
		logger.Error("Invalid sale", "invoice_number", event.Sale.InvoiceNumber, "error", err)
		return err
	}
	return nil
}
