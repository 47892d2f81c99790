package components

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/workshop-financial-engine/internal/domain/shared"
	"github.com/workshop-financial-engine/internal/platform/messaging/producers"
	"github.com/workshop-financial-engine/internal/posting_processor/service"
)

// FailureRecorderImpl routes rejected sales to the dead letter topic
type FailureRecorderImpl struct {
	dlq    producers.DeadLetterPublisher
	logger *slog.Logger
}

func NewFailureRecorder(dlq producers.DeadLetterPublisher, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		dlq:    dlq,
		logger: logger,
	}
}

// RecordFailure publishes the event with a "REASON: cause" label keyed by invoice number
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, event *shared.SaleEvent, reason shared.FailureReason, cause error) error {
	logger := r.logger
	if event.CorrelationID != "" {
		logger = r.logger.With("correlation_id", event.CorrelationID)
	}

	label := string(reason)
	if cause != nil {
		label = fmt.Sprintf("%s: %s", reason, cause.Error())
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal rejected sale %s: %w", event.Sale.InvoiceNumber, err)
	}

	logger.Warn("Recording rejected sale", "invoice_number", event.Sale.InvoiceNumber, "reason", label)
	if err := r.dlq.PublishToDLQ(ctx, event.Sale.InvoiceNumber, value, label); err != nil {
		return fmt.Errorf("failed to record rejected sale %s: %w", event.Sale.InvoiceNumber, err)
	}
	return nil
}
