package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/workshop-financial-engine/internal/domain/shared"
	"github.com/workshop-financial-engine/internal/platform/messaging/producers"
	"github.com/workshop-financial-engine/internal/posting_processor/service"
)

// SaleEventHandler handles incoming sale events from Kafka
type SaleEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewSaleEventHandler creates a new handler
func NewSaleEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *SaleEventHandler {
	return &SaleEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage decodes a sale event and hands it to the processing service.
// Undecodable payloads are dead-lettered and acknowledged.
func (h *SaleEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.SaleEvent
	if err := json.Unmarshal(value, &event); err != nil {
		h.logger.Error("Failed to unmarshal sale event from Kafka message",
			"error", err,
			"message_key", string(key),
		)

		if h.producer != nil {
			reason := fmt.Sprintf("%s: %s", shared.FailureReasonMalformedPayload, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				return nil
			}
		}
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received sale event",
		"event_id", event.EventID.String(),
		"invoice_number", event.Sale.InvoiceNumber,
		"total", event.Sale.Total.StringFixed(2),
	)

	if err := h.processingService.ProcessSale(ctx, &event); err != nil {
		logger.Error("Failed to process sale",
			"invoice_number", event.Sale.InvoiceNumber,
			"error", err,
		)
		return fmt.Errorf("processing sale %s failed: %w", event.Sale.InvoiceNumber, err)
	}

	return nil
}
