package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/workshop-financial-engine/internal/domain/sale"
)

// SaleEvent is the Kafka message carrying a completed sale to the posting processor
type SaleEvent struct {
	EventID       uuid.UUID        `json:"event_id"`
	Sale          sale.Transaction `json:"sale"`
	CorrelationID string           `json:"correlation_id"`
	Timestamp     time.Time        `json:"timestamp"`
}

// NewSaleEvent wraps a sale for publishing
func NewSaleEvent(tx sale.Transaction, correlationID string) SaleEvent {
	return SaleEvent{
		EventID:       uuid.New(),
		Sale:          tx,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
	}
}
