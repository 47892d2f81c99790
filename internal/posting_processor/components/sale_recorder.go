package components

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/workshop-financial-engine/internal/domain/sale"
	"github.com/workshop-financial-engine/internal/posting_processor/service"
)

type SaleRecorderImpl struct {
	saleRepo sale.Repository
	logger   *slog.Logger
}

func NewSaleRecorder(saleRepo sale.Repository, logger *slog.Logger) service.SaleRecorder {
	return &SaleRecorderImpl{
		saleRepo: saleRepo,
		logger:   logger,
	}
}

// Record stores the sale. An invoice that is already stored counts as success.
func (r *SaleRecorderImpl) Record(ctx context.Context, tx *sale.Transaction) error {
	if tx.RecordedAt.IsZero() {
		tx.RecordedAt = time.Now().UTC()
	}

	err := r.saleRepo.Create(ctx, tx)
	if errors.Is(err, sale.ErrDuplicateSale{}) {
		r.logger.Info("Sale already recorded", "invoice_number", tx.InvoiceNumber)
		return nil
	}
	if err != nil {
		r.logger.Error("Failed to record sale", "invoice_number", tx.InvoiceNumber, "error", err)
		return err
	}

	r.logger.Debug("Recorded sale", "invoice_number", tx.InvoiceNumber, "segment", tx.Segment())
	return nil
}
