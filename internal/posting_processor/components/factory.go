package components

import (
	"log/slog"

	"github.com/workshop-financial-engine/internal/config"
	"github.com/workshop-financial-engine/internal/domain/sale"
	"github.com/workshop-financial-engine/internal/platform/messaging/producers"
	"github.com/workshop-financial-engine/internal/posting_processor/service"
)

// CreateProcessingService wires the sale processing pipeline and wraps it in a worker pool.
func CreateProcessingService(
	poster service.LedgerPoster,
	saleRepo sale.Repository,
	dlq producers.DeadLetterPublisher,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	accounts := sale.PostingAccounts{
		Cash:           cfg.Posting.CashAccount,
		ServiceRevenue: cfg.Posting.ServiceRevenueAccount,
		ProductRevenue: cfg.Posting.ProductRevenueAccount,
	}

	baseService := service.NewProcessingService(
		NewSaleValidator(logger),
		poster,
		NewSaleRecorder(saleRepo, logger),
		NewFailureRecorder(dlq, logger),
		accounts,
		cfg.Posting.EntryPrefix,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
