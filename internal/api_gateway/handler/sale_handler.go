package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workshop-financial-engine/internal/api_gateway/middleware"
	"github.com/workshop-financial-engine/internal/api_gateway/service"
	"github.com/workshop-financial-engine/internal/domain/sale"
)

// SaleHandler accepts completed sales for asynchronous posting
type SaleHandler struct {
	saleService service.SaleService
	logger      *slog.Logger
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(logger *slog.Logger, saleService service.SaleService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		logger:      logger,
	}
}

// Submit queues a sale and answers 202. Posting happens in the posting processor.
func (h *SaleHandler) Submit(c *gin.Context) {
	var req SubmitSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tx := mapSaleRequest(req)
	event, err := h.saleService.SubmitSale(c.Request.Context(), tx, middleware.GetCorrelationID(c))
	if err != nil {
		respondError(c, h.logger, "submit sale", err)
		return
	}

	RespondAccepted(c, SaleAcceptedResponse{
		EventID:       event.EventID.String(),
		InvoiceNumber: event.Sale.InvoiceNumber,
		Status:        "ACCEPTED",
		AcceptedAt:    event.Timestamp.Format(time.RFC3339),
	})
}

func mapSaleRequest(req SubmitSaleRequest) *sale.Transaction {
	tx := &sale.Transaction{
		InvoiceNumber: req.InvoiceNumber,
		Timestamp:     req.Timestamp.UTC(),
		Customer:      sale.Customer{Name: req.CustomerName, Segment: sale.Segment(req.CustomerSegment).Normalize()},
		Items:         make([]sale.Item, 0, len(req.Items)),
		Total:         req.Total,
	}
	for _, item := range req.Items {
		tx.Items = append(tx.Items, sale.Item{
			Type:      sale.ItemType(item.Type),
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		})
	}
	return tx
}
