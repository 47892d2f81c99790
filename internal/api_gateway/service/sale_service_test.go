package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/workshop-financial-engine/internal/domain/sale"
	"github.com/workshop-financial-engine/internal/domain/shared"
)

func testSale() *sale.Transaction {
	return &sale.Transaction{
		InvoiceNumber: "INV-100",
		Timestamp:     time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		Customer:      sale.Customer{Name: "Fleet Co", Segment: sale.SegmentCorporate},
		Items: []sale.Item{
			{Type: sale.ItemService, Name: "Brake service", UnitPrice: decimal.NewFromInt(200_000), Quantity: 1},
			{Type: sale.ItemPart, Name: "Brake pad", UnitPrice: decimal.NewFromInt(50_000), Quantity: 2},
		},
		Total: decimal.NewFromInt(300_000),
	}
}

func TestSaleServiceImpl_SubmitSale(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockSaleRepository)
		producer := new(MockPublisher)
		service := NewSaleService(newTestLogger(), repo, producer)

		repo.On("GetByInvoice", ctx, "INV-100").Return(nil, sale.ErrSaleNotFound{InvoiceNumber: "INV-100"}).Once()
		producer.On("Publish", ctx, "INV-100", mock.MatchedBy(func(e shared.SaleEvent) bool {
			return e.Sale.InvoiceNumber == "INV-100" && e.CorrelationID == "corr-1"
		})).Return(nil).Once()

		event, err := service.SubmitSale(ctx, testSale(), "corr-1")
		require.NoError(t, err)
		assert.Equal(t, "INV-100", event.Sale.InvoiceNumber)
		assert.NotEmpty(t, event.EventID)
		repo.AssertExpectations(t)
		producer.AssertExpectations(t)
	})

	t.Run("InvalidSale", func(t *testing.T) {
		repo := new(MockSaleRepository)
		producer := new(MockPublisher)
		service := NewSaleService(newTestLogger(), repo, producer)

		tx := testSale()
		tx.Total = decimal.NewFromInt(1)

		_, err := service.SubmitSale(ctx, tx, "")
		assert.ErrorIs(t, err, sale.InvalidSaleError{})
		repo.AssertNotCalled(t, "GetByInvoice", mock.Anything, mock.Anything)
		producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AlreadyRecorded", func(t *testing.T) {
		repo := new(MockSaleRepository)
		producer := new(MockPublisher)
		service := NewSaleService(newTestLogger(), repo, producer)

		repo.On("GetByInvoice", ctx, "INV-100").Return(testSale(), nil).Once()

		_, err := service.SubmitSale(ctx, testSale(), "")
		assert.ErrorIs(t, err, sale.ErrDuplicateSale{InvoiceNumber: "INV-100"})
		producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LookupError", func(t *testing.T) {
		repo := new(MockSaleRepository)
		producer := new(MockPublisher)
		service := NewSaleService(newTestLogger(), repo, producer)
		dbErr := errors.New("mongo down")

		repo.On("GetByInvoice", ctx, "INV-100").Return(nil, dbErr).Once()

		_, err := service.SubmitSale(ctx, testSale(), "")
		assert.ErrorIs(t, err, dbErr)
		producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PublishError", func(t *testing.T) {
		repo := new(MockSaleRepository)
		producer := new(MockPublisher)
		service := NewSaleService(newTestLogger(), repo, producer)
		kafkaErr := errors.New("broker unavailable")

		repo.On("GetByInvoice", ctx, "INV-100").Return(nil, sale.ErrSaleNotFound{}).Once()
		producer.On("Publish", ctx, "INV-100", mock.AnythingOfType("shared.SaleEvent")).Return(kafkaErr).Once()

		event, err := service.SubmitSale(ctx, testSale(), "")
		assert.Nil(t, event)
		assert.ErrorIs(t, err, kafkaErr)
	})
}
