package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/sale"
	"github.com/workshop-financial-engine/internal/domain/shared"
)

type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessSale(ctx context.Context, event *shared.SaleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockSaleValidator struct {
	mock.Mock
}

func (m *MockSaleValidator) Validate(ctx context.Context, event *shared.SaleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockLedgerPoster struct {
	mock.Mock
}

func (m *MockLedgerPoster) PostOnce(ctx context.Context, req ledger.PostingRequest) (*ledger.JournalEntry, bool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*ledger.JournalEntry), args.Bool(1), args.Error(2)
}

type MockSaleRecorder struct {
	mock.Mock
}

func (m *MockSaleRecorder) Record(ctx context.Context, tx *sale.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

type MockFailureRecorder struct {
	mock.Mock
}

func (m *MockFailureRecorder) RecordFailure(ctx context.Context, event *shared.SaleEvent, reason shared.FailureReason, cause error) error {
	args := m.Called(ctx, event, reason, cause)
	return args.Error(0)
}

func testEvent() *shared.SaleEvent {
	return &shared.SaleEvent{
		EventID: uuid.New(),
		Sale: sale.Transaction{
			InvoiceNumber: "INV-100",
			Timestamp:     time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC),
			Customer:      sale.Customer{Name: "Budi", Segment: sale.SegmentRetail},
			Items: []sale.Item{
				{Type: sale.ItemService, Name: "Tune-up", UnitPrice: decimal.NewFromInt(200000), Quantity: 1},
				{Type: sale.ItemPart, Name: "Spark plug", UnitPrice: decimal.NewFromInt(50000), Quantity: 2},
			},
			Total: decimal.NewFromInt(300000),
		},
		CorrelationID: "corr-100",
		Timestamp:     time.Now(),
	}
}
