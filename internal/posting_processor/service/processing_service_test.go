package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/workshop-financial-engine/internal/domain/account"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/sale"
	"github.com/workshop-financial-engine/internal/domain/shared"
)

var postingAccounts = sale.PostingAccounts{Cash: "1001", ServiceRevenue: "4001", ProductRevenue: "4101"}

type processingMocks struct {
	validator *MockSaleValidator
	poster    *MockLedgerPoster
	recorder  *MockSaleRecorder
	failures  *MockFailureRecorder
}

func newTestProcessingService() (ProcessingService, processingMocks) {
	m := processingMocks{
		validator: &MockSaleValidator{},
		poster:    &MockLedgerPoster{},
		recorder:  &MockSaleRecorder{},
		failures:  &MockFailureRecorder{},
	}
	svc := NewProcessingService(m.validator, m.poster, m.recorder, m.failures, postingAccounts, "SALE-", slog.Default())
	return svc, m
}

func (m processingMocks) assertExpectations(t *testing.T) {
	m.validator.AssertExpectations(t)
	m.poster.AssertExpectations(t)
	m.recorder.AssertExpectations(t)
	m.failures.AssertExpectations(t)
}

func TestProcessingService_ProcessSale(t *testing.T) {
	ctx := context.Background()
	posted := &ledger.JournalEntry{EntryNumber: "SALE-INV-100", Sequence: 5}

	t.Run("PostsAndRecords", func(t *testing.T) {
		svc, m := newTestProcessingService()
		event := testEvent()

		m.validator.On("Validate", ctx, event).Return(nil)
		m.poster.On("PostOnce", ctx, mock.MatchedBy(func(req ledger.PostingRequest) bool {
			return req.EntryNumber == "SALE-INV-100" &&
				len(req.Lines) == 3 &&
				req.Lines[0].AccountCode == "1001" &&
				req.Lines[0].DebitAmount.Equal(decimal.NewFromInt(300000)) &&
				req.Lines[2].AccountCode == "4101"
		})).Return(posted, true, nil)
		m.recorder.On("Record", ctx, mock.MatchedBy(func(tx *sale.Transaction) bool {
			return tx.InvoiceNumber == "INV-100" && tx.CorrelationID == "corr-100"
		})).Return(nil)

		require.NoError(t, svc.ProcessSale(ctx, event))
		m.assertExpectations(t)
	})

	t.Run("AlreadyPostedStillRecords", func(t *testing.T) {
		svc, m := newTestProcessingService()
		event := testEvent()

		m.validator.On("Validate", ctx, event).Return(nil)
		m.poster.On("PostOnce", ctx, mock.Anything).Return(posted, false, nil)
		m.recorder.On("Record", ctx, mock.Anything).Return(nil)

		require.NoError(t, svc.ProcessSale(ctx, event))
		m.assertExpectations(t)
	})

	t.Run("ZeroTotalSaleIsRecordedWithoutPosting", func(t *testing.T) {
		svc, m := newTestProcessingService()
		event := testEvent()
		event.Sale.Items = []sale.Item{
			{Type: sale.ItemService, Name: "Warranty check", UnitPrice: decimal.NewFromInt(150000), Quantity: 1, Discount: decimal.NewFromInt(150000)},
		}
		event.Sale.Total = decimal.Zero

		m.validator.On("Validate", ctx, event).Return(nil)
		m.recorder.On("Record", ctx, mock.MatchedBy(func(tx *sale.Transaction) bool {
			return tx.InvoiceNumber == "INV-100" && tx.Total.IsZero()
		})).Return(nil)

		require.NoError(t, svc.ProcessSale(ctx, event))
		m.poster.AssertNotCalled(t, "PostOnce", mock.Anything, mock.Anything)
		m.failures.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("InvalidSaleIsAcknowledged", func(t *testing.T) {
		svc, m := newTestProcessingService()
		event := testEvent()
		invalid := sale.InvalidSaleError{InvoiceNumber: "INV-100", Reason: "at least one item is required"}

		m.validator.On("Validate", ctx, event).Return(invalid)
		m.failures.On("RecordFailure", ctx, event, shared.FailureReasonInvalidSale, invalid).Return(nil)

		require.NoError(t, svc.ProcessSale(ctx, event))
		m.poster.AssertNotCalled(t, "PostOnce", mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	permanent := []struct {
		name   string
		err    error
		reason shared.FailureReason
	}{
		{"Unbalanced", ledger.UnbalancedEntryError{EntryNumber: "SALE-INV-100"}, shared.FailureReasonUnbalancedEntry},
		{"UnknownAccount", account.ErrAccountNotFound{Code: "4101"}, shared.FailureReasonUnknownAccount},
		{"InactiveAccount", account.ErrInactiveAccount{Code: "4101"}, shared.FailureReasonUnknownAccount},
		{"InvalidLine", ledger.InvalidLineError{Index: 1, Reason: "amount must be positive"}, shared.FailureReasonPostingFailed},
	}
	for _, tc := range permanent {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newTestProcessingService()
			event := testEvent()

			m.validator.On("Validate", ctx, event).Return(nil)
			m.poster.On("PostOnce", ctx, mock.Anything).Return(nil, false, tc.err)
			m.failures.On("RecordFailure", ctx, event, tc.reason, tc.err).Return(nil)

			require.NoError(t, svc.ProcessSale(ctx, event))
			m.recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
			m.assertExpectations(t)
		})
	}

	t.Run("FailureRecorderErrorStillAcknowledges", func(t *testing.T) {
		svc, m := newTestProcessingService()
		event := testEvent()
		invalid := sale.InvalidSaleError{InvoiceNumber: "INV-100", Reason: "timestamp is required"}

		m.validator.On("Validate", ctx, event).Return(invalid)
		m.failures.On("RecordFailure", ctx, event, shared.FailureReasonInvalidSale, invalid).Return(errors.New("dlq down"))

		assert.NoError(t, svc.ProcessSale(ctx, event))
	})

	t.Run("TransientPostingErrorIsRetried", func(t *testing.T) {
		svc, m := newTestProcessingService()
		event := testEvent()
		dbErr := errors.New("connection refused")

		m.validator.On("Validate", ctx, event).Return(nil)
		m.poster.On("PostOnce", ctx, mock.Anything).Return(nil, false, dbErr)

		err := svc.ProcessSale(ctx, event)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "posting sale INV-100 failed")
		m.failures.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RecorderErrorIsRetried", func(t *testing.T) {
		svc, m := newTestProcessingService()
		event := testEvent()
		mongoErr := errors.New("mongo timeout")

		m.validator.On("Validate", ctx, event).Return(nil)
		m.poster.On("PostOnce", ctx, mock.Anything).Return(posted, true, nil)
		m.recorder.On("Record", ctx, mock.Anything).Return(mongoErr)

		err := svc.ProcessSale(ctx, event)
		assert.ErrorIs(t, err, mongoErr)
	})
}
