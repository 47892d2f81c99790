package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/workshop-financial-engine/internal/api_gateway/middleware"
	"github.com/workshop-financial-engine/internal/domain/account"
	"github.com/workshop-financial-engine/internal/domain/analytics"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/report"
	"github.com/workshop-financial-engine/internal/domain/sale"
	"github.com/workshop-financial-engine/internal/domain/shared"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CorrelationID())
	return r
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}
	req, _ := http.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// decodeResponse unmarshals the envelope and, when out is non-nil, its data
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, out any) Response {
	t.Helper()
	var envelope struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope), rr.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Response
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, code, name string, accountType account.Type, parentCode string) (*account.Account, error) {
	args := m.Called(ctx, code, name, accountType, parentCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]account.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]account.Account), args.Error(1)
}

func (m *MockAccountService) SetActive(ctx context.Context, code string, active bool) error {
	return m.Called(ctx, code, active).Error(0)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) PostEntry(ctx context.Context, req ledger.PostingRequest) (*ledger.JournalEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) GetEntry(ctx context.Context, entryNumber string) (*ledger.JournalEntry, error) {
	args := m.Called(ctx, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) ReverseEntry(ctx context.Context, entryNumber, reversalNumber string, date time.Time) (*ledger.JournalEntry, error) {
	args := m.Called(ctx, entryNumber, reversalNumber, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.JournalEntry), args.Error(1)
}

func (m *MockLedgerService) QueryLines(ctx context.Context, period report.Period) ([]ledger.PostedLine, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.PostedLine), args.Error(1)
}

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) SubmitSale(ctx context.Context, tx *sale.Transaction, correlationID string) (*shared.SaleEvent, error) {
	args := m.Called(ctx, tx, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.SaleEvent), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, t report.Type, period report.Period) (*report.Document, error) {
	args := m.Called(ctx, t, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Document), args.Error(1)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Seasonality(ctx context.Context, months int) (*analytics.SeasonalityAnalysis, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.SeasonalityAnalysis), args.Error(1)
}

func (m *MockAnalyticsService) Forecast(ctx context.Context, months, horizon int) ([]analytics.ForecastPoint, error) {
	args := m.Called(ctx, months, horizon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.ForecastPoint), args.Error(1)
}

func (m *MockAnalyticsService) Recommendations(ctx context.Context, months int) ([]analytics.Recommendation, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.Recommendation), args.Error(1)
}
