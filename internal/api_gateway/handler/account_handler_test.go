package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/workshop-financial-engine/internal/domain/account"
)

func TestAccountHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAccountService)
		router := setupTestRouter()
		router.POST("/accounts", NewAccountHandler(newTestLogger(), mockService).Create)

		created := &account.Account{
			Code:      "5401",
			Name:      "Shop supplies",
			Type:      account.TypeExpense,
			Active:    true,
			CreatedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		}
		mockService.On("CreateAccount", mock.Anything, "5401", "Shop supplies", account.TypeExpense, "").Return(created, nil).Once()

		rr := performRequest(router, http.MethodPost, "/accounts", CreateAccountRequest{
			Code: "5401",
			Name: "Shop supplies",
			Type: "expense",
		})

		assert.Equal(t, http.StatusCreated, rr.Code)
		var body AccountResponse
		resp := decodeResponse(t, rr, &body)
		assert.NotEmpty(t, resp.CorrelationID)
		assert.Equal(t, "5401", body.Code)
		assert.Equal(t, "expense", body.Type)
		assert.True(t, body.Active)
		assert.Equal(t, "2025-03-01T08:00:00Z", body.CreatedAt)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		mockService := new(MockAccountService)
		router := setupTestRouter()
		router.POST("/accounts", NewAccountHandler(newTestLogger(), mockService).Create)

		rr := performRequest(router, http.MethodPost, "/accounts", CreateAccountRequest{Code: "5401", Name: "Supplies", Type: "income"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeResponse(t, rr, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
		mockService.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("DuplicateCode", func(t *testing.T) {
		mockService := new(MockAccountService)
		router := setupTestRouter()
		router.POST("/accounts", NewAccountHandler(newTestLogger(), mockService).Create)

		mockService.On("CreateAccount", mock.Anything, "1001", "Cash", account.TypeAsset, "").
			Return(nil, account.ErrDuplicateAccount{Code: "1001"}).Once()

		rr := performRequest(router, http.MethodPost, "/accounts", CreateAccountRequest{Code: "1001", Name: "Cash", Type: "asset"})

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "CONFLICT", decodeResponse(t, rr, nil).Error.Code)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockService := new(MockAccountService)
		router := setupTestRouter()
		router.POST("/accounts", NewAccountHandler(newTestLogger(), mockService).Create)

		mockService.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset")).Once()

		rr := performRequest(router, http.MethodPost, "/accounts", CreateAccountRequest{Code: "1001", Name: "Cash", Type: "asset"})

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", decodeResponse(t, rr, nil).Error.Code)
	})
}

func TestAccountHandler_List(t *testing.T) {
	mockService := new(MockAccountService)
	router := setupTestRouter()
	router.GET("/accounts", NewAccountHandler(newTestLogger(), mockService).List)

	mockService.On("ListAccounts", mock.Anything).Return([]account.Account{
		{Code: "1001", Name: "Cash on hand", Type: account.TypeAsset, Active: true},
		{Code: "5301", Name: "Utilities", Type: account.TypeExpense, Active: false},
	}, nil).Once()

	rr := performRequest(router, http.MethodGet, "/accounts", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body AccountListResponse
	decodeResponse(t, rr, &body)
	require.Len(t, body.Accounts, 2)
	assert.Equal(t, "5301", body.Accounts[1].Code)
	assert.False(t, body.Accounts[1].Active)
}

func TestAccountHandler_SetStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAccountService)
		router := setupTestRouter()
		router.PATCH("/accounts/:code", NewAccountHandler(newTestLogger(), mockService).SetStatus)

		mockService.On("SetActive", mock.Anything, "5301", false).Return(nil).Once()

		rr := performRequest(router, http.MethodPatch, "/accounts/5301", `{"active": false}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingActive", func(t *testing.T) {
		mockService := new(MockAccountService)
		router := setupTestRouter()
		router.PATCH("/accounts/:code", NewAccountHandler(newTestLogger(), mockService).SetStatus)

		rr := performRequest(router, http.MethodPatch, "/accounts/5301", `{}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("UnknownCode", func(t *testing.T) {
		mockService := new(MockAccountService)
		router := setupTestRouter()
		router.PATCH("/accounts/:code", NewAccountHandler(newTestLogger(), mockService).SetStatus)

		mockService.On("SetActive", mock.Anything, "0000", true).Return(account.ErrAccountNotFound{Code: "0000"}).Once()

		rr := performRequest(router, http.MethodPatch, "/accounts/0000", `{"active": true}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
