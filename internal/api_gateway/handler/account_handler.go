package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workshop-financial-engine/internal/api_gateway/service"
	"github.com/workshop-financial-engine/internal/domain/account"
)

// AccountHandler handles HTTP requests for the chart of accounts
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create adds an account, answering 409 when the code is taken
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), req.Code, req.Name, account.Type(req.Type), req.ParentCode)
	if err != nil {
		respondAccountError(c, h.logger, "create account", err, true)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// List returns the chart of accounts ordered by code
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list accounts", err)
		return
	}

	response := AccountListResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for i := range accounts {
		response.Accounts = append(response.Accounts, mapAccountToResponse(&accounts[i]))
	}
	RespondOK(c, response)
}

// SetStatus activates or deactivates posting to an account
func (h *AccountHandler) SetStatus(c *gin.Context) {
	code := c.Param("code")
	var req SetAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.accountService.SetActive(c.Request.Context(), code, *req.Active); err != nil {
		respondAccountError(c, h.logger, "set account status", err, true)
		return
	}

	RespondOK(c, gin.H{"code": code, "active": *req.Active})
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		Code:       acc.Code,
		Name:       acc.Name,
		Type:       string(acc.Type),
		ParentCode: acc.ParentCode,
		Active:     acc.Active,
		CreatedAt:  acc.CreatedAt.Format(time.RFC3339),
	}
}
