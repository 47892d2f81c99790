package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workshop-financial-engine/internal/analytics/statements"
	"github.com/workshop-financial-engine/internal/domain/account"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/report"
	"github.com/workshop-financial-engine/internal/domain/sale"
)

// respondError maps domain errors to HTTP statuses. Anything unrecognised is
// logged and answered with a generic 500.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, report.ErrInvalidPeriod):
		RespondWithError(c, http.StatusBadRequest, "INVALID_PERIOD", err.Error())
	case errors.Is(err, report.ErrUnknownReportType):
		RespondNotFound(c, err.Error())
	case errors.Is(err, statements.UnclassifiedAccountError{}):
		RespondUnprocessable(c, "UNCLASSIFIED_ACCOUNTS", err.Error())

	case errors.Is(err, ledger.UnbalancedEntryError{}):
		RespondUnprocessable(c, "UNBALANCED_ENTRY", err.Error())
	case errors.Is(err, ledger.InvalidLineError{}),
		errors.Is(err, ledger.ErrEmptyEntryNumber),
		errors.Is(err, ledger.ErrMissingEntryDate),
		errors.Is(err, ledger.ErrTooFewLines):
		RespondWithError(c, http.StatusBadRequest, "INVALID_ENTRY", err.Error())
	case errors.Is(err, ledger.ErrDuplicateEntry{}):
		RespondConflict(c, err.Error())
	case errors.Is(err, ledger.ErrEntryNotFound{}):
		RespondNotFound(c, err.Error())

	case errors.Is(err, account.ErrInactiveAccount{}):
		RespondUnprocessable(c, "INACTIVE_ACCOUNT", err.Error())
	case errors.Is(err, account.ErrDuplicateAccount{}):
		RespondConflict(c, err.Error())
	case errors.Is(err, account.ErrEmptyCode),
		errors.Is(err, account.ErrInvalidCode),
		errors.Is(err, account.ErrEmptyName),
		errors.Is(err, account.ErrInvalidType):
		RespondBadRequest(c, err.Error())

	case errors.Is(err, sale.InvalidSaleError{}):
		RespondWithError(c, http.StatusBadRequest, "INVALID_SALE", err.Error())
	case errors.Is(err, sale.ErrDuplicateSale{}):
		RespondConflict(c, err.Error())

	default:
		logger.Error("Request failed", "operation", op, "error", err)
		RespondInternalError(c)
	}
}

// respondAccountError answers unknown codes with 404 on account resources and
// with 422 when a posting references them
func respondAccountError(c *gin.Context, logger *slog.Logger, op string, err error, onResource bool) {
	if errors.Is(err, account.ErrAccountNotFound{}) {
		if onResource {
			RespondNotFound(c, err.Error())
			return
		}
		RespondUnprocessable(c, "UNKNOWN_ACCOUNT", err.Error())
		return
	}
	respondError(c, logger, op, err)
}
