package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workshop-financial-engine/internal/api_gateway/middleware"
	"github.com/workshop-financial-engine/internal/api_gateway/service"
	"github.com/workshop-financial-engine/internal/domain/ledger"
	"github.com/workshop-financial-engine/internal/domain/report"
)

// JournalHandler handles HTTP requests for journal entries
type JournalHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(logger *slog.Logger, ledgerService service.LedgerService) *JournalHandler {
	return &JournalHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Create posts a manual journal entry. Unbalanced entries and postings to
// unknown or inactive accounts are answered with 422.
func (h *JournalHandler) Create(c *gin.Context) {
	var req CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		RespondBadRequest(c, "entry_date: "+err.Error())
		return
	}

	posting := ledger.PostingRequest{
		EntryNumber: req.EntryNumber,
		EntryDate:   entryDate,
		Description: req.Description,
		Lines:       make([]ledger.LineRequest, 0, len(req.Lines)),
	}
	if req.Reference != nil {
		posting.Reference = &ledger.Reference{Type: req.Reference.Type, ID: req.Reference.ID}
	}
	for _, l := range req.Lines {
		posting.Lines = append(posting.Lines, ledger.LineRequest{
			AccountCode:  l.AccountCode,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Description:  l.Description,
		})
	}

	entry, err := h.ledgerService.PostEntry(c.Request.Context(), posting)
	if err != nil {
		respondAccountError(c, h.logger, "post journal entry", err, false)
		return
	}

	h.logger.Info("Journal entry posted",
		"entry_number", entry.EntryNumber,
		"sequence", entry.Sequence,
		"correlation_id", middleware.GetCorrelationID(c),
	)
	RespondCreated(c, mapEntryToResponse(entry))
}

// GetByNumber retrieves a journal entry, returning 404 if not found
func (h *JournalHandler) GetByNumber(c *gin.Context) {
	entry, err := h.ledgerService.GetEntry(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, h.logger, "get journal entry", err)
		return
	}
	RespondOK(c, mapEntryToResponse(entry))
}

// Reverse posts the offsetting entry of a posted entry
func (h *JournalHandler) Reverse(c *gin.Context) {
	var req ReverseEntryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondBadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	var date time.Time
	if req.EntryDate != "" {
		d, err := parseDate(req.EntryDate)
		if err != nil {
			RespondBadRequest(c, "entry_date: "+err.Error())
			return
		}
		date = d
	}

	entry, err := h.ledgerService.ReverseEntry(c.Request.Context(), c.Param("number"), req.ReversalNumber, date)
	if err != nil {
		respondAccountError(c, h.logger, "reverse journal entry", err, false)
		return
	}
	RespondCreated(c, mapEntryToResponse(entry))
}

// ListLines returns posted lines dated in ?from=&to=, paginated
func (h *JournalHandler) ListLines(c *gin.Context) {
	var q PeriodQuery
	var page PaginationParams
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if err := c.ShouldBindQuery(&page); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	period, err := parsePeriod(q)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	lines, err := h.ledgerService.QueryLines(c.Request.Context(), period)
	if err != nil {
		respondError(c, h.logger, "query journal lines", err)
		return
	}

	total := len(lines)
	from := min((page.Page-1)*page.PerPage, total)
	to := min(from+page.PerPage, total)

	response := make([]PostedLineResponse, 0, to-from)
	for _, l := range lines[from:to] {
		response = append(response, mapPostedLineToResponse(l))
	}
	RespondWithPaginatedData(c, http.StatusOK, response, page.Page, page.PerPage, total)
}

func mapEntryToResponse(e *ledger.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		ID:          e.ID.String(),
		Sequence:    e.Sequence,
		EntryNumber: e.EntryNumber,
		EntryDate:   e.EntryDate.Format(dateLayout),
		Description: e.Description,
		TotalAmount: e.TotalAmount.StringFixed(2),
		Lines:       make([]JournalLineResponse, 0, len(e.Lines)),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
	if e.Reference != nil {
		resp.ReferenceType = e.Reference.Type
		resp.ReferenceID = e.Reference.ID
	}
	for _, l := range e.Lines {
		resp.Lines = append(resp.Lines, JournalLineResponse{
			LineNumber:   l.LineNumber,
			AccountCode:  l.AccountCode,
			DebitAmount:  l.DebitAmount().StringFixed(2),
			CreditAmount: l.CreditAmount().StringFixed(2),
			Description:  l.Description,
		})
	}
	return resp
}

func mapPostedLineToResponse(l ledger.PostedLine) PostedLineResponse {
	return PostedLineResponse{
		EntryNumber:  l.EntryNumber,
		EntryDate:    l.EntryDate.Format(dateLayout),
		LineNumber:   l.LineNumber,
		AccountCode:  l.AccountCode,
		AccountName:  l.AccountName,
		AccountType:  string(l.AccountType),
		DebitAmount:  l.DebitAmount().StringFixed(2),
		CreditAmount: l.CreditAmount().StringFixed(2),
		Description:  l.Description,
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("expected a date formatted as %s", dateLayout)
	}
	return t, nil
}

// parsePeriod reads ?from=&to=. A missing from means since inception and a
// missing to means today.
func parsePeriod(q PeriodQuery) (report.Period, error) {
	var period report.Period
	if q.From != "" {
		start, err := parseDate(q.From)
		if err != nil {
			return period, fmt.Errorf("from: %w", err)
		}
		period.Start = start
	}
	if q.To != "" {
		end, err := parseDate(q.To)
		if err != nil {
			return period, fmt.Errorf("to: %w", err)
		}
		period.End = end
	} else {
		period.End = ledger.DateOnly(time.Now())
	}
	return period, nil
}
