package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/workshop-financial-engine/internal/api_gateway/service"
	"github.com/workshop-financial-engine/internal/domain/report"
)

// ReportHandler serves financial statements
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Get computes the statement named by the :type path segment for ?from=&to=
func (h *ReportHandler) Get(c *gin.Context) {
	t, err := report.ParseType(c.Param("type"))
	if err != nil {
		RespondNotFound(c, err.Error())
		return
	}

	var q PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	period, err := parsePeriod(q)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	doc, err := h.reportService.Generate(c.Request.Context(), t, period)
	if err != nil {
		respondError(c, h.logger, "generate "+string(t), err)
		return
	}
	RespondOK(c, doc)
}
