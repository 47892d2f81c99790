package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/workshop-financial-engine/internal/api_gateway/service"
)

// AnalyticsHandler serves time-series analytics over recorded sales
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(logger *slog.Logger, analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

func (h *AnalyticsHandler) Seasonality(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	result, err := h.analyticsService.Seasonality(c.Request.Context(), q.Months)
	if err != nil {
		respondError(c, h.logger, "seasonality", err)
		return
	}
	RespondOK(c, result)
}

func (h *AnalyticsHandler) Forecast(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	points, err := h.analyticsService.Forecast(c.Request.Context(), q.Months, q.Horizon)
	if err != nil {
		respondError(c, h.logger, "forecast", err)
		return
	}
	RespondOK(c, gin.H{"forecast": points})
}

func (h *AnalyticsHandler) Recommendations(c *gin.Context) {
	q, ok := h.bindQuery(c)
	if !ok {
		return
	}
	recs, err := h.analyticsService.Recommendations(c.Request.Context(), q.Months)
	if err != nil {
		respondError(c, h.logger, "recommendations", err)
		return
	}
	RespondOK(c, gin.H{"recommendations": recs})
}

func (h *AnalyticsHandler) bindQuery(c *gin.Context) (AnalyticsQuery, bool) {
	var q AnalyticsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return q, false
	}
	return q, true
}
