package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/workshop-financial-engine/internal/api_gateway/handler"
	"github.com/workshop-financial-engine/internal/api_gateway/middleware"
)

// handlers groups every HTTP handler the router mounts
type handlers struct {
	account   *handler.AccountHandler
	journal   *handler.JournalHandler
	sale      *handler.SaleHandler
	report    *handler.ReportHandler
	analytics *handler.AnalyticsHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Chart of accounts
		accounts := v1.Group("/accounts")
		{
			accounts.GET("", h.account.List)
			accounts.POST("", h.account.Create)
			accounts.PATCH("/:code", h.account.SetStatus)
		}

		// Ledger
		entries := v1.Group("/journal-entries")
		{
			entries.POST("", h.journal.Create)
			entries.GET("", h.journal.ListLines)
			entries.GET("/:number", h.journal.GetByNumber)
			entries.POST("/:number/reverse", h.journal.Reverse)
		}

		v1.POST("/sales", h.sale.Submit)

		// Statements: profit-loss, balance-sheet, cash-flow
		v1.GET("/reports/:type", h.report.Get)

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/seasonality", h.analytics.Seasonality)
			analytics.GET("/forecast", h.analytics.Forecast)
			analytics.GET("/recommendations", h.analytics.Recommendations)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
