package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/settlement-reconciliation/internal/api_gateway/handler"
	"github.com/settlement-reconciliation/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	statementHandler *handler.StatementHandler,
	reconciliationHandler *handler.ReconciliationHandler,
	ledgerHandler *handler.LedgerHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Statement ingestion
		statements := v1.Group("/statements")
		{
			statements.POST("", statementHandler.Ingest)
			statements.POST("/async", statementHandler.IngestAsync)
		}

		// Bank transaction views
		transactions := v1.Group("/transactions")
		{
			transactions.GET("/unreconciled", statementHandler.GetUnreconciled)
			transactions.GET("/reconciled", statementHandler.GetReconciled)
		}

		// Ledger entry operations
		entries := v1.Group("/ledger-entries")
		{
			entries.POST("", ledgerHandler.Create)
			entries.GET("/unreconciled", ledgerHandler.GetUnreconciled)
			entries.POST("/seed", ledgerHandler.Seed)
		}

		// Reconciliation operations
		reconciliation := v1.Group("/reconciliation")
		{
			reconciliation.POST("/run", reconciliationHandler.Run)
			reconciliation.GET("/stats", reconciliationHandler.GetStats)
			reconciliation.POST("/reset", reconciliationHandler.Reset)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
