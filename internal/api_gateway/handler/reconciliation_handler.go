package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/settlement-reconciliation/internal/api_gateway/service"
)

// ReconciliationHandler handles HTTP requests for reconciliation operations
type ReconciliationHandler struct {
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(logger *slog.Logger, reconciliationService service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

// Run triggers one reconciliation pass and reports how many transactions
// it matched. Concurrent triggers queue behind the running pass.
func (h *ReconciliationHandler) Run(c *gin.Context) {
	matched, err := h.reconciliationService.RunReconciliation(c.Request.Context())
	if err != nil {
		h.logger.Error("Reconciliation pass failed", "matched", matched, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"matched": matched})
}

// GetStats reports aggregate reconciliation coverage
func (h *ReconciliationHandler) GetStats(c *gin.Context) {
	stats, err := h.reconciliationService.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute stats", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, stats)
}

// Reset clears all operational data. The audit archive is not touched.
func (h *ReconciliationHandler) Reset(c *gin.Context) {
	if err := h.reconciliationService.Reset(c.Request.Context()); err != nil {
		h.logger.Error("Reset failed", "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}
