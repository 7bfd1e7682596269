package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/settlement-reconciliation/internal/api_gateway/service"
	"github.com/settlement-reconciliation/internal/domain/ledger"
)

// LedgerHandler handles HTTP requests for ledger entry operations
type LedgerHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(logger *slog.Logger, ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Create records a new obligation awaiting settlement
func (h *LedgerHandler) Create(c *gin.Context) {
	var req CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		date, err = time.Parse(time.RFC3339, req.Date)
		if err != nil {
			RespondBadRequest(c, "Invalid date: expected YYYY-MM-DD or RFC 3339")
			return
		}
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), req.Amount, date, req.Description, req.Reference, ledger.EntryType(req.Type))
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) ||
			errors.Is(err, ledger.ErrEmptyDescription) ||
			errors.Is(err, ledger.ErrInvalidEntryType) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create ledger entry", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapEntryToResponse(entry))
}

// GetUnreconciled lists open obligations, optionally capped via ?limit
func (h *LedgerHandler) GetUnreconciled(c *gin.Context) {
	var params ListQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters")
		return
	}

	entries, err := h.ledgerService.GetUnreconciledEntries(c.Request.Context(), params.Limit)
	if err != nil {
		h.logger.Error("Failed to list unreconciled entries", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, mapEntryToResponse(entry))
	}
	RespondOK(c, responses)
}

// Seed loads the demo invoice book
func (h *LedgerHandler) Seed(c *gin.Context) {
	created, err := h.ledgerService.SeedDemoEntries(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to seed ledger entries", "created", created, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, gin.H{"created": created})
}

// mapEntryToResponse maps a ledger entry to its response DTO
func mapEntryToResponse(entry *ledger.Entry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:          entry.ID.String(),
		Amount:      entry.Amount,
		Date:        entry.Date.Format(time.RFC3339),
		Description: entry.Description,
		Reference:   entry.Reference,
		Type:        string(entry.Type),
		Reconciled:  entry.Reconciled,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
	}
}
