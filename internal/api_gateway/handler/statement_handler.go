package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/settlement-reconciliation/internal/api_gateway/middleware"
	"github.com/settlement-reconciliation/internal/api_gateway/service"
	"github.com/settlement-reconciliation/internal/domain/banktxn"
	"github.com/settlement-reconciliation/internal/domain/reconciliation"
	"github.com/settlement-reconciliation/internal/domain/shared"
	"github.com/settlement-reconciliation/internal/ingestion"
)

// StatementHandler handles HTTP requests for bank statement operations
type StatementHandler struct {
	statementService service.StatementService
	logger           *slog.Logger
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler(logger *slog.Logger, statementService service.StatementService) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		logger:           logger,
	}
}

// Ingest parses and persists a statement synchronously. Malformed or invalid
// statements are rejected whole: nothing is written and the row-level error
// is returned to the caller.
func (h *StatementHandler) Ingest(c *gin.Context) {
	var req IngestStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inserted, err := h.statementService.IngestStatement(c.Request.Context(), req.Statement)
	if err != nil {
		h.respondIngestError(c, err)
		return
	}

	RespondOK(c, IngestStatementResponse{Inserted: inserted})
}

// IngestAsync queues a statement for background ingestion
func (h *StatementHandler) IngestAsync(c *gin.Context) {
	var req IngestStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	ingestionID, err := h.statementService.SubmitStatementAsync(c.Request.Context(), req.Statement, correlationID)
	if err != nil {
		if errors.Is(err, shared.ErrEmptyStatement) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to submit statement", "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, gin.H{
		"ingestion_id": ingestionID.String(),
		"status":       "PENDING",
	})
}

// GetUnreconciled lists bank transactions still awaiting a match
func (h *StatementHandler) GetUnreconciled(c *gin.Context) {
	txns, err := h.statementService.GetUnreconciledTransactions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list unreconciled transactions", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]BankTransactionResponse, 0, len(txns))
	for _, txn := range txns {
		responses = append(responses, mapTransactionToResponse(txn))
	}
	RespondOK(c, responses)
}

// GetReconciled lists matched transactions joined with their audit records
func (h *StatementHandler) GetReconciled(c *gin.Context) {
	matched, err := h.statementService.GetReconciledTransactions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list reconciled transactions", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]MatchedTransactionResponse, 0, len(matched))
	for _, m := range matched {
		responses = append(responses, mapMatchedToResponse(m))
	}
	RespondOK(c, responses)
}

// respondIngestError maps statement-level failures to 400 and everything
// else to 500. Parse and validation errors carry the offending line number.
func (h *StatementHandler) respondIngestError(c *gin.Context, err error) {
	var parseErr ingestion.ParseError
	if errors.As(err, &parseErr) {
		RespondBadRequest(c, parseErr.Error())
		return
	}

	var validationErr ingestion.ValidationError
	if errors.As(err, &validationErr) {
		RespondBadRequest(c, validationErr.Error())
		return
	}

	if errors.Is(err, shared.ErrEmptyStatement) {
		RespondBadRequest(c, err.Error())
		return
	}

	h.logger.Error("Statement ingestion failed", "error", err)
	RespondInternalError(c)
}

func mapTransactionToResponse(txn *banktxn.Transaction) BankTransactionResponse {
	return BankTransactionResponse{
		ID:          txn.ID.String(),
		Amount:      txn.Amount,
		Date:        txn.Date.Format(time.RFC3339),
		Description: txn.Description,
		Reference:   txn.Reference,
		Reconciled:  txn.Reconciled,
		CreatedAt:   txn.CreatedAt.Format(time.RFC3339),
	}
}

func mapMatchedToResponse(m *reconciliation.MatchedTransaction) MatchedTransactionResponse {
	return MatchedTransactionResponse{
		Transaction: mapTransactionToResponse(&m.Transaction),
		Reconciliation: ReconciliationRecordResponse{
			ID:                m.Record.ID.String(),
			BankTransactionID: m.Record.BankTransactionID.String(),
			LedgerEntryID:     m.Record.LedgerEntryID.String(),
			Status:            string(m.Record.Status),
			ConfidenceScore:   m.Record.ConfidenceScore,
			Notes:             m.Record.Notes,
			MatchedAt:         m.Record.MatchedAt.Format(time.RFC3339),
		},
	}
}
