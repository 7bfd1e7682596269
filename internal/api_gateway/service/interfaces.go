package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/settlement-reconciliation/internal/domain/banktxn"
	"github.com/settlement-reconciliation/internal/domain/ledger"
	"github.com/settlement-reconciliation/internal/domain/reconciliation"
	"github.com/settlement-reconciliation/internal/domain/shared"
)

// StatementService defines the interface for bank statement operations
type StatementService interface {
	// IngestStatement parses and persists a raw CSV statement synchronously.
	// Returns the number of transactions inserted after deduplication.
	IngestStatement(ctx context.Context, rawText string) (int, error)

	// SubmitStatementAsync queues a statement for background ingestion and
	// returns the ingestion ID used to track it
	SubmitStatementAsync(ctx context.Context, rawText, correlationID string) (uuid.UUID, error)

	// GetUnreconciledTransactions returns bank transactions still awaiting a match
	GetUnreconciledTransactions(ctx context.Context) ([]*banktxn.Transaction, error)

	// GetReconciledTransactions returns matched transactions joined with
	// their audit records
	GetReconciledTransactions(ctx context.Context) ([]*reconciliation.MatchedTransaction, error)
}

// ReconciliationService defines the interface for reconciliation operations
type ReconciliationService interface {
	// RunReconciliation executes one matching pass and returns the number
	// of transactions it reconciled
	RunReconciliation(ctx context.Context) (int, error)

	// GetStats returns aggregate reconciliation coverage
	GetStats(ctx context.Context) (*shared.Stats, error)

	// Reset clears all operational reconciliation data. The audit archive
	// is deliberately left untouched.
	Reset(ctx context.Context) error
}

// LedgerService defines the interface for ledger entry operations
type LedgerService interface {
	// CreateEntry records a new obligation awaiting settlement
	CreateEntry(ctx context.Context, amount int64, date time.Time, description, reference string, entryType ledger.EntryType) (*ledger.Entry, error)

	// GetUnreconciledEntries returns open obligations, capped at limit (0 = no cap)
	GetUnreconciledEntries(ctx context.Context, limit int) ([]*ledger.Entry, error)

	// SeedDemoEntries loads the demo invoice book and returns how many
	// entries it created
	SeedDemoEntries(ctx context.Context) (int, error)
}
