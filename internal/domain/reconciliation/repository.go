package reconciliation

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/settlement-reconciliation/internal/domain/banktxn"
)

// MatchedTransaction pairs a reconciled bank transaction with its audit record
type MatchedTransaction struct {
	Transaction banktxn.Transaction `json:"transaction"`
	Record      Record              `json:"reconciliation"`
}

// Repository manages reconciliation record persistence
type Repository interface {
	// Create stores a new record; records are never updated afterwards
	Create(ctx context.Context, record *Record) error

	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// GetByBankTransactionID returns the record covering a transaction,
	// or ErrRecordNotFound when the transaction is unreconciled
	GetByBankTransactionID(ctx context.Context, txnID uuid.UUID) (*Record, error)

	// ListMatched returns reconciled transactions joined with their
	// records, newest transaction first
	ListMatched(ctx context.Context) ([]*MatchedTransaction, error)

	// DeleteAll removes every record (full-database reset)
	DeleteAll(ctx context.Context) error

	WithTx(tx pgx.Tx) Repository
}

// ErrRecordNotFound indicates a missing reconciliation record
type ErrRecordNotFound struct {
	ID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "reconciliation record not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrDuplicateRecord indicates a pairing uniqueness violation
type ErrDuplicateRecord struct {
	ID uuid.UUID
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate reconciliation record: " + e.ID.String()
}
