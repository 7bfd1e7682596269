package banktxn

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines bank transaction persistence operations
type Repository interface {
	// AcquireIngestionLock blocks until this transaction holds the
	// ingestion advisory lock, serializing concurrent statement ingests.
	// The lock is released when the surrounding database transaction ends,
	// so it is only meaningful on a WithTx repository.
	AcquireIngestionLock(ctx context.Context) error

	// InsertBatch persists new transactions in a single batch write
	InsertBatch(ctx context.Context, txns []*Transaction) error

	// GetByDateRange returns all transactions whose date falls inside the
	// inclusive [start, end] window, reconciled or not
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*Transaction, error)

	// GetUnreconciled returns all transactions awaiting reconciliation,
	// newest first
	GetUnreconciled(ctx context.Context) ([]*Transaction, error)

	// GetReconciled returns all reconciled transactions, newest first
	GetReconciled(ctx context.Context) ([]*Transaction, error)

	// MarkReconciled flips the reconciled flag for a single transaction
	MarkReconciled(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context) (int64, error)
	CountReconciled(ctx context.Context) (int64, error)

	// DeleteAll removes every transaction (full-database reset)
	DeleteAll(ctx context.Context) error

	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates a missing bank transaction
type ErrTransactionNotFound struct {
	ID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "bank transaction not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrAlreadyReconciled indicates an attempt to reconcile a transaction twice
type ErrAlreadyReconciled struct {
	ID uuid.UUID
}

func (e ErrAlreadyReconciled) Error() string {
	return "bank transaction already reconciled: " + e.ID.String()
}
