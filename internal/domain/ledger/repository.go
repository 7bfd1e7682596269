package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages ledger entry persistence
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)

	// GetUnreconciled returns entries still awaiting settlement, newest
	// first, capped at limit (0 means no cap)
	GetUnreconciled(ctx context.Context, limit int) ([]*Entry, error)

	// MarkReconciled flips the reconciled flag for a single entry
	MarkReconciled(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context) (int64, error)

	// OutstandingExposure sums the amounts of all unreconciled entries
	OutstandingExposure(ctx context.Context) (int64, error)

	// DeleteAll removes every entry (full-database reset)
	DeleteAll(ctx context.Context) error

	WithTx(tx pgx.Tx) Repository
}

// ErrEntryNotFound indicates a missing ledger entry
type ErrEntryNotFound struct {
	ID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "ledger entry not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
