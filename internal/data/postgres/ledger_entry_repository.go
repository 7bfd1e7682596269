package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/settlement-reconciliation/internal/domain/ledger"
	"github.com/settlement-reconciliation/internal/platform/persistence"
)

// LedgerEntryRepository implements the ledger.Repository interface for PostgreSQL
type LedgerEntryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerEntryRepository creates a new PostgreSQL ledger entry repository
func NewLedgerEntryRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerEntryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *LedgerEntryRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &LedgerEntryRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new ledger entry
func (r *LedgerEntryRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (id, amount, date, description, reference, type, reconciled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		entry.ID,
		entry.Amount,
		entry.Date,
		entry.Description,
		nullableReference(entry.Reference),
		entry.Type,
		entry.Reconciled,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create ledger entry", "id", entry.ID.String(), "error", err)
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// GetByID retrieves a ledger entry by its ID
func (r *LedgerEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	query := `
		SELECT id, amount, date, description, reference, type, reconciled, created_at
		FROM ledger_entries
		WHERE id = $1
	`

	entry, err := scanEntry(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrEntryNotFound{ID: id}
		}
		r.logger.Error("Failed to get ledger entry", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return entry, nil
}

// GetUnreconciled returns entries awaiting settlement, newest first, capped
// at limit (0 means no cap).
func (r *LedgerEntryRepository) GetUnreconciled(ctx context.Context, limit int) ([]*ledger.Entry, error) {
	query := `
		SELECT id, amount, date, description, reference, type, reconciled, created_at
		FROM ledger_entries
		WHERE reconciled = FALSE
		ORDER BY date DESC
	`

	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.querier.Query(ctx, query+` LIMIT $1`, limit)
	} else {
		rows, err = r.querier.Query(ctx, query)
	}
	if err != nil {
		r.logger.Error("Failed to get unreconciled ledger entries", "error", err)
		return nil, fmt.Errorf("failed to get unreconciled ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over ledger entries: %w", err)
	}

	return entries, nil
}

// MarkReconciled flips the reconciled flag, rejecting a double flip.
func (r *LedgerEntryRepository) MarkReconciled(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE ledger_entries
		SET reconciled = TRUE
		WHERE id = $1 AND reconciled = FALSE
	`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to mark ledger entry reconciled", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark ledger entry reconciled: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound{ID: id}
	}

	return nil
}

// Count returns the total number of ledger entries
func (r *LedgerEntryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries`).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count ledger entries", "error", err)
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return count, nil
}

// OutstandingExposure sums the amounts of all unreconciled entries
func (r *LedgerEntryRepository) OutstandingExposure(ctx context.Context) (int64, error) {
	var exposure int64
	query := `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE reconciled = FALSE`
	err := r.querier.QueryRow(ctx, query).Scan(&exposure)
	if err != nil {
		r.logger.Error("Failed to compute outstanding exposure", "error", err)
		return 0, fmt.Errorf("failed to compute outstanding exposure: %w", err)
	}
	return exposure, nil
}

// DeleteAll removes every ledger entry
func (r *LedgerEntryRepository) DeleteAll(ctx context.Context) error {
	_, err := r.querier.Exec(ctx, `DELETE FROM ledger_entries`)
	if err != nil {
		r.logger.Error("Failed to delete ledger entries", "error", err)
		return fmt.Errorf("failed to delete ledger entries: %w", err)
	}
	return nil
}

func scanEntry(row pgx.Row) (*ledger.Entry, error) {
	var entry ledger.Entry
	var reference *string
	err := row.Scan(
		&entry.ID,
		&entry.Amount,
		&entry.Date,
		&entry.Description,
		&reference,
		&entry.Type,
		&entry.Reconciled,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reference != nil {
		entry.Reference = *reference
	}
	return &entry, nil
}
