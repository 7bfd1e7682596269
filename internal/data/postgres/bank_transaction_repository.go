// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the settlement reconciliation system.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/settlement-reconciliation/internal/domain/banktxn"
	"github.com/settlement-reconciliation/internal/platform/persistence"
)

// ingestionLockID is the advisory lock key serializing statement ingestion.
const ingestionLockID = 6002301

// BankTransactionRepository implements the banktxn.Repository interface for PostgreSQL
type BankTransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewBankTransactionRepository creates a new PostgreSQL bank transaction repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewBankTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) banktxn.Repository {
	return &BankTransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls.
func (r *BankTransactionRepository) WithTx(tx pgx.Tx) banktxn.Repository {
	return &BankTransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// AcquireIngestionLock takes the transaction-scoped advisory lock guarding
// the ingestion read-then-write sequence. Postgres releases it automatically
// at commit or rollback.
func (r *BankTransactionRepository) AcquireIngestionLock(ctx context.Context) error {
	_, err := r.querier.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ingestionLockID)
	if err != nil {
		r.logger.Error("Failed to acquire ingestion lock", "error", err)
		return fmt.Errorf("failed to acquire ingestion lock: %w", err)
	}
	return nil
}

// InsertBatch persists new transactions as one multi-row INSERT so the whole
// batch lands in a single statement.
func (r *BankTransactionRepository) InsertBatch(ctx context.Context, txns []*banktxn.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO bank_transactions (id, amount, date, description, reference, reconciled, created_at) VALUES `)

	args := make([]interface{}, 0, len(txns)*7)
	for i, txn := range txns {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args,
			txn.ID,
			txn.Amount,
			txn.Date,
			txn.Description,
			nullableReference(txn.Reference),
			txn.Reconciled,
			txn.CreatedAt,
		)
	}

	_, err := r.querier.Exec(ctx, sb.String(), args...)
	if err != nil {
		r.logger.Error("Failed to insert bank transaction batch", "size", len(txns), "error", err)
		return fmt.Errorf("failed to insert bank transactions: %w", err)
	}

	return nil
}

// GetByDateRange returns all transactions dated inside the inclusive window.
func (r *BankTransactionRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*banktxn.Transaction, error) {
	query := `
		SELECT id, amount, date, description, reference, reconciled, created_at
		FROM bank_transactions
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC
	`

	rows, err := r.querier.Query(ctx, query, start, end)
	if err != nil {
		r.logger.Error("Failed to get transactions by date range", "error", err)
		return nil, fmt.Errorf("failed to get transactions by date range: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetUnreconciled returns all transactions awaiting reconciliation, newest first
func (r *BankTransactionRepository) GetUnreconciled(ctx context.Context) ([]*banktxn.Transaction, error) {
	return r.getByReconciled(ctx, false)
}

// GetReconciled returns all reconciled transactions, newest first
func (r *BankTransactionRepository) GetReconciled(ctx context.Context) ([]*banktxn.Transaction, error) {
	return r.getByReconciled(ctx, true)
}

func (r *BankTransactionRepository) getByReconciled(ctx context.Context, reconciled bool) ([]*banktxn.Transaction, error) {
	query := `
		SELECT id, amount, date, description, reference, reconciled, created_at
		FROM bank_transactions
		WHERE reconciled = $1
		ORDER BY date DESC
	`

	rows, err := r.querier.Query(ctx, query, reconciled)
	if err != nil {
		r.logger.Error("Failed to get transactions", "reconciled", reconciled, "error", err)
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// MarkReconciled flips the reconciled flag. Flipping an already-reconciled
// transaction is rejected so a racing pass can never double-consume it.
func (r *BankTransactionRepository) MarkReconciled(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bank_transactions
		SET reconciled = TRUE
		WHERE id = $1 AND reconciled = FALSE
	`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to mark transaction reconciled", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark transaction reconciled: %w", err)
	}

	if result.RowsAffected() == 0 {
		return banktxn.ErrAlreadyReconciled{ID: id}
	}

	return nil
}

// Count returns the total number of bank transactions
func (r *BankTransactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM bank_transactions`).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count transactions", "error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// CountReconciled returns the number of reconciled bank transactions
func (r *BankTransactionRepository) CountReconciled(ctx context.Context) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM bank_transactions WHERE reconciled = TRUE`).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count reconciled transactions", "error", err)
		return 0, fmt.Errorf("failed to count reconciled transactions: %w", err)
	}
	return count, nil
}

// DeleteAll removes every bank transaction
func (r *BankTransactionRepository) DeleteAll(ctx context.Context) error {
	_, err := r.querier.Exec(ctx, `DELETE FROM bank_transactions`)
	if err != nil {
		r.logger.Error("Failed to delete bank transactions", "error", err)
		return fmt.Errorf("failed to delete bank transactions: %w", err)
	}
	return nil
}

func scanTransactions(rows pgx.Rows) ([]*banktxn.Transaction, error) {
	var txns []*banktxn.Transaction
	for rows.Next() {
		var txn banktxn.Transaction
		var reference *string
		err := rows.Scan(
			&txn.ID,
			&txn.Amount,
			&txn.Date,
			&txn.Description,
			&reference,
			&txn.Reconciled,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction: %w", err)
		}
		if reference != nil {
			txn.Reference = *reference
		}
		txns = append(txns, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over bank transactions: %w", err)
	}

	return txns, nil
}

// nullableReference maps the in-memory empty-string sentinel to SQL NULL.
func nullableReference(ref string) *string {
	if ref == "" {
		return nil
	}
	return &ref
}
