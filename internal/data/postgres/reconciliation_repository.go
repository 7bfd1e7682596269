package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/settlement-reconciliation/internal/domain/reconciliation"
	"github.com/settlement-reconciliation/internal/platform/persistence"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
const uniqueViolationCode = "23505"

// ReconciliationRepository implements the reconciliation.Repository interface for PostgreSQL
type ReconciliationRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewReconciliationRepository creates a new PostgreSQL reconciliation record repository
func NewReconciliationRepository(logger *slog.Logger, db *persistence.PostgresDB) reconciliation.Repository {
	return &ReconciliationRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so record creation commits
// atomically with the reconciled-flag updates.
func (r *ReconciliationRepository) WithTx(tx pgx.Tx) reconciliation.Repository {
	return &ReconciliationRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new reconciliation record. Records are append-only; the
// unique constraints on both foreign keys turn a double match into
// ErrDuplicateRecord instead of silent audit corruption.
func (r *ReconciliationRepository) Create(ctx context.Context, record *reconciliation.Record) error {
	query := `
		INSERT INTO reconciliation_records (id, bank_transaction_id, ledger_entry_id, status, confidence_score, notes, matched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		record.ID,
		record.BankTransactionID,
		record.LedgerEntryID,
		record.Status,
		record.ConfidenceScore,
		record.Notes,
		record.MatchedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return reconciliation.ErrDuplicateRecord{ID: record.ID}
		}
		r.logger.Error("Failed to create reconciliation record", "id", record.ID.String(), "error", err)
		return fmt.Errorf("failed to create reconciliation record: %w", err)
	}

	return nil
}

// GetByID retrieves a reconciliation record by its ID
func (r *ReconciliationRepository) GetByID(ctx context.Context, id uuid.UUID) (*reconciliation.Record, error) {
	query := `
		SELECT id, bank_transaction_id, ledger_entry_id, status, confidence_score, notes, matched_at
		FROM reconciliation_records
		WHERE id = $1
	`

	record, err := scanRecord(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, reconciliation.ErrRecordNotFound{ID: id}
		}
		r.logger.Error("Failed to get reconciliation record", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get reconciliation record: %w", err)
	}

	return record, nil
}

// GetByBankTransactionID returns the record covering a transaction
func (r *ReconciliationRepository) GetByBankTransactionID(ctx context.Context, txnID uuid.UUID) (*reconciliation.Record, error) {
	query := `
		SELECT id, bank_transaction_id, ledger_entry_id, status, confidence_score, notes, matched_at
		FROM reconciliation_records
		WHERE bank_transaction_id = $1
	`

	record, err := scanRecord(r.querier.QueryRow(ctx, query, txnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, reconciliation.ErrRecordNotFound{}
		}
		r.logger.Error("Failed to get reconciliation record by transaction",
			"bank_transaction_id", txnID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to get reconciliation record by transaction: %w", err)
	}

	return record, nil
}

// ListMatched returns reconciled transactions joined with their audit
// records, newest transaction first.
func (r *ReconciliationRepository) ListMatched(ctx context.Context) ([]*reconciliation.MatchedTransaction, error) {
	query := `
		SELECT t.id, t.amount, t.date, t.description, t.reference, t.reconciled, t.created_at,
		       rr.id, rr.ledger_entry_id, rr.status, rr.confidence_score, rr.notes, rr.matched_at
		FROM bank_transactions t
		JOIN reconciliation_records rr ON rr.bank_transaction_id = t.id
		ORDER BY t.date DESC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list matched transactions", "error", err)
		return nil, fmt.Errorf("failed to list matched transactions: %w", err)
	}
	defer rows.Close()

	var matched []*reconciliation.MatchedTransaction
	for rows.Next() {
		var m reconciliation.MatchedTransaction
		var reference *string
		err := rows.Scan(
			&m.Transaction.ID,
			&m.Transaction.Amount,
			&m.Transaction.Date,
			&m.Transaction.Description,
			&reference,
			&m.Transaction.Reconciled,
			&m.Transaction.CreatedAt,
			&m.Record.ID,
			&m.Record.LedgerEntryID,
			&m.Record.Status,
			&m.Record.ConfidenceScore,
			&m.Record.Notes,
			&m.Record.MatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan matched transaction: %w", err)
		}
		if reference != nil {
			m.Transaction.Reference = *reference
		}
		m.Record.BankTransactionID = m.Transaction.ID
		matched = append(matched, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over matched transactions: %w", err)
	}

	return matched, nil
}

// DeleteAll removes every reconciliation record
func (r *ReconciliationRepository) DeleteAll(ctx context.Context) error {
	_, err := r.querier.Exec(ctx, `DELETE FROM reconciliation_records`)
	if err != nil {
		r.logger.Error("Failed to delete reconciliation records", "error", err)
		return fmt.Errorf("failed to delete reconciliation records: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (*reconciliation.Record, error) {
	var record reconciliation.Record
	err := row.Scan(
		&record.ID,
		&record.BankTransactionID,
		&record.LedgerEntryID,
		&record.Status,
		&record.ConfidenceScore,
		&record.Notes,
		&record.MatchedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
