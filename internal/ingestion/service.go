package ingestion

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/settlement-reconciliation/internal/domain/banktxn"
)

// TxRunner executes a function inside a single database transaction.
// Implemented by persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Service ingests parsed statements idempotently: rows whose dedup signature
// already exists in storage are silently skipped, so replaying a statement is
// a no-op.
type Service struct {
	db     TxRunner
	txns   banktxn.Repository
	logger *slog.Logger
}

func NewService(db TxRunner, txns banktxn.Repository, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		txns:   txns,
		logger: logger,
	}
}

// Ingest parses raw statement text, validates every row, and inserts the
// rows not already present. It returns the number of transactions actually
// inserted. A single bad row aborts the whole batch with nothing written:
// the caller fixes the statement and replays it, and the rows that were
// valid the first time dedup away on the second attempt.
func (s *Service) Ingest(ctx context.Context, raw string) (int, error) {
	records, err := ParseStatement(raw)
	if err != nil {
		return 0, err
	}

	candidates := make([]*banktxn.Transaction, 0, len(records))
	for i, rec := range records {
		txn, err := convertRecord(rec, i+2) // Line 1 is the header
		if err != nil {
			return 0, err
		}
		candidates = append(candidates, txn)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	// One read covers the whole batch: existing rows can only collide with
	// candidates inside the batch's own date window.
	minDate, maxDate := dateWindow(candidates)

	inserted := 0
	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.txns.WithTx(tx)

		if err := repo.AcquireIngestionLock(ctx); err != nil {
			return err
		}

		existing, err := repo.GetByDateRange(ctx, minDate, maxDate)
		if err != nil {
			return err
		}

		seen := make(map[banktxn.Signature]struct{}, len(existing)+len(candidates))
		for _, txn := range existing {
			seen[banktxn.SignatureOf(txn)] = struct{}{}
		}

		// Self-dedup too: a statement repeating its own row inserts it once.
		fresh := candidates[:0]
		for _, txn := range candidates {
			sig := banktxn.SignatureOf(txn)
			if _, dup := seen[sig]; dup {
				continue
			}
			seen[sig] = struct{}{}
			fresh = append(fresh, txn)
		}
		if len(fresh) == 0 {
			return nil
		}

		if err := repo.InsertBatch(ctx, fresh); err != nil {
			return err
		}
		inserted = len(fresh)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Statement ingested",
		"rows", len(records),
		"inserted", inserted,
		"skipped", len(records)-inserted)
	return inserted, nil
}

func dateWindow(txns []*banktxn.Transaction) (time.Time, time.Time) {
	minDate, maxDate := txns[0].Date, txns[0].Date
	for _, txn := range txns[1:] {
		if txn.Date.Before(minDate) {
			minDate = txn.Date
		}
		if txn.Date.After(maxDate) {
			maxDate = txn.Date
		}
	}
	return minDate, maxDate
}
