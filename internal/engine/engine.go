// Package engine implements the reconciliation pass: a rule cascade that
// pairs unreconciled bank transactions with unreconciled ledger entries and
// records each pairing atomically.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/settlement-reconciliation/internal/domain/banktxn"
	"github.com/settlement-reconciliation/internal/domain/ledger"
	"github.com/settlement-reconciliation/internal/domain/outbox"
	"github.com/settlement-reconciliation/internal/domain/reconciliation"
)

// TxRunner executes a function inside a single database transaction.
// Implemented by persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Engine runs reconciliation passes. It holds no state between passes:
// every Run reconsiders everything currently unreconciled.
type Engine struct {
	db      TxRunner
	txns    banktxn.Repository
	entries ledger.Repository
	records reconciliation.Repository
	outbox  outbox.Repository
	logger  *slog.Logger
}

func New(
	db TxRunner,
	txns banktxn.Repository,
	entries ledger.Repository,
	records reconciliation.Repository,
	outboxRepo outbox.Repository,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		db:      db,
		txns:    txns,
		entries: entries,
		records: records,
		outbox:  outboxRepo,
		logger:  logger,
	}
}

// Run executes one reconciliation pass and returns how many transactions it
// matched. Unreconciled transactions and ledger entries are snapshotted once
// at the start; an entry consumed by a match is withdrawn from candidacy for
// the rest of the pass in memory, not by re-querying.
//
// A storage failure while recording one match abandons only that match; the
// pass carries on and the accumulated errors come back joined alongside the
// count of matches that did commit. Run is not safe for concurrent
// invocation; callers serialize passes (see Runner).
func (e *Engine) Run(ctx context.Context) (int, error) {
	e.logger.Info("Starting reconciliation pass")

	txns, err := e.txns.GetUnreconciled(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load unreconciled transactions: %w", err)
	}
	entries, err := e.entries.GetUnreconciled(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to load unreconciled ledger entries: %w", err)
	}

	matched := 0
	var matchErrs []error

	for _, txn := range txns {
		outcome := evaluate(txn, entries)
		if outcome == nil {
			continue
		}

		entry := entries[outcome.entryIdx]
		if err := e.commitMatch(ctx, txn, entry, outcome); err != nil {
			e.logger.Error("Failed to record match",
				"bank_transaction_id", txn.ID.String(),
				"ledger_entry_id", entry.ID.String(),
				"error", err,
			)
			matchErrs = append(matchErrs, fmt.Errorf("match %s -> %s: %w", txn.ID, entry.ID, err))
			continue
		}

		// Withdraw the consumed entry so no later transaction can claim it.
		entries = append(entries[:outcome.entryIdx], entries[outcome.entryIdx+1:]...)
		matched++
	}

	e.logger.Info("Reconciliation pass complete",
		"transactions", len(txns),
		"matched", matched,
		"failed_matches", len(matchErrs),
	)
	return matched, errors.Join(matchErrs...)
}

// commitMatch performs the atomic write group for one established match: the
// audit record, both reconciled flags, and the outbox message feeding the
// archive projection. All four succeed or none do.
func (e *Engine) commitMatch(ctx context.Context, txn *banktxn.Transaction, entry *ledger.Entry, outcome *matchOutcome) error {
	record := reconciliation.NewRecord(txn.ID, entry.ID, outcome.status, outcome.confidence, outcome.notes)

	msg, err := outbox.NewMessage(record)
	if err != nil {
		return fmt.Errorf("failed to build outbox message: %w", err)
	}

	return e.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := e.records.WithTx(tx).Create(ctx, record); err != nil {
			return err
		}
		if err := e.txns.WithTx(tx).MarkReconciled(ctx, txn.ID); err != nil {
			return err
		}
		if err := e.entries.WithTx(tx).MarkReconciled(ctx, entry.ID); err != nil {
			return err
		}
		return e.outbox.WithTx(tx).Create(ctx, msg)
	})
}
