package service

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/settlement-reconciliation/internal/domain/banktxn"
	"github.com/settlement-reconciliation/internal/domain/ledger"
	"github.com/settlement-reconciliation/internal/domain/reconciliation"
	"github.com/settlement-reconciliation/internal/domain/shared"
)

// PassRunner executes one serialized reconciliation pass.
// Implemented by engine.Runner.
type PassRunner interface {
	Run(ctx context.Context) (int, error)
}

// TxRunner executes a function inside a single database transaction.
// Implemented by persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// ReconciliationServiceImpl implements the ReconciliationService interface
type ReconciliationServiceImpl struct {
	runner     PassRunner
	db         TxRunner
	txnRepo    banktxn.Repository
	entryRepo  ledger.Repository
	recordRepo reconciliation.Repository
	logger     *slog.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(logger *slog.Logger, runner PassRunner, db TxRunner, txnRepo banktxn.Repository, entryRepo ledger.Repository, recordRepo reconciliation.Repository) ReconciliationService {
	return &ReconciliationServiceImpl{
		runner:     runner,
		db:         db,
		txnRepo:    txnRepo,
		entryRepo:  entryRepo,
		recordRepo: recordRepo,
		logger:     logger,
	}
}

// RunReconciliation executes one matching pass and returns the number of
// transactions it reconciled. Passes are serialized by the runner, so
// concurrent calls queue rather than interleave.
func (s *ReconciliationServiceImpl) RunReconciliation(ctx context.Context) (int, error) {
	matched, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error("Reconciliation pass failed", "matched", matched, "error", err)
		return matched, err
	}

	s.logger.Info("Reconciliation pass completed", "matched", matched)
	return matched, nil
}

// GetStats returns aggregate reconciliation coverage
func (s *ReconciliationServiceImpl) GetStats(ctx context.Context) (*shared.Stats, error) {
	total, err := s.txnRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	reconciled, err := s.txnRepo.CountReconciled(ctx)
	if err != nil {
		return nil, err
	}

	entryCount, err := s.entryRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	exposure, err := s.entryRepo.OutstandingExposure(ctx)
	if err != nil {
		return nil, err
	}

	return &shared.Stats{
		TotalTransactions:   total,
		ReconciledCount:     reconciled,
		UnreconciledCount:   total - reconciled,
		LedgerEntryCount:    entryCount,
		OutstandingExposure: exposure,
	}, nil
}

// Reset clears records, bank transactions, and ledger entries in a single
// transaction. The Mongo audit archive is append-only and survives resets.
func (s *ReconciliationServiceImpl) Reset(ctx context.Context) error {
	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		// Records first: they reference both sides of the match.
		if err := s.recordRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.txnRepo.WithTx(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return s.entryRepo.WithTx(tx).DeleteAll(ctx)
	})
	if err != nil {
		s.logger.Error("Reset failed", "error", err)
		return err
	}

	s.logger.Info("Operational data reset")
	return nil
}
