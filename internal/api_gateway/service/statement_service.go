package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/settlement-reconciliation/internal/domain/banktxn"
	"github.com/settlement-reconciliation/internal/domain/reconciliation"
	"github.com/settlement-reconciliation/internal/domain/shared"
	"github.com/settlement-reconciliation/internal/platform/messaging/producers"
)

// StatementIngester parses and persists raw statement text.
// Implemented by ingestion.Service.
type StatementIngester interface {
	Ingest(ctx context.Context, raw string) (int, error)
}

// StatementServiceImpl implements the StatementService interface
type StatementServiceImpl struct {
	ingester StatementIngester
	txnRepo  banktxn.Repository
	recRepo  reconciliation.Repository
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewStatementService creates a new statement service
func NewStatementService(logger *slog.Logger, ingester StatementIngester, txnRepo banktxn.Repository, recRepo reconciliation.Repository, producer producers.MessagePublisher) StatementService {
	return &StatementServiceImpl{
		ingester: ingester,
		txnRepo:  txnRepo,
		recRepo:  recRepo,
		producer: producer,
		logger:   logger,
	}
}

// IngestStatement parses and persists a statement in the request path.
// Returns the number of transactions inserted after deduplication.
func (s *StatementServiceImpl) IngestStatement(ctx context.Context, rawText string) (int, error) {
	if rawText == "" {
		return 0, shared.ErrEmptyStatement
	}

	inserted, err := s.ingester.Ingest(ctx, rawText)
	if err != nil {
		s.logger.Error("Statement ingestion failed", "error", err)
		return 0, err
	}

	s.logger.Info("Statement ingested", "inserted", inserted)
	return inserted, nil
}

// SubmitStatementAsync publishes the statement for background ingestion and
// returns the ingestion ID used to track it
func (s *StatementServiceImpl) SubmitStatementAsync(ctx context.Context, rawText, correlationID string) (uuid.UUID, error) {
	request, err := shared.NewStatementIngestionRequest(rawText, correlationID)
	if err != nil {
		return uuid.Nil, err
	}

	key := request.IngestionID.String()
	if err := s.producer.Publish(ctx, key, request); err != nil {
		s.logger.Error("Failed to publish statement ingestion request",
			"ingestion_id", key,
			"correlation_id", correlationID,
			"error", err,
		)
		return uuid.Nil, err
	}

	s.logger.Info("Statement ingestion request published",
		"ingestion_id", key,
		"statement_bytes", len(rawText),
	)
	return request.IngestionID, nil
}

// GetUnreconciledTransactions returns bank transactions still awaiting a match
func (s *StatementServiceImpl) GetUnreconciledTransactions(ctx context.Context) ([]*banktxn.Transaction, error) {
	txns, err := s.txnRepo.GetUnreconciled(ctx)
	if err != nil {
		s.logger.Error("Failed to list unreconciled transactions", "error", err)
		return nil, err
	}
	return txns, nil
}

// GetReconciledTransactions returns matched transactions joined with their
// audit records
func (s *StatementServiceImpl) GetReconciledTransactions(ctx context.Context) ([]*reconciliation.MatchedTransaction, error) {
	matched, err := s.recRepo.ListMatched(ctx)
	if err != nil {
		s.logger.Error("Failed to list reconciled transactions", "error", err)
		return nil, err
	}
	return matched, nil
}
