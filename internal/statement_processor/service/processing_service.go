package service

import (
	"context"
	"log/slog"

	"github.com/settlement-reconciliation/internal/domain/shared"
)

type ProcessingServiceImpl struct {
	ingester StatementIngester
	logger   *slog.Logger
}

func NewProcessingService(ingester StatementIngester, logger *slog.Logger) ProcessingService {
	return &ProcessingServiceImpl{
		ingester: ingester,
		logger:   logger,
	}
}

// ProcessStatement ingests the statement carried by an asynchronous request.
// Parse and validation failures are permanent: the same statement text fails
// the same way every time, so the caller should dead-letter rather than
// retry. Storage errors propagate for retry.
func (s *ProcessingServiceImpl) ProcessStatement(ctx context.Context, request *shared.StatementIngestionRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing statement ingestion request", "ingestion_id", request.IngestionID.String())

	inserted, err := s.ingester.Ingest(ctx, request.Statement)
	if err != nil {
		logger.Error("Statement ingestion failed", "ingestion_id", request.IngestionID.String(), "error", err)
		return err
	}

	logger.Info("Statement ingestion completed", "ingestion_id", request.IngestionID.String(), "inserted", inserted)
	return nil
}
