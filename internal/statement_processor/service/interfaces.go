package service

import (
	"context"

	"github.com/settlement-reconciliation/internal/domain/shared"
)

// ProcessingService defines the interface for processing statement ingestion requests.
type ProcessingService interface {
	ProcessStatement(ctx context.Context, request *shared.StatementIngestionRequest) error
}

// StatementIngester persists the transactions of a parsed statement.
// Implemented by ingestion.Service.
type StatementIngester interface {
	Ingest(ctx context.Context, raw string) (int, error)
}
