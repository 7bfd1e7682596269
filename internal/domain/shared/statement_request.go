package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyStatement = errors.New("statement content cannot be empty")

// StatementIngestionRequest defines a Kafka message carrying a raw bank
// statement for asynchronous ingestion
type StatementIngestionRequest struct {
	IngestionID   uuid.UUID `json:"ingestion_id"`
	Statement     string    `json:"statement"` // Raw CSV content
	CorrelationID string    `json:"correlation_id"`
	ReceivedAt    time.Time `json:"received_at"`
}

// NewStatementIngestionRequest wraps raw statement text for publishing
func NewStatementIngestionRequest(statement, correlationID string) (*StatementIngestionRequest, error) {
	if statement == "" {
		return nil, ErrEmptyStatement
	}
	return &StatementIngestionRequest{
		IngestionID:   uuid.New(),
		Statement:     statement,
		CorrelationID: correlationID,
		ReceivedAt:    time.Now().UTC(),
	}, nil
}
