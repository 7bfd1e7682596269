package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/settlement-reconciliation/internal/domain/shared"
	"github.com/settlement-reconciliation/internal/ingestion"
	"github.com/settlement-reconciliation/internal/platform/messaging/producers"
	"github.com/settlement-reconciliation/internal/statement_processor/service"
)

// StatementEventHandler handles incoming statement ingestion messages from Kafka
type StatementEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewStatementEventHandler creates a new handler
func NewStatementEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *StatementEventHandler {
	return &StatementEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages
func (h *StatementEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.StatementIngestionRequest
	if err := json.Unmarshal(value, &request); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal statement ingestion request from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)
		return h.deadLetter(ctx, key, value, fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error()), err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received statement for ingestion",
		"ingestion_id", request.IngestionID.String(),
		"bytes", len(request.Statement),
	)

	if err := h.processingService.ProcessStatement(ctx, &request); err != nil {
		// Malformed or invalid statements fail identically on every retry;
		// park them on the dead letter queue and commit. Storage errors are
		// transient and go back to Kafka for redelivery.
		var parseErr ingestion.ParseError
		var validationErr ingestion.ValidationError
		if errors.As(err, &parseErr) || errors.As(err, &validationErr) {
			logger.Error("Statement rejected, routing to DLQ",
				"ingestion_id", request.IngestionID.String(),
				"error", err,
			)
			return h.deadLetter(ctx, key, value, err.Error(), err)
		}

		logger.Error("Failed to ingest statement",
			"ingestion_id", request.IngestionID.String(),
			"error", err,
		)
		return fmt.Errorf("ingesting statement %s failed: %w", request.IngestionID.String(), err)
	}

	logger.Info("Successfully ingested statement", "ingestion_id", request.IngestionID.String())
	return nil // Success, commit offset
}

// deadLetter parks an unprocessable message on the DLQ. A successful park
// returns nil so the offset commits; a DLQ failure surfaces the original
// error for redelivery.
func (h *StatementEventHandler) deadLetter(ctx context.Context, key, value []byte, reason string, cause error) error {
	if h.producer == nil {
		return fmt.Errorf("message unprocessable and no DLQ configured: %w", cause)
	}

	if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"original_error", cause,
			"message_key", string(key),
		)
		return fmt.Errorf("message unprocessable, DLQ publish failed: %w", cause)
	}

	h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", reason)
	return nil
}
