package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/settlement-reconciliation/internal/domain/outbox"
	"github.com/settlement-reconciliation/internal/domain/reconciliation"
	"github.com/settlement-reconciliation/internal/domain/shared"
)

// ArchivePublisher projects outbox messages into the audit archive
type ArchivePublisher interface {
	PublishToArchive(ctx context.Context, message *outbox.Message) error
}

// ArchivePublisherImpl implements ArchivePublisher
type ArchivePublisherImpl struct {
	outboxRepo  outbox.Repository
	archiveRepo reconciliation.ArchiveRepository
	logger      *slog.Logger
}

// NewArchivePublisher creates a new publisher
func NewArchivePublisher(
	outboxRepo outbox.Repository,
	archiveRepo reconciliation.ArchiveRepository,
	logger *slog.Logger,
) ArchivePublisher {
	return &ArchivePublisherImpl{
		outboxRepo:  outboxRepo,
		archiveRepo: archiveRepo,
		logger:      logger,
	}
}

// PublishToArchive copies a reconciliation record from the outbox into the
// audit archive and marks the message processed. Safe to call repeatedly for
// the same message: an already-archived record short-circuits to the status
// update.
func (p *ArchivePublisherImpl) PublishToArchive(ctx context.Context, message *outbox.Message) error {
	record, err := message.GetRecord()
	if err != nil {
		p.logger.Error("Failed to unmarshal reconciliation record from outbox payload",
			"outbox_id", message.ID, "record_id", message.RecordID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	p.logger.Info("Attempting to publish outbox message to audit archive", "outbox_id", message.ID, "record_id", record.ID)

	existing, err := p.archiveRepo.GetByRecordID(ctx, record.ID)
	if err != nil && !errors.Is(err, reconciliation.ErrRecordNotFound{}) {
		p.logger.Error("Failed to check existing archive document before publishing", "record_id", record.ID, "error", err)
		return fmt.Errorf("failed to check existing archive document %s: %w", record.ID, err)
	}

	if existing != nil {
		p.logger.Info("Record already archived", "record_id", record.ID)
	} else {
		if err := p.archiveRepo.Archive(ctx, record); err != nil {
			p.logger.Error("Failed to archive reconciliation record in MongoDB", "record_id", record.ID, "error", err)
			return fmt.Errorf("failed to archive record %s: %w", record.ID, err)
		}
		p.logger.Info("Successfully archived reconciliation record in MongoDB", "record_id", record.ID)
	}

	// Mark outbox message as processed
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		p.logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "record_id", record.ID, "error", err,
		)
		return fmt.Errorf("archive write for %s OK, but failed to mark outbox %d as PROCESSED: %w", record.ID, message.ID, err)
	}

	p.logger.Info("Outbox message successfully processed and marked as PROCESSED", "outbox_id", message.ID, "record_id", record.ID)
	return nil
}
