// Package mongo provides the MongoDB implementation of the reconciliation
// audit archive: a long-lived, append-only projection of reconciliation
// records kept outside the operational database.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/settlement-reconciliation/internal/domain/reconciliation"
)

const (
	// AuditCollectionName is the name of the audit archive collection in MongoDB
	AuditCollectionName = "reconciliation_audit"
)

// AuditRepository implements the reconciliation.ArchiveRepository interface for MongoDB
type AuditRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditRepository creates a new MongoDB audit archive repository
func NewAuditRepository(logger *slog.Logger, db *mongo.Database) reconciliation.ArchiveRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Archive stores a reconciliation record in the audit collection. Archiving
// is idempotent: a record already present is left untouched, so outbox
// retries never produce duplicate documents.
func (r *AuditRepository) Archive(ctx context.Context, record *reconciliation.Record) error {
	collection := r.db.Collection(AuditCollectionName)

	existing, err := r.GetByRecordID(ctx, record.ID)
	if err != nil && !errors.Is(err, reconciliation.ErrRecordNotFound{}) {
		r.logger.Error("Failed to check for existing audit document",
			"record_id", record.ID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing audit document: %w", err)
	}
	if existing != nil {
		return nil // Already archived
	}

	if _, err := collection.InsertOne(ctx, record); err != nil {
		r.logger.Error("Failed to archive reconciliation record",
			"record_id", record.ID.String(),
			"error", err)
		return fmt.Errorf("failed to archive reconciliation record: %w", err)
	}

	return nil
}

// GetByRecordID retrieves an archived record by its reconciliation record ID.
// Returns ErrRecordNotFound if the record has not been archived.
func (r *AuditRepository) GetByRecordID(ctx context.Context, recordID uuid.UUID) (*reconciliation.Record, error) {
	collection := r.db.Collection(AuditCollectionName)

	filter := bson.M{"record_id": recordID}
	var record reconciliation.Record
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reconciliation.ErrRecordNotFound{ID: recordID}
		}
		r.logger.Error("Failed to get archived record",
			"record_id", recordID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get archived record: %w", err)
	}

	return &record, nil
}

// CountArchived returns the number of documents in the audit archive
func (r *AuditRepository) CountArchived(ctx context.Context) (int64, error) {
	collection := r.db.Collection(AuditCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error("Failed to count archived records", "error", err)
		return 0, fmt.Errorf("failed to count archived records: %w", err)
	}

	return count, nil
}
