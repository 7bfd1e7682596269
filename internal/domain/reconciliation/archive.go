package reconciliation

import (
	"context"

	"github.com/google/uuid"
)

// ArchiveRepository stores the long-lived audit projection of reconciliation
// records, fed asynchronously through the transactional outbox. The archive
// is append-only; Archive must be idempotent so outbox retries never produce
// duplicate documents.
type ArchiveRepository interface {
	Archive(ctx context.Context, record *Record) error
	GetByRecordID(ctx context.Context, recordID uuid.UUID) (*Record, error)
	CountArchived(ctx context.Context) (int64, error)
}
