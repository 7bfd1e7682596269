package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/settlement-reconciliation/internal/domain/ledger"
)

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	entryRepo ledger.Repository
	logger    *slog.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(logger *slog.Logger, entryRepo ledger.Repository) LedgerService {
	return &LedgerServiceImpl{
		entryRepo: entryRepo,
		logger:    logger,
	}
}

// CreateEntry records a new obligation awaiting settlement
func (s *LedgerServiceImpl) CreateEntry(ctx context.Context, amount int64, date time.Time, description, reference string, entryType ledger.EntryType) (*ledger.Entry, error) {
	entry, err := ledger.NewEntry(amount, date, description, reference, entryType)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to create ledger entry", "reference", reference, "error", err)
		return nil, err
	}

	s.logger.Info("Ledger entry created",
		"entry_id", entry.ID,
		"amount", entry.Amount,
		"reference", entry.Reference,
	)
	return entry, nil
}

// GetUnreconciledEntries returns open obligations, capped at limit (0 = no cap)
func (s *LedgerServiceImpl) GetUnreconciledEntries(ctx context.Context, limit int) ([]*ledger.Entry, error) {
	entries, err := s.entryRepo.GetUnreconciled(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list unreconciled entries", "error", err)
		return nil, err
	}
	return entries, nil
}

type seedEntry struct {
	amount      int64
	date        string
	description string
	reference   string
}

// Demo invoice book used for local exploration. Amounts are in cents.
var demoEntries = []seedEntry{
	{1250000, "2023-11-01", "Inv #NV-2023-001 (Net-30) - Brilliant Cut Batch", "NV-1001"},
	{425000, "2023-11-05", "Inv #NV-2023-002 (Net-30) - Antwerp Logistics", "NV-1002"},
	{800000, "2023-11-10", "Inv #NV-2023-003 (Net-30) - HK Supplier", "NV-1003"},
	{1500000, "2023-11-12", "Inv #NV-2023-004 (Net-60) - NY Retailer Large Order", "NV-1004"},
	{210000, "2023-11-15", "Inv #NV-2023-005 (Net-30) - Sample Stone", "NV-1005"},
	{550000, "2023-10-15", "Inv #NV-2023-006 (Net-15) - Old Inventory", "NV-1006"},
}

// SeedDemoEntries loads the demo invoice book and returns how many entries
// it created
func (s *LedgerServiceImpl) SeedDemoEntries(ctx context.Context) (int, error) {
	created := 0
	for _, seed := range demoEntries {
		date, err := time.Parse("2006-01-02", seed.date)
		if err != nil {
			return created, err
		}

		entry, err := ledger.NewEntry(seed.amount, date, seed.description, seed.reference, ledger.EntryTypeCredit)
		if err != nil {
			return created, err
		}

		if err := s.entryRepo.Create(ctx, entry); err != nil {
			s.logger.Error("Failed to seed ledger entry", "reference", seed.reference, "error", err)
			return created, err
		}
		created++
	}

	s.logger.Info("Demo ledger entries seeded", "count", created)
	return created, nil
}
