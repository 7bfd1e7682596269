package reconciliation

import (
	"time"

	"github.com/google/uuid"
)

// Status classifies the strength of a match
type Status string

const (
	StatusMatched Status = "MATCHED"
	StatusPartial Status = "PARTIAL"
)

// Record is the immutable audit entry linking one bank transaction to one
// ledger entry. It is created exactly once per pair and never updated or
// deleted; reversal is not supported.
type Record struct {
	ID                uuid.UUID `json:"id" bson:"record_id"`
	BankTransactionID uuid.UUID `json:"bank_transaction_id" bson:"bank_transaction_id"`
	LedgerEntryID     uuid.UUID `json:"ledger_entry_id" bson:"ledger_entry_id"`
	Status            Status    `json:"status" bson:"status"`
	ConfidenceScore   int       `json:"confidence_score" bson:"confidence_score"` // 0-100
	Notes             string    `json:"notes" bson:"notes"`
	MatchedAt         time.Time `json:"matched_at" bson:"matched_at"`
}

// NewRecord creates an audit record for a freshly established match
func NewRecord(bankTransactionID, ledgerEntryID uuid.UUID, status Status, confidence int, notes string) *Record {
	return &Record{
		ID:                uuid.New(),
		BankTransactionID: bankTransactionID,
		LedgerEntryID:     ledgerEntryID,
		Status:            status,
		ConfidenceScore:   confidence,
		Notes:             notes,
		MatchedAt:         time.Now().UTC(),
	}
}
