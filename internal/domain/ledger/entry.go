package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidAmount    = errors.New("entry amount must be positive")
	ErrEmptyDescription = errors.New("entry description cannot be empty")
	ErrInvalidEntryType = errors.New("entry type must be CREDIT or DEBIT")
)

// EntryType distinguishes receivables from payables
type EntryType string

const (
	EntryTypeCredit EntryType = "CREDIT"
	EntryTypeDebit  EntryType = "DEBIT"
)

// Entry is an internally issued obligation (invoice or credit facility draw)
// expected to be settled by a future bank transaction. Amount is the
// obligation's face value in minor units and is never mutated after creation.
// Payment terms are not a first-class field; the matching engine derives them
// from the description's "Net-N" token.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Amount      int64     `json:"amount"` // Minor units, face value
	Date        time.Time `json:"date"`   // Issuance date
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"` // Empty means absent
	Type        EntryType `json:"type"`
	Reconciled  bool      `json:"reconciled"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEntry creates a new unreconciled ledger entry with the given parameters
func NewEntry(amount int64, date time.Time, description, reference string, entryType EntryType) (*Entry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if entryType != EntryTypeCredit && entryType != EntryTypeDebit {
		return nil, ErrInvalidEntryType
	}

	return &Entry{
		ID:          uuid.New(),
		Amount:      amount,
		Date:        date,
		Description: description,
		Reference:   reference,
		Type:        entryType,
		Reconciled:  false,
		CreatedAt:   time.Now(),
	}, nil
}
