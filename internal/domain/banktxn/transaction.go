package banktxn

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a settlement event observed on an external bank statement.
// Amounts are stored in minor units (cents) so equality and tolerance checks
// are integer comparisons.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	Amount      int64     `json:"amount"` // Minor units, signed
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Reference   string    `json:"reference,omitempty"` // Empty means absent
	Reconciled  bool      `json:"reconciled"`
	CreatedAt   time.Time `json:"created_at"`
}

// New creates an unreconciled transaction from parsed statement fields.
func New(amount int64, date time.Time, description, reference string) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		Amount:      amount,
		Date:        date,
		Description: description,
		Reference:   reference,
		Reconciled:  false,
		CreatedAt:   time.Now(),
	}
}

// Signature identifies a transaction for ingestion deduplication: amount in
// minor units, the calendar day, reference (or a sentinel when absent), and
// the exact description. Rows differing in any component are distinct.
type Signature struct {
	Amount      int64
	Day         string // YYYY-MM-DD in UTC
	Reference   string
	Description string
}

const absentReferenceSentinel = "NULL"

// SignatureOf computes the dedup signature for a transaction.
func SignatureOf(t *Transaction) Signature {
	ref := t.Reference
	if ref == "" {
		ref = absentReferenceSentinel
	}
	return Signature{
		Amount:      t.Amount,
		Day:         t.Date.UTC().Format("2006-01-02"),
		Reference:   ref,
		Description: t.Description,
	}
}
