package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/settlement-reconciliation/internal/domain/banktxn"
	"github.com/settlement-reconciliation/internal/domain/ledger"
	"github.com/settlement-reconciliation/internal/domain/reconciliation"
)

const (
	// Date proximity windows. Both bounds are strict.
	exactMatchWindow    = 24 * time.Hour
	fallbackMatchWindow = 48 * time.Hour

	// Maximum amount difference, in minor units, a reference match will
	// absorb. Covers fee deductions on wire transfers.
	referenceAmountTolerance int64 = 5000

	// Variance below this many minor units is rounding noise and is left
	// out of the match note.
	varianceNoteFloor int64 = 1

	// Payment term assumed when the entry description carries no Net-N token.
	defaultTermDays = 30
)

var termsPattern = regexp.MustCompile(`Net-(\d+)`)

// matchOutcome describes which ledger entry a transaction matched and how
// the pairing should be recorded.
type matchOutcome struct {
	entryIdx   int
	status     reconciliation.Status
	confidence int
	notes      string
}

// evaluate runs the rule cascade for one transaction against the remaining
// unconsumed ledger entries. The first rule with a qualifying entry wins,
// and within a rule the first entry in scan order wins. Returns nil when no
// rule matches.
func evaluate(txn *banktxn.Transaction, entries []*ledger.Entry) *matchOutcome {
	// Rule 1: exact amount, date within 24h, identical reference (both
	// absent counts as identical).
	for i, entry := range entries {
		if entry.Amount == txn.Amount &&
			withinWindow(entry.Date, txn.Date, exactMatchWindow) &&
			entry.Reference == txn.Reference {
			return &matchOutcome{
				entryIdx:   i,
				status:     reconciliation.StatusMatched,
				confidence: 100,
				notes:      "Exact Amount, Date, and Ref match",
			}
		}
	}

	// Rule 2: same non-absent reference, amount within the fee tolerance.
	// Lateness against the entry's payment terms drives confidence.
	if txn.Reference != "" {
		for i, entry := range entries {
			if entry.Reference != txn.Reference {
				continue
			}
			if abs64(entry.Amount-txn.Amount) > referenceAmountTolerance {
				continue
			}
			confidence, notes := referenceMatchDetail(txn, entry)
			return &matchOutcome{
				entryIdx:   i,
				status:     reconciliation.StatusPartial,
				confidence: confidence,
				notes:      notes,
			}
		}
	}

	// Rule 3: exact amount and date within 48h, reference disregarded.
	for i, entry := range entries {
		if entry.Amount == txn.Amount &&
			withinWindow(entry.Date, txn.Date, fallbackMatchWindow) {
			return &matchOutcome{
				entryIdx:   i,
				status:     reconciliation.StatusPartial,
				confidence: 80,
				notes:      "Amount and Date match, check details",
			}
		}
	}

	return nil
}

// referenceMatchDetail builds the confidence score and note for a Rule 2
// match: fee variance when the amounts differ, and lateness measured against
// the Net-N term scraped from the entry description.
func referenceMatchDetail(txn *banktxn.Transaction, entry *ledger.Entry) (int, string) {
	termDays := paymentTermDays(entry.Description)
	dueDate := entry.Date.AddDate(0, 0, termDays)
	daysLate := int(math.Ceil(txn.Date.Sub(dueDate).Hours() / 24))

	notes := "Ref Match."
	if variance := entry.Amount - txn.Amount; abs64(variance) > varianceNoteFloor {
		notes += fmt.Sprintf(" Variance: $%.2f (Fee).", float64(variance)/100)
	}
	if daysLate > 0 {
		notes += fmt.Sprintf(" LATE PAYMENT: %d days overdue (Terms: Net-%d).", daysLate, termDays)
		return 80, notes
	}
	notes += " Paid on time."
	return 95, notes
}

// paymentTermDays extracts the Net-N payment term from free text, defaulting
// to Net-30.
func paymentTermDays(description string) int {
	m := termsPattern.FindStringSubmatch(description)
	if m == nil {
		return defaultTermDays
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return defaultTermDays
	}
	return days
}

func withinWindow(a, b time.Time, window time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < window
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
