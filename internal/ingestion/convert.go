package ingestion

import (
	"fmt"
	"strings"
	"time"

	"github.com/settlement-reconciliation/internal/domain/banktxn"
)

// Accepted statement date layouts, tried in order.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// convertRecord validates one parsed row and produces a transaction, still
// detached from storage. Any bad field yields a ValidationError carrying the
// 1-based data line number (header is line 1, first data row line 2).
func convertRecord(rec RawRecord, line int) (*banktxn.Transaction, error) {
	if rec.Date == "" {
		return nil, ValidationError{Line: line, Field: "Date", Value: rec.Date, Err: errEmptyField}
	}
	date, err := parseDate(rec.Date)
	if err != nil {
		return nil, ValidationError{Line: line, Field: "Date", Value: rec.Date, Err: err}
	}

	amount, err := parseAmount(rec.Amount)
	if err != nil {
		return nil, ValidationError{Line: line, Field: "Amount", Value: rec.Amount, Err: err}
	}

	if rec.Description == "" {
		return nil, ValidationError{Line: line, Field: "Description", Value: rec.Description, Err: errEmptyField}
	}

	return banktxn.New(amount, date, rec.Description, rec.Reference), nil
}

var errEmptyField = fmt.Errorf("field must not be empty")

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

// parseAmount converts a decimal string into minor units without ever going
// through binary floating point. At most two fractional digits are accepted;
// "-45.5" means -45.50.
func parseAmount(s string) (int64, error) {
	if s == "" {
		return 0, errEmptyField
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("not a number")
	}
	if hasFrac && len(frac) > 2 {
		return 0, fmt.Errorf("more than two decimal places")
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	var cents int64
	for _, digits := range []string{whole, frac} {
		for _, c := range digits {
			if c < '0' || c > '9' {
				return 0, fmt.Errorf("invalid character %q", c)
			}
			cents = cents*10 + int64(c-'0')
		}
	}
	if negative {
		cents = -cents
	}
	return cents, nil
}
