// Package ingestion turns raw bank statement text into persisted bank
// transactions: a CSV parser producing untyped candidate rows, and a
// deduplicating batch writer that makes re-ingestion idempotent.
package ingestion

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// RawRecord is one statement row with every field still as text. No
// validation happens at parse time; typed conversion is the deduplicator's
// concern.
type RawRecord struct {
	Date        string
	Amount      string
	Description string
	Reference   string
}

// statementHeader is the exact, case-sensitive header row required on every
// statement.
var statementHeader = []string{"Date", "Amount", "Description", "Reference"}

// ParseStatement parses raw CSV statement text into candidate records.
// Blank lines are skipped and every field is trimmed of surrounding
// whitespace. Structural problems (missing header, inconsistent column
// counts) fail with a ParseError; the parser performs no recovery.
func ParseStatement(raw string) ([]RawRecord, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = len(statementHeader)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ParseError{Line: 1, Reason: "missing header row", Err: err}
		}
		return nil, ParseError{Line: 1, Reason: "unreadable header row", Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	for i, want := range statementHeader {
		if header[i] != want {
			return nil, ParseError{Line: 1, Reason: "header must be Date,Amount,Description,Reference"}
		}
	}

	var records []RawRecord
	line := 1
	for {
		fields, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ParseError{Line: line, Reason: "inconsistent column count", Err: err}
		}

		rec := RawRecord{
			Date:        strings.TrimSpace(fields[0]),
			Amount:      strings.TrimSpace(fields[1]),
			Description: strings.TrimSpace(fields[2]),
			Reference:   strings.TrimSpace(fields[3]),
		}
		// encoding/csv drops fully blank lines, but a line of commas
		// survives it; treat an all-empty row as blank too.
		if rec.Date == "" && rec.Amount == "" && rec.Description == "" && rec.Reference == "" {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
