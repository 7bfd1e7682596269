package ingestion

import (
	"fmt"
)

// ParseError indicates the raw statement text is structurally malformed
// (bad header, inconsistent column counts). It is never recovered here and
// propagates to the caller; no rows from the statement are persisted.
type ParseError struct {
	Line   int
	Reason string
	Err    error
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("statement parse error at line %d: %s", e.Line, e.Reason)
	}
	return "statement parse error: " + e.Reason
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// ValidationError indicates a parsed field failed to convert to its typed
// form (non-numeric amount, unparseable date). It aborts the whole ingestion
// call: partial silent data loss in financial data is unacceptable, so a
// single bad row fails the batch rather than being skipped.
type ValidationError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q at line %d", e.Field, e.Value, e.Line)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}
