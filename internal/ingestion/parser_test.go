package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatement(t *testing.T) {
	t.Run("ParsesRowsAndTrimsFields", func(t *testing.T) {
		raw := "Date,Amount,Description,Reference\n" +
			"2023-12-01, 12500.00 ,Wire transfer, NV-1001 \n" +
			"2023-12-02,-45.50,Bank fee,\n"

		records, err := ParseStatement(raw)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, RawRecord{Date: "2023-12-01", Amount: "12500.00", Description: "Wire transfer", Reference: "NV-1001"}, records[0])
		assert.Equal(t, RawRecord{Date: "2023-12-02", Amount: "-45.50", Description: "Bank fee", Reference: ""}, records[1])
	})

	t.Run("SkipsBlankAndAllEmptyRows", func(t *testing.T) {
		raw := "Date,Amount,Description,Reference\n" +
			"\n" +
			",,,\n" +
			"2023-12-01,100.00,Deposit,REF-1\n"

		records, err := ParseStatement(raw)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Deposit", records[0].Description)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		_, err := ParseStatement("")

		var parseErr ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 1, parseErr.Line)
		assert.Contains(t, parseErr.Reason, "missing header")
	})

	t.Run("WrongHeader", func(t *testing.T) {
		_, err := ParseStatement("date,amount,description,reference\n2023-12-01,100.00,Deposit,REF-1\n")

		var parseErr ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 1, parseErr.Line)
	})

	t.Run("InconsistentColumnCount", func(t *testing.T) {
		raw := "Date,Amount,Description,Reference\n" +
			"2023-12-01,100.00,Deposit,REF-1\n" +
			"2023-12-02,50.00,Short row\n"

		_, err := ParseStatement(raw)

		var parseErr ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 3, parseErr.Line)
		assert.Equal(t, "inconsistent column count", parseErr.Reason)
	})
}

func TestConvertRecord(t *testing.T) {
	t.Run("ValidRow", func(t *testing.T) {
		rec := RawRecord{Date: "2023-12-01", Amount: "12500.00", Description: "Wire transfer", Reference: "NV-1001"}

		txn, err := convertRecord(rec, 2)

		require.NoError(t, err)
		assert.Equal(t, int64(1250000), txn.Amount)
		assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), txn.Date)
		assert.Equal(t, "Wire transfer", txn.Description)
		assert.Equal(t, "NV-1001", txn.Reference)
		assert.False(t, txn.Reconciled)
	})

	t.Run("RFC3339Date", func(t *testing.T) {
		rec := RawRecord{Date: "2023-12-01T14:30:00Z", Amount: "1.00", Description: "Deposit"}

		txn, err := convertRecord(rec, 2)

		require.NoError(t, err)
		assert.Equal(t, 14, txn.Date.Hour())
	})

	t.Run("BadDate", func(t *testing.T) {
		rec := RawRecord{Date: "01/12/2023", Amount: "1.00", Description: "Deposit"}

		_, err := convertRecord(rec, 4)

		var valErr ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, 4, valErr.Line)
		assert.Equal(t, "Date", valErr.Field)
	})

	t.Run("BadAmount", func(t *testing.T) {
		rec := RawRecord{Date: "2023-12-01", Amount: "12,500.00", Description: "Deposit"}

		_, err := convertRecord(rec, 3)

		var valErr ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, 3, valErr.Line)
		assert.Equal(t, "Amount", valErr.Field)
		assert.Equal(t, "12,500.00", valErr.Value)
	})

	t.Run("EmptyDescription", func(t *testing.T) {
		rec := RawRecord{Date: "2023-12-01", Amount: "1.00", Description: ""}

		_, err := convertRecord(rec, 2)

		var valErr ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "Description", valErr.Field)
	})
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"12500.00", 1250000},
		{"12500", 1250000},
		{"-45.50", -4550},
		{"-45.5", -4550},
		{"+3", 300},
		{"0.01", 1},
		{".5", 50},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := parseAmount(tc.in)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "abc", "1.234", "1.2.3", "-", "12e3", "$5"} {
		_, err := parseAmount(bad)
		assert.Error(t, err, bad)
	}
}
