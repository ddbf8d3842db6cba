package normalizer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"1,250.50", "1250.5", true},
		{"150,000.00", "150000", true},
		{"25.99", "25.99", true},
		{" 2,000.00 ", "2000", true},
		{"0", "0", true},
		{"1,234,567.89", "1234567.89", true},
		{"N/A", "0", false},
		{"", "0", false},
		{"   ", "0", false},
		{"12.3.4", "0", false},
		{"£25.99", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-04-15", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"15-Apr-2024", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"15 Apr 2024", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"15-Apr-24", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"15/01/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"03/04/2024", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
		{"Apr 15, 2024", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"2024/04/15", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{" 2024-04-15 ", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseDate_Unparseable(t *testing.T) {
	for _, input := range []string{"", "Trans Date", "32/13/2024", "yesterday"} {
		got, ok := ParseDate(input)
		assert.False(t, ok, input)
		assert.True(t, got.IsZero(), input)
	}
}

func TestDecode(t *testing.T) {
	n := New()
	row := models.RawRow{"15-Apr-2024", "15-Apr-2024", "REF001", "2,000.00", "", "48,000.00", "Ikeja", "ATM Withdrawal Lagos"}

	txn, ok := n.Decode(row, 0)
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), txn.TransDate)
	assert.Equal(t, "15-Apr-2024", txn.ValueDate)
	assert.Equal(t, "REF001", txn.Reference)
	assert.Equal(t, "2000.00", txn.Debit.StringFixed(2))
	assert.True(t, txn.Credit.IsZero())
	assert.Equal(t, "48000.00", txn.Balance.StringFixed(2))
	assert.Equal(t, "Ikeja", txn.Branch)
	assert.Equal(t, "ATM Withdrawal Lagos", txn.Remarks)
	assert.True(t, txn.IsDebit())
	assert.False(t, txn.IsCredit())
	assert.Empty(t, n.Repairs(), "blank credit cell is not a repair")
}

func TestDecode_ExtraCellsIgnored(t *testing.T) {
	n := New()
	row := models.RawRow{"2024-04-01", "", "R", "0", "10", "10", "HQ", "refund", "extra", "more"}

	txn, ok := n.Decode(row, 3)
	require.True(t, ok)
	assert.Equal(t, "refund", txn.Remarks)
	assert.Equal(t, "10.00", txn.Credit.StringFixed(2))
}

func TestDecode_ShortRow(t *testing.T) {
	n := New()
	_, ok := n.Decode(models.RawRow{"a", "b", "c", "d", "e"}, 0)
	assert.False(t, ok)
}

func TestDecode_CoercionsAreRecorded(t *testing.T) {
	n := New()
	row := models.RawRow{"not a date", "vd", "ref", "N/A", "abc", "", "br", "rm"}

	txn, ok := n.Decode(row, 7)
	require.True(t, ok)

	assert.False(t, txn.HasTransDate())
	assert.True(t, txn.Debit.IsZero())
	assert.True(t, txn.Credit.IsZero())
	assert.True(t, txn.Balance.IsZero())

	assert.Equal(t, []models.Repair{
		{Row: 7, Field: FieldTransDate, Raw: "not a date"},
		{Row: 7, Field: FieldDebit, Raw: "N/A"},
		{Row: 7, Field: FieldCredit, Raw: "abc"},
	}, n.Repairs())
}
