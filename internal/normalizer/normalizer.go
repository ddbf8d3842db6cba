// Package normalizer turns extracted table rows into typed transactions.
package normalizer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Statement column positions. Cells past colRemarks are ignored.
const (
	colTransDate = iota
	colValueDate
	colReference
	colDebit
	colCredit
	colBalance
	colBranch
	colRemarks

	// MinCells is the number of cells a row needs to be decoded.
	MinCells
)

// Field names used in repair entries.
const (
	FieldTransDate = "trans_date"
	FieldDebit     = "debit"
	FieldCredit    = "credit"
	FieldBalance   = "balance"
)

// Normalizer decodes rows for a single run and keeps the repair log for it.
// It is not safe for concurrent use; create one per document.
type Normalizer struct {
	repairs []models.Repair
}

// New returns an empty Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Decode maps row onto a Transaction by position. index identifies the row in
// repair entries. ok is false when the row has fewer than MinCells cells.
func (n *Normalizer) Decode(row models.RawRow, index int) (txn models.Transaction, ok bool) {
	if len(row) < MinCells {
		return models.Transaction{}, false
	}

	txn = models.Transaction{
		ValueDate: row[colValueDate],
		Reference: row[colReference],
		Branch:    row[colBranch],
		Remarks:   row[colRemarks],
	}

	var parsed bool
	txn.TransDate, parsed = ParseDate(row[colTransDate])
	if !parsed {
		n.note(index, FieldTransDate, row[colTransDate])
	}
	txn.Debit = n.amount(index, FieldDebit, row[colDebit])
	txn.Credit = n.amount(index, FieldCredit, row[colCredit])
	txn.Balance = n.amount(index, FieldBalance, row[colBalance])

	return txn, true
}

// Repairs returns the coercions recorded so far.
func (n *Normalizer) Repairs() []models.Repair {
	return n.repairs
}

func (n *Normalizer) amount(index int, field, raw string) decimal.Decimal {
	v, parsed := ParseAmount(raw)
	if !parsed {
		n.note(index, field, raw)
	}
	return v
}

// note logs a coercion. Blank cells are the normal shape of an empty column
// and are not recorded.
func (n *Normalizer) note(index int, field, raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	n.repairs = append(n.repairs, models.Repair{Row: index, Field: field, Raw: raw})
}
