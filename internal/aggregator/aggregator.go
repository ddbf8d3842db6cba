// Package aggregator sums classified transactions into a statement summary.
package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/classifier"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Annotate sets Polarity and Category on txn. A row with a positive debit
// is annotated as a debit even if it also carries a credit.
func Annotate(txn *models.Transaction) {
	switch {
	case txn.IsDebit():
		txn.Polarity = models.PolarityDebit
	case txn.IsCredit():
		txn.Polarity = models.PolarityCredit
	default:
		txn.Polarity = models.PolarityNone
		txn.Category = models.CategoryUncategorized
		return
	}
	txn.Category = classifier.Classify(txn.Remarks, txn.Polarity)
}

// Aggregator accumulates a Summary one transaction at a time.
type Aggregator struct {
	summary models.Summary
}

// New returns an Aggregator with zero totals and empty groupings.
func New() *Aggregator {
	return &Aggregator{summary: models.Summary{
		TotalDebit:       decimal.Zero,
		TotalCredit:      decimal.Zero,
		DebitByCategory:  map[models.Category]decimal.Decimal{},
		CreditByCategory: map[models.Category]decimal.Decimal{},
	}}
}

// Add folds txn into the totals. Totals are raw column sums; the category
// groupings only see rows whose amount in that column is positive, each
// classified under that column's rules.
func (a *Aggregator) Add(txn models.Transaction) {
	s := &a.summary
	s.TotalDebit = s.TotalDebit.Add(txn.Debit)
	s.TotalCredit = s.TotalCredit.Add(txn.Credit)

	if txn.IsDebit() {
		cat := classifier.Classify(txn.Remarks, models.PolarityDebit)
		s.DebitByCategory[cat] = s.DebitByCategory[cat].Add(txn.Debit)
	}
	if txn.IsCredit() {
		cat := classifier.Classify(txn.Remarks, models.PolarityCredit)
		s.CreditByCategory[cat] = s.CreditByCategory[cat].Add(txn.Credit)
	}
}

// Summary returns a copy of the current summary.
func (a *Aggregator) Summary() models.Summary {
	out := models.Summary{
		TotalDebit:       a.summary.TotalDebit,
		TotalCredit:      a.summary.TotalCredit,
		DebitByCategory:  make(map[models.Category]decimal.Decimal, len(a.summary.DebitByCategory)),
		CreditByCategory: make(map[models.Category]decimal.Decimal, len(a.summary.CreditByCategory)),
	}
	for k, v := range a.summary.DebitByCategory {
		out.DebitByCategory[k] = v
	}
	for k, v := range a.summary.CreditByCategory {
		out.CreditByCategory[k] = v
	}
	return out
}

// Summarize aggregates a complete slice of transactions.
func Summarize(txns []models.Transaction) models.Summary {
	a := New()
	for _, txn := range txns {
		a.Add(txn)
	}
	return a.Summary()
}
