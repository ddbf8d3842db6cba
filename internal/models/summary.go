package models

import "github.com/shopspring/decimal"

// Summary holds the statement totals and per-category sums.
type Summary struct {
	TotalDebit       decimal.Decimal              `json:"totalDebit"`
	TotalCredit      decimal.Decimal              `json:"totalCredit"`
	DebitByCategory  map[Category]decimal.Decimal `json:"debitByCategory"`
	CreditByCategory map[Category]decimal.Decimal `json:"creditByCategory"`
}

// Report is everything a single pipeline run produces.
type Report struct {
	RunID        string        `json:"runId"`
	Pages        int           `json:"pages"`
	Summary      Summary       `json:"summary"`
	Transactions []Transaction `json:"transactions"`
	Repairs      []Repair      `json:"repairs,omitempty"`
}
