package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one table line as extracted from a page, cells in reading order.
type RawRow []string

// Polarity tells whether money left (debit) or entered (credit) the account.
type Polarity string

const (
	PolarityNone   Polarity = ""
	PolarityDebit  Polarity = "DEBIT"
	PolarityCredit Polarity = "CREDIT"
)

// Category is the label assigned by the keyword classifier.
type Category string

const (
	CategoryTransfer      Category = "Transfer"
	CategoryPOSPurchase   Category = "POS Purchase"
	CategoryWithdrawal    Category = "Withdrawal"
	CategoryCharges       Category = "Charges"
	CategorySalary        Category = "Salary"
	CategoryRefund        Category = "Refund"
	CategoryUncategorized Category = "Uncategorized"
)

// Transaction is a normalized statement row.
//
// TransDate is the zero time when the source text could not be parsed;
// use HasTransDate rather than comparing against a magic value.
type Transaction struct {
	TransDate time.Time       `json:"transDate"`
	ValueDate string          `json:"valueDate"`
	Reference string          `json:"reference"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Balance   decimal.Decimal `json:"balance"`
	Branch    string          `json:"branch"`
	Remarks   string          `json:"remarks"`

	Polarity Polarity `json:"polarity,omitempty"`
	Category Category `json:"category,omitempty"`
}

// HasTransDate reports whether the transaction date was parsed.
func (t Transaction) HasTransDate() bool {
	return !t.TransDate.IsZero()
}

// IsDebit reports whether the row moved money out.
func (t Transaction) IsDebit() bool {
	return t.Debit.IsPositive()
}

// IsCredit reports whether the row moved money in.
func (t Transaction) IsCredit() bool {
	return t.Credit.IsPositive()
}

// Repair records a field that was coerced to its default during normalization.
type Repair struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Raw   string `json:"raw"`
}
