// Package classifier assigns a category to a statement row from its remarks.
//
// Rules are evaluated top to bottom and the first match wins, so the order
// of each rule list is part of its meaning.
package classifier

import (
	"strings"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Rule maps remarks containing any of Keywords to Category.
type Rule struct {
	Keywords []string
	Category models.Category
}

// Matches reports whether the lower-cased remarks contain one of the keywords.
func (r Rule) Matches(lowered string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

var debitRules = []Rule{
	{Keywords: []string{"transfer", "nip"}, Category: models.CategoryTransfer},
	{Keywords: []string{"pos", "purchase"}, Category: models.CategoryPOSPurchase},
	{Keywords: []string{"atm", "withdraw"}, Category: models.CategoryWithdrawal},
	{Keywords: []string{"levy", "charge"}, Category: models.CategoryCharges},
}

var creditRules = []Rule{
	{Keywords: []string{"salary"}, Category: models.CategorySalary},
	{Keywords: []string{"transfer", "nip"}, Category: models.CategoryTransfer},
	{Keywords: []string{"refund"}, Category: models.CategoryRefund},
}

// ruleSet returns the ordered rules for the polarity, or nil when the
// polarity has none.
func ruleSet(p models.Polarity) []Rule {
	switch p {
	case models.PolarityDebit:
		return debitRules
	case models.PolarityCredit:
		return creditRules
	}
	return nil
}

// Classify returns the category for remarks under the given polarity.
// Empty remarks and unknown polarities are Uncategorized.
func Classify(remarks string, p models.Polarity) models.Category {
	if remarks == "" {
		return models.CategoryUncategorized
	}

	lowered := strings.ToLower(remarks)
	for _, r := range ruleSet(p) {
		if r.Matches(lowered) {
			return r.Category
		}
	}
	return models.CategoryUncategorized
}

// Categories lists every label Classify can return for the polarity.
func Categories(p models.Polarity) []models.Category {
	rules := ruleSet(p)
	out := make([]models.Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.Category)
	}
	return append(out, models.CategoryUncategorized)
}
