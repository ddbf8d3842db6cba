package writer

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/classifier"
	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// CategorySum is one entry of a category breakdown.
type CategorySum struct {
	Category models.Category
	Amount   decimal.Decimal
}

// SortedCategories orders a breakdown by amount, largest first, then by
// name so output is stable.
func SortedCategories(m map[models.Category]decimal.Decimal) []CategorySum {
	out := make([]CategorySum, 0, len(m))
	for c, v := range m {
		out = append(out, CategorySum{Category: c, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Amount.Cmp(out[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// OrderedCategories lays a breakdown out in the classifier's rule order for
// p, with zero for categories that received nothing. Any category outside
// that set follows, largest first.
func OrderedCategories(m map[models.Category]decimal.Decimal, p models.Polarity) []CategorySum {
	known := classifier.Categories(p)
	out := make([]CategorySum, 0, len(known)+len(m))
	seen := make(map[models.Category]bool, len(known))
	for _, c := range known {
		out = append(out, CategorySum{Category: c, Amount: m[c]})
		seen[c] = true
	}

	rest := make(map[models.Category]decimal.Decimal)
	for c, v := range m {
		if !seen[c] {
			rest[c] = v
		}
	}
	return append(out, SortedCategories(rest)...)
}
