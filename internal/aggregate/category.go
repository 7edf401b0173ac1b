package aggregate

import (
	"sort"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/shopspring/decimal"
)

// CategoryTotal is the sum of one category for one transaction type.
// CategoryID is nil for the Uncategorized bucket.
type CategoryTotal struct {
	CategoryID *int64
	Name       string
	Type       models.TxnType
	Total      decimal.Decimal
	Count      int
}

type categoryKey struct {
	id          int64
	categorized bool
	typ         models.TxnType
}

// GroupByCategory sums amounts per (category, type). Rows without a category are
// kept under models.UncategorizedLabel so the breakdown always adds up to
// income + expense. The result is ordered by total descending, see SortByTotalDesc.
func GroupByCategory(txns []models.Transaction) []CategoryTotal {
	index := make(map[categoryKey]int)
	totals := []CategoryTotal{}

	for _, t := range txns {
		if !t.Type.Valid() {
			continue
		}
		key := categoryKey{typ: t.Type}
		if t.CategoryID != nil {
			key.id = *t.CategoryID
			key.categorized = true
		}

		i, ok := index[key]
		if !ok {
			ct := CategoryTotal{Name: models.UncategorizedLabel, Type: t.Type, Total: decimal.Zero}
			if key.categorized {
				id := key.id
				ct.CategoryID = &id
				ct.Name = t.CategoryName
			}
			totals = append(totals, ct)
			i = len(totals) - 1
			index[key] = i
		}

		totals[i].Total = totals[i].Total.Add(t.Amount)
		totals[i].Count++
	}

	SortByTotalDesc(totals)
	return totals
}

// SortByTotalDesc orders by total descending. Ties go to the lower category id,
// Uncategorized sorts after any real category, and income precedes expense.
func SortByTotalDesc(totals []CategoryTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		a, b := totals[i], totals[j]
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c > 0
		}
		switch {
		case a.CategoryID != nil && b.CategoryID == nil:
			return true
		case a.CategoryID == nil && b.CategoryID != nil:
			return false
		case a.CategoryID != nil && *a.CategoryID != *b.CategoryID:
			return *a.CategoryID < *b.CategoryID
		}
		return a.Type < b.Type
	})
}

// OfType returns the totals for a single transaction type, order preserved.
func OfType(totals []CategoryTotal, typ models.TxnType) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		if ct.Type == typ {
			out = append(out, ct)
		}
	}
	return out
}
