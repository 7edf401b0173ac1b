// Package aggregate buckets raw transactions by local day, local month and category.
//
// Every function here is pure: the output depends only on the transaction slice and
// the location passed in, and input slices are never reordered or modified. Sums use
// exact decimal arithmetic so re-aggregating the same rows reproduces every cent.
package aggregate

import (
	"sort"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/period"
	"github.com/shopspring/decimal"
)

// Result is the full aggregate for one set of transactions in one timezone.
type Result struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Days         []DayBucket
	Months       [12]MonthBucket
	Categories   []CategoryTotal
	Location     *time.Location
}

// Aggregate computes totals and every grouping in a single call.
func Aggregate(txns []models.Transaction, loc *time.Location) Result {
	days := GroupByLocalDay(txns, loc)
	return Result{
		TotalIncome:  days.Income,
		TotalExpense: days.Expense,
		Days:         days.Days,
		Months:       GroupByLocalMonth(txns, loc),
		Categories:   GroupByCategory(txns),
		Location:     loc,
	}
}

// Totals sums income and expense separately.
func Totals(txns []models.Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range txns {
		switch t.Type {
		case models.Income:
			income = income.Add(t.Amount)
		case models.Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}

// Within keeps only the transactions whose instant lies in b.
func Within(txns []models.Transaction, b period.Boundary) []models.Transaction {
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if b.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// newestFirst orders by date, then insertion time, then id, all descending.
func newestFirst(txns []models.Transaction) []models.Transaction {
	sorted := make([]models.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return sorted
}
