package aggregate

import (
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/shopspring/decimal"
)

// MonthBucket is one slot of a year series. Index is 0 for January.
type MonthBucket struct {
	Index   int
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// GroupByLocalMonth always returns all twelve months so chart series keep a stable
// length and order, even for months without activity.
func GroupByLocalMonth(txns []models.Transaction, loc *time.Location) [12]MonthBucket {
	var months [12]MonthBucket
	for i := range months {
		months[i] = MonthBucket{Index: i, Income: decimal.Zero, Expense: decimal.Zero}
	}

	for _, t := range txns {
		i := int(t.Date.In(loc).Month()) - 1
		switch t.Type {
		case models.Income:
			months[i].Income = months[i].Income.Add(t.Amount)
		case models.Expense:
			months[i].Expense = months[i].Expense.Add(t.Amount)
		}
	}
	return months
}
