package aggregate

import (
	"sort"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/period"
	"github.com/shopspring/decimal"
)

// DayBucket holds the transactions of one local calendar day.
type DayBucket struct {
	Date         string // YYYY-MM-DD in the grouping location
	Day          string // two-digit day of month
	Income       decimal.Decimal
	Expense      decimal.Decimal
	Transactions []models.Transaction
}

// DayGrouping is the per-day breakdown plus grand totals.
type DayGrouping struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Days    []DayBucket // newest day first
}

// GroupByLocalDay buckets transactions by the calendar day they fall on in loc.
// Transactions inside a bucket are newest first.
func GroupByLocalDay(txns []models.Transaction, loc *time.Location) DayGrouping {
	grouping := DayGrouping{Income: decimal.Zero, Expense: decimal.Zero, Days: []DayBucket{}}
	index := make(map[string]int)

	for _, t := range newestFirst(txns) {
		local := t.Date.In(loc)
		key := local.Format(period.LocalDateLayout)

		i, ok := index[key]
		if !ok {
			grouping.Days = append(grouping.Days, DayBucket{
				Date:    key,
				Day:     local.Format("02"),
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			})
			i = len(grouping.Days) - 1
			index[key] = i
		}

		bucket := &grouping.Days[i]
		bucket.Transactions = append(bucket.Transactions, t)
		switch t.Type {
		case models.Income:
			bucket.Income = bucket.Income.Add(t.Amount)
			grouping.Income = grouping.Income.Add(t.Amount)
		case models.Expense:
			bucket.Expense = bucket.Expense.Add(t.Amount)
			grouping.Expense = grouping.Expense.Add(t.Amount)
		}
	}

	// Keys are ISO dates, so string order is calendar order.
	sort.Slice(grouping.Days, func(i, j int) bool {
		return grouping.Days[i].Date > grouping.Days[j].Date
	})
	return grouping
}
