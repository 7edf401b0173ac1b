// Package reports shapes aggregation output into the views served to clients.
// Nothing here performs I/O; each assembler is a pure function of its input.
package reports

import (
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/aggregate"
	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/period"
	"github.com/shopspring/decimal"
)

// TransactionLine is one transaction as displayed inside a day.
type TransactionLine struct {
	ID           int64           `json:"id"`
	CategoryID   *int64          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
	LocalDate    string          `json:"local_date"`
	Type         models.TxnType  `json:"type"`
}

type DayReport struct {
	Day          string            `json:"day"`
	Income       decimal.Decimal   `json:"income"`
	Expense      decimal.Decimal   `json:"expense"`
	Transactions []TransactionLine `json:"transactions"`
}

type MonthlyDetailReport struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Days    []DayReport     `json:"days"`
}

type Series struct {
	Name string            `json:"name"`
	Data []decimal.Decimal `json:"data"`
}

// YearlyChartSeries carries month indices (0-11) rather than month names;
// labels are localised by the client.
type YearlyChartSeries struct {
	Series     []Series `json:"series"`
	Categories []int    `json:"categories"`
}

type TopExpenseCategoriesReport struct {
	Series     []decimal.Decimal `json:"series"`
	Categories []string          `json:"categories"`
}

// CategoryLine is one row of a full category breakdown.
type CategoryLine struct {
	CategoryID *int64          `json:"category_id"`
	Name       string          `json:"name"`
	Type       models.TxnType  `json:"type"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
}

// MonthlyDetail lists day buckets newest first with their transactions.
func MonthlyDetail(result aggregate.Result) MonthlyDetailReport {
	loc := result.Location
	if loc == nil {
		loc = time.UTC
	}

	report := MonthlyDetailReport{
		Income:  result.TotalIncome,
		Expense: result.TotalExpense,
		Days:    make([]DayReport, 0, len(result.Days)),
	}
	for _, bucket := range result.Days {
		day := DayReport{
			Day:          bucket.Day,
			Income:       bucket.Income,
			Expense:      bucket.Expense,
			Transactions: make([]TransactionLine, 0, len(bucket.Transactions)),
		}
		for _, t := range bucket.Transactions {
			day.Transactions = append(day.Transactions, Line(t, loc))
		}
		report.Days = append(report.Days, day)
	}
	return report
}

// Line converts a stored transaction into its display form.
func Line(t models.Transaction, loc *time.Location) TransactionLine {
	name := t.CategoryName
	if t.CategoryID == nil {
		name = models.UncategorizedLabel
	}
	return TransactionLine{
		ID:           t.ID,
		CategoryID:   t.CategoryID,
		CategoryName: name,
		Amount:       t.Amount,
		Description:  t.Description,
		Date:         t.Date,
		LocalDate:    period.LocalDate(t.Date, loc),
		Type:         t.Type,
	}
}

// YearlyChart turns the twelve month buckets into parallel income/expense series.
func YearlyChart(months [12]aggregate.MonthBucket) YearlyChartSeries {
	income := make([]decimal.Decimal, 12)
	expense := make([]decimal.Decimal, 12)
	categories := make([]int, 12)
	for i, m := range months {
		income[i] = m.Income
		expense[i] = m.Expense
		categories[i] = m.Index
	}
	return YearlyChartSeries{
		Series: []Series{
			{Name: "Income", Data: income},
			{Name: "Expense", Data: expense},
		},
		Categories: categories,
	}
}

// TopExpenseCategories keeps expense totals only, largest first.
func TopExpenseCategories(totals []aggregate.CategoryTotal) TopExpenseCategoriesReport {
	expenses := aggregate.OfType(totals, models.Expense)
	aggregate.SortByTotalDesc(expenses)

	report := TopExpenseCategoriesReport{
		Series:     make([]decimal.Decimal, 0, len(expenses)),
		Categories: make([]string, 0, len(expenses)),
	}
	for _, ct := range expenses {
		report.Series = append(report.Series, ct.Total)
		report.Categories = append(report.Categories, ct.Name)
	}
	return report
}

// CategoryBreakdown lists every (category, type) total, largest first.
func CategoryBreakdown(totals []aggregate.CategoryTotal) []CategoryLine {
	lines := make([]CategoryLine, 0, len(totals))
	for _, ct := range totals {
		lines = append(lines, CategoryLine{
			CategoryID: ct.CategoryID,
			Name:       ct.Name,
			Type:       ct.Type,
			Total:      ct.Total,
			Count:      ct.Count,
		})
	}
	return lines
}
