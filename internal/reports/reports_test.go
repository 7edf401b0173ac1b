package reports

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/aggregate"
	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func sample(t *testing.T) []models.Transaction {
	t.Helper()
	at := func(s string) time.Time {
		d, err := time.Parse(time.RFC3339, s)
		require.NoError(t, err)
		return d
	}
	return []models.Transaction{
		{ID: 1, CategoryID: ptr(1), CategoryName: "food", Amount: decimal.NewFromInt(50000), Type: models.Expense, Date: at("2024-03-01T10:00:00Z"), Description: "Lunch"},
		{ID: 2, CategoryID: ptr(5), CategoryName: "work", Amount: decimal.NewFromInt(20000), Type: models.Income, Date: at("2024-03-02T10:00:00Z")},
		{ID: 3, CategoryID: ptr(2), CategoryName: "transportation", Amount: decimal.NewFromInt(15000), Type: models.Expense, Date: at("2024-03-02T11:00:00Z")},
		{ID: 4, CategoryID: nil, Amount: decimal.NewFromInt(15000), Type: models.Expense, Date: at("2024-03-02T12:00:00Z")},
		{ID: 5, CategoryID: ptr(1), CategoryName: "food", Amount: decimal.NewFromInt(2500), Type: models.Expense, Date: at("2024-03-03T07:00:00Z")},
	}
}

func TestMonthlyDetail(t *testing.T) {
	report := MonthlyDetail(aggregate.Aggregate(sample(t), time.UTC))

	assert.Equal(t, "20000", report.Income.String())
	assert.Equal(t, "82500", report.Expense.String())
	require.Len(t, report.Days, 3)
	assert.Equal(t, []string{"03", "02", "01"}, []string{report.Days[0].Day, report.Days[1].Day, report.Days[2].Day})

	day2 := report.Days[1]
	assert.Equal(t, "20000", day2.Income.String())
	assert.Equal(t, "30000", day2.Expense.String())
	require.Len(t, day2.Transactions, 3)
	assert.Equal(t, int64(4), day2.Transactions[0].ID)
	assert.Equal(t, models.UncategorizedLabel, day2.Transactions[0].CategoryName)
	assert.Equal(t, "transportation", day2.Transactions[1].CategoryName)
	assert.Equal(t, "2024-03-02", day2.Transactions[1].LocalDate)
}

func TestMonthlyDetail_JSONShape(t *testing.T) {
	jakarta, err := period.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	report := MonthlyDetail(aggregate.Aggregate(sample(t)[:1], jakarta))
	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(0), decoded["income"])
	assert.Equal(t, float64(50000), decoded["expense"])

	days := decoded["days"].([]any)
	require.Len(t, days, 1)
	line := days[0].(map[string]any)["transactions"].([]any)[0].(map[string]any)
	assert.Equal(t, "expense", line["type"])
	assert.Equal(t, "food", line["category_name"])
	assert.Equal(t, "2024-03-01", line["local_date"])
}

func TestYearlyChart(t *testing.T) {
	series := YearlyChart(aggregate.GroupByLocalMonth(sample(t), time.UTC))

	require.Len(t, series.Series, 2)
	assert.Equal(t, "Income", series.Series[0].Name)
	assert.Equal(t, "Expense", series.Series[1].Name)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, series.Categories)
	require.Len(t, series.Series[0].Data, 12)
	require.Len(t, series.Series[1].Data, 12)
	assert.Equal(t, "20000", series.Series[0].Data[2].String())
	assert.Equal(t, "82500", series.Series[1].Data[2].String())
	assert.True(t, series.Series[1].Data[0].IsZero())
}

func TestYearlyChart_EmptyYear(t *testing.T) {
	series := YearlyChart(aggregate.GroupByLocalMonth(nil, time.UTC))

	raw, err := json.Marshal(series)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"series": [
			{"name": "Income", "data": [0,0,0,0,0,0,0,0,0,0,0,0]},
			{"name": "Expense", "data": [0,0,0,0,0,0,0,0,0,0,0,0]}
		],
		"categories": [0,1,2,3,4,5,6,7,8,9,10,11]
	}`, string(raw))
}

func TestTopExpenseCategories(t *testing.T) {
	report := TopExpenseCategories(aggregate.GroupByCategory(sample(t)))

	assert.Equal(t, []string{"food", "transportation", models.UncategorizedLabel}, report.Categories)
	require.Len(t, report.Series, 3)
	assert.Equal(t, "52500", report.Series[0].String())
	assert.Equal(t, "15000", report.Series[1].String())
	assert.Equal(t, "15000", report.Series[2].String())
}

func TestTopExpenseCategories_Empty(t *testing.T) {
	report := TopExpenseCategories(nil)

	raw, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"series": [], "categories": []}`, string(raw))
}

func TestCategoryBreakdown_IncludesBothTypes(t *testing.T) {
	lines := CategoryBreakdown(aggregate.GroupByCategory(sample(t)))

	require.Len(t, lines, 4)
	assert.Equal(t, "food", lines[0].Name)
	assert.Equal(t, 2, lines[0].Count)
	assert.Equal(t, models.Income, lines[1].Type)
}
