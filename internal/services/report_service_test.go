package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFinder struct {
	FindByUserAndDateRangeFunc func(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error)
	calls                      int
}

func (m *mockFinder) FindByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error) {
	m.calls++
	if m.FindByUserAndDateRangeFunc != nil {
		return m.FindByUserAndDateRangeFunc(ctx, userID, start, end)
	}
	return nil, nil
}

func txn(id int64, categoryID *int64, name string, amount int64, date time.Time, typ models.TxnType) models.Transaction {
	return models.Transaction{
		ID:           id,
		UserID:       7,
		CategoryID:   categoryID,
		CategoryName: name,
		Amount:       decimal.NewFromInt(amount),
		Date:         date,
		Type:         typ,
	}
}

func TestReportService_MonthlyUsesLocalBoundaries(t *testing.T) {
	food := int64(3)
	work := int64(13)
	var gotStart, gotEnd time.Time

	finder := &mockFinder{
		FindByUserAndDateRangeFunc: func(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error) {
			assert.Equal(t, int64(7), userID)
			gotStart, gotEnd = start, end
			return []models.Transaction{
				txn(2, &work, "work", 20000, time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC), models.Income),
				txn(1, &food, "food", 50000, time.Date(2024, 2, 29, 17, 30, 0, 0, time.UTC), models.Expense),
				// Outside the month, must be ignored even if the store returns it
				txn(9, &food, "food", 99999, time.Date(2024, 2, 29, 16, 59, 0, 0, time.UTC), models.Expense),
			}, nil
		},
	}

	report, err := NewReportService(finder).Monthly(context.Background(), 7, 2024, 3, "Asia/Jakarta")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 2, 29, 17, 0, 0, 0, time.UTC), gotStart)
	assert.Equal(t, time.Date(2024, 3, 31, 17, 0, 0, 0, time.UTC), gotEnd)

	assert.True(t, report.Income.Equal(decimal.NewFromInt(20000)))
	assert.True(t, report.Expense.Equal(decimal.NewFromInt(50000)))
	require.Len(t, report.Days, 1)
	assert.Equal(t, "01", report.Days[0].Day)
	assert.Len(t, report.Days[0].Transactions, 2)
}

func TestReportService_InvalidInputsSkipStore(t *testing.T) {
	finder := &mockFinder{}
	svc := NewReportService(finder)
	ctx := context.Background()

	_, err := svc.Monthly(ctx, 7, 2024, 3, "Mars/Olympus")
	assert.ErrorIs(t, err, models.ErrInvalidTimezone)

	_, err = svc.Monthly(ctx, 7, 2024, 13, "UTC")
	assert.ErrorIs(t, err, models.ErrInvalidPeriod)

	_, err = svc.Yearly(ctx, 7, 2024, "")
	assert.ErrorIs(t, err, models.ErrInvalidTimezone)

	assert.Zero(t, finder.calls)
}

func TestReportService_StoreErrorPropagates(t *testing.T) {
	storeErr := &models.StoreError{Op: "find", Err: errors.New("down")}
	finder := &mockFinder{
		FindByUserAndDateRangeFunc: func(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error) {
			return nil, storeErr
		},
	}

	_, err := NewReportService(finder).TopExpenseCategories(context.Background(), 7, 2024, 3, "UTC")
	assert.ErrorIs(t, err, storeErr)
}

func TestReportService_Yearly(t *testing.T) {
	finder := &mockFinder{
		FindByUserAndDateRangeFunc: func(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error) {
			assert.Equal(t, time.Date(2023, 12, 31, 17, 0, 0, 0, time.UTC), start)
			return []models.Transaction{
				// 2024-01-31 23:30 in Jakarta is still January locally
				txn(1, nil, "", 1000, time.Date(2024, 1, 31, 16, 30, 0, 0, time.UTC), models.Expense),
				// 2024-01-31 17:30 UTC is February 1st in Jakarta
				txn(2, nil, "", 2000, time.Date(2024, 1, 31, 17, 30, 0, 0, time.UTC), models.Expense),
			}, nil
		},
	}

	series, err := NewReportService(finder).Yearly(context.Background(), 7, 2024, "Asia/Jakarta")
	require.NoError(t, err)

	require.Len(t, series.Series, 2)
	expense := series.Series[1]
	assert.Equal(t, "Expense", expense.Name)
	assert.Len(t, expense.Data, 12)
	assert.True(t, expense.Data[0].Equal(decimal.NewFromInt(1000)))
	assert.True(t, expense.Data[1].Equal(decimal.NewFromInt(2000)))
}
