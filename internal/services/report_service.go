package services

import (
	"context"
	"time"

	"github.com/ashmitsharp/moneylens-api/internal/aggregate"
	"github.com/ashmitsharp/moneylens-api/internal/models"
	"github.com/ashmitsharp/moneylens-api/internal/period"
	"github.com/ashmitsharp/moneylens-api/internal/reports"
)

// TransactionFinder loads a user's transactions in [start, end)
type TransactionFinder interface {
	FindByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]models.Transaction, error)
}

// ReportService resolves a period in the client's timezone, loads its
// transactions and aggregates them. Nothing is cached between calls.
type ReportService struct {
	store TransactionFinder
}

func NewReportService(store TransactionFinder) *ReportService {
	return &ReportService{store: store}
}

// MonthResult aggregates one local calendar month
func (s *ReportService) MonthResult(ctx context.Context, userID int64, year, month int, timezone string) (aggregate.Result, error) {
	b, err := period.ResolveMonth(year, month, timezone)
	if err != nil {
		return aggregate.Result{}, err
	}
	return s.aggregate(ctx, userID, b)
}

// YearResult aggregates one local calendar year
func (s *ReportService) YearResult(ctx context.Context, userID int64, year int, timezone string) (aggregate.Result, error) {
	b, err := period.ResolveYear(year, timezone)
	if err != nil {
		return aggregate.Result{}, err
	}
	return s.aggregate(ctx, userID, b)
}

func (s *ReportService) Monthly(ctx context.Context, userID int64, year, month int, timezone string) (reports.MonthlyDetailReport, error) {
	result, err := s.MonthResult(ctx, userID, year, month, timezone)
	if err != nil {
		return reports.MonthlyDetailReport{}, err
	}
	return reports.MonthlyDetail(result), nil
}

func (s *ReportService) Yearly(ctx context.Context, userID int64, year int, timezone string) (reports.YearlyChartSeries, error) {
	result, err := s.YearResult(ctx, userID, year, timezone)
	if err != nil {
		return reports.YearlyChartSeries{}, err
	}
	return reports.YearlyChart(result.Months), nil
}

func (s *ReportService) TopExpenseCategories(ctx context.Context, userID int64, year, month int, timezone string) (reports.TopExpenseCategoriesReport, error) {
	result, err := s.MonthResult(ctx, userID, year, month, timezone)
	if err != nil {
		return reports.TopExpenseCategoriesReport{}, err
	}
	return reports.TopExpenseCategories(result.Categories), nil
}

func (s *ReportService) aggregate(ctx context.Context, userID int64, b period.Boundary) (aggregate.Result, error) {
	txns, err := s.store.FindByUserAndDateRange(ctx, userID, b.Start, b.End)
	if err != nil {
		return aggregate.Result{}, err
	}
	return aggregate.Aggregate(aggregate.Within(txns, b), b.Location), nil
}
