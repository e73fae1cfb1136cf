package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/validation"
)

//go:generate mockgen -source=analytics.go -destination=analytics_mock.go -package=services

// AnalyticsReader runs the grouped aggregation queries.
type AnalyticsReader interface {
	TotalsByType(ctx context.Context, userID uuid.UUID, rng models.DateRange) ([]models.TypeTotal, error)
	TotalsByCategory(ctx context.Context, userID uuid.UUID, txType string, rng models.DateRange) ([]models.CategoryBreakdown, error)
	TotalsByMonth(ctx context.Context, userID uuid.UUID, rng models.DateRange) ([]models.MonthTypeTotal, error)
}

// AnalyticsCache stores computed reports per owner. Reports are filed under
// the owner's generation, which every write bumps.
type AnalyticsCache interface {
	Generation(ctx context.Context, userID uuid.UUID) (int64, error)
	Get(ctx context.Context, userID uuid.UUID, generation int64, key string, dst any) (bool, error)
	Set(ctx context.Context, userID uuid.UUID, generation int64, key string, value any) error
}

// AnalyticsService aggregates an owner's transactions.
type AnalyticsService struct {
	reader AnalyticsReader
	cache  AnalyticsCache
	now    func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService. cache may be nil.
func NewAnalyticsService(reader AnalyticsReader, cache AnalyticsCache) *AnalyticsService {
	return &AnalyticsService{
		reader: reader,
		cache:  cache,
		now:    time.Now,
	}
}

// Summary totals income and expenses in the window. Missing types count as zero.
func (s *AnalyticsService) Summary(ctx context.Context, userID uuid.UUID, rng models.DateRange) (models.Summary, error) {
	key := "summary:" + rangeKey(rng)

	var summary models.Summary
	gen := s.generation(ctx, userID)
	if s.cached(ctx, userID, gen, key, &summary) {
		return summary, nil
	}

	rows, err := s.reader.TotalsByType(ctx, userID, rng)
	if err != nil {
		logger.Log.Errorw("failed to aggregate summary", "userID", userID, "error", err)
		return models.Summary{}, err
	}

	summary = models.Summary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for _, row := range rows {
		switch row.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome = row.Total
			summary.IncomeCount = row.Count
		case models.TransactionTypeExpense:
			summary.TotalExpense = row.Total
			summary.ExpenseCount = row.Count
		}
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	summary.TotalTransactions = summary.IncomeCount + summary.ExpenseCount

	s.store(ctx, userID, gen, key, summary)
	return summary, nil
}

// CategoryBreakdown groups one transaction type by category, largest total first.
// An empty txType means expense; anything else than income or expense is rejected.
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context, userID uuid.UUID, txType string, rng models.DateRange) ([]models.CategoryBreakdown, error) {
	if txType == "" {
		txType = models.TransactionTypeExpense
	}
	if !validation.IsTransactionType(txType) {
		return nil, validation.ErrTypeInvalid
	}

	key := fmt.Sprintf("categories:%s:%s", txType, rangeKey(rng))

	breakdown := []models.CategoryBreakdown{}
	gen := s.generation(ctx, userID)
	if s.cached(ctx, userID, gen, key, &breakdown) {
		return breakdown, nil
	}

	rows, err := s.reader.TotalsByCategory(ctx, userID, txType, rng)
	if err != nil {
		logger.Log.Errorw("failed to aggregate categories", "userID", userID, "type", txType, "error", err)
		return nil, err
	}
	if rows != nil {
		breakdown = rows
	}

	s.store(ctx, userID, gen, key, breakdown)
	return breakdown, nil
}

// MonthlyTrends returns twelve entries for year, January first. Months
// without transactions are zero. year 0 means the current year.
func (s *AnalyticsService) MonthlyTrends(ctx context.Context, userID uuid.UUID, year int) ([]models.MonthlyTrend, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}

	key := fmt.Sprintf("trends:%d", year)

	var trends []models.MonthlyTrend
	gen := s.generation(ctx, userID)
	if s.cached(ctx, userID, gen, key, &trends) && len(trends) == 12 {
		return trends, nil
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	rows, err := s.reader.TotalsByMonth(ctx, userID, models.DateRange{From: &from, To: &to})
	if err != nil {
		logger.Log.Errorw("failed to aggregate trends", "userID", userID, "year", year, "error", err)
		return nil, err
	}

	var months [12]models.MonthlyTrend
	for i := range months {
		months[i] = models.MonthlyTrend{
			Month:       time.Month(i + 1).String(),
			MonthNumber: i + 1,
			Income:      decimal.Zero,
			Expense:     decimal.Zero,
		}
	}
	for _, row := range rows {
		if row.Month < 1 || row.Month > 12 {
			continue
		}
		m := &months[row.Month-1]
		switch row.Type {
		case models.TransactionTypeIncome:
			m.Income = row.Total
			m.IncomeCount = row.Count
		case models.TransactionTypeExpense:
			m.Expense = row.Total
			m.ExpenseCount = row.Count
		}
	}
	for i := range months {
		months[i].Balance = months[i].Income.Sub(months[i].Expense)
	}

	trends = months[:]
	s.store(ctx, userID, gen, key, trends)
	return trends, nil
}

// noGeneration disables the cache for one report.
const noGeneration = -1

// generation is read before the store is queried, so a report computed while
// a write lands is filed under the generation the write has already retired.
func (s *AnalyticsService) generation(ctx context.Context, userID uuid.UUID) int64 {
	if s.cache == nil {
		return noGeneration
	}
	gen, err := s.cache.Generation(ctx, userID)
	if err != nil {
		logger.Log.Warnw("analytics cache unavailable", "userID", userID, "error", err)
		return noGeneration
	}
	return gen
}

// cached loads key into dst. Cache errors are logged and treated as a miss.
func (s *AnalyticsService) cached(ctx context.Context, userID uuid.UUID, gen int64, key string, dst any) bool {
	if gen == noGeneration {
		return false
	}
	found, err := s.cache.Get(ctx, userID, gen, key, dst)
	if err != nil {
		logger.Log.Warnw("analytics cache unavailable", "key", key, "error", err)
		return false
	}
	return found
}

func (s *AnalyticsService) store(ctx context.Context, userID uuid.UUID, gen int64, key string, value any) {
	if gen == noGeneration {
		return
	}
	if err := s.cache.Set(ctx, userID, gen, key, value); err != nil {
		logger.Log.Warnw("failed to cache analytics", "key", key, "error", err)
	}
}

func rangeKey(rng models.DateRange) string {
	bound := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.UTC().Format(time.RFC3339Nano)
	}
	return bound(rng.From) + "~" + bound(rng.To)
}
