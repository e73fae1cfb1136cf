package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
)

func TestAnalyticsRepository_TotalsByType(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnalyticsRepository(db)

	owner := uuid.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND date >= $2 GROUP BY type")).
		WithArgs(owner, from).
		WillReturnRows(sqlmock.NewRows([]string{"type", "total", "count"}).
			AddRow("income", "1000.00", 1).
			AddRow("expense", "16.50", 2))

	rows, err := repo.TotalsByType(context.Background(), owner, models.DateRange{From: &from})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[1].Total.Equal(decimal.RequireFromString("16.5")))
	assert.Equal(t, int64(2), rows[1].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepository_TotalsByCategory(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnalyticsRepository(db)

	owner := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND type = $2 GROUP BY category ORDER BY total DESC, category ASC")).
		WithArgs(owner, "expense").
		WillReturnRows(sqlmock.NewRows([]string{"category", "total", "count", "avg_amount"}).
			AddRow("Food", "16.50", 2, "8.25").
			AddRow("Rent", "16.50", 1, "16.50"))

	rows, err := repo.TotalsByCategory(context.Background(), owner, models.TransactionTypeExpense, models.DateRange{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Food", rows[0].Category)
	assert.True(t, rows[0].AvgAmount.Equal(decimal.RequireFromString("8.25")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepository_TotalsByMonth(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAnalyticsRepository(db)

	owner := uuid.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND date >= $2 AND date < $3 GROUP BY 1, 2")).
		WithArgs(owner, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"month", "type", "total", "count"}).
			AddRow(1, "income", "1000.00", 1).
			AddRow(3, "expense", "12.00", 1))

	rows, err := repo.TotalsByMonth(context.Background(), owner, models.DateRange{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[1].Month)
	assert.Equal(t, models.TransactionTypeExpense, rows[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
