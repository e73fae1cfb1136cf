package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
)

// AnalyticsRepository runs grouped aggregation queries over transactions
type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// TotalsByType sums amounts and counts rows per transaction type.
func (r *AnalyticsRepository) TotalsByType(ctx context.Context, userID uuid.UUID, rng models.DateRange) ([]models.TypeTotal, error) {
	conds, args := rangeConds([]string{"user_id = $1"}, []any{userID}, rng)
	query := `
		SELECT type, SUM(amount) AS total, COUNT(*) AS count
		FROM transactions
		WHERE ` + strings.Join(conds, " AND ") + `
		GROUP BY type
	`

	rows := []models.TypeTotal{}
	err := r.db.SelectContext(ctx, &rows, query, args...)

	logQuery(query, args, rows, err)

	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TotalsByCategory groups one transaction type by category, largest total first.
// Equal totals are ordered by category name.
func (r *AnalyticsRepository) TotalsByCategory(ctx context.Context, userID uuid.UUID, txType string, rng models.DateRange) ([]models.CategoryBreakdown, error) {
	conds, args := rangeConds([]string{"user_id = $1", "type = $2"}, []any{userID, txType}, rng)
	query := `
		SELECT category,
		       SUM(amount) AS total,
		       COUNT(*) AS count,
		       ROUND(AVG(amount), 2) AS avg_amount
		FROM transactions
		WHERE ` + strings.Join(conds, " AND ") + `
		GROUP BY category
		ORDER BY total DESC, category ASC
	`

	rows := []models.CategoryBreakdown{}
	err := r.db.SelectContext(ctx, &rows, query, args...)

	logQuery(query, args, len(rows), err)

	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TotalsByMonth groups by calendar month (UTC) and type. Months without rows are absent.
func (r *AnalyticsRepository) TotalsByMonth(ctx context.Context, userID uuid.UUID, rng models.DateRange) ([]models.MonthTypeTotal, error) {
	conds, args := rangeConds([]string{"user_id = $1"}, []any{userID}, rng)
	query := `
		SELECT EXTRACT(MONTH FROM date AT TIME ZONE 'UTC')::INT AS month,
		       type,
		       SUM(amount) AS total,
		       COUNT(*) AS count
		FROM transactions
		WHERE ` + strings.Join(conds, " AND ") + `
		GROUP BY 1, 2
		ORDER BY 1
	`

	rows := []models.MonthTypeTotal{}
	err := r.db.SelectContext(ctx, &rows, query, args...)

	logQuery(query, args, len(rows), err)

	if err != nil {
		return nil, err
	}
	return rows, nil
}
