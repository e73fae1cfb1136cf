package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
)

// newMockDB returns an sqlx handle backed by sqlmock that binds $N placeholders.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "pgx"), mock
}

var transactionColumnNames = []string{
	"transaction_id", "user_id", "description", "amount", "category", "type", "date", "is_synced", "created_at", "updated_at",
}

func transactionRows(txs ...models.TransactionDB) *sqlmock.Rows {
	rows := sqlmock.NewRows(transactionColumnNames)
	for _, tx := range txs {
		rows.AddRow(
			tx.TransactionID.String(), tx.UserID.String(), tx.Description, tx.Amount.String(),
			tx.Category, tx.Type, tx.Date, tx.IsSynced, tx.CreatedAt, tx.UpdatedAt,
		)
	}
	return rows
}

var fixedNow = time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
