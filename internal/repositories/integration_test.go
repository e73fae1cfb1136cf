package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sbilibin2017/gw-expense-tracker/internal/migrations"
	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
)

func setupPostgresContainer(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432")
	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Up(dsn))
	return db
}

func seedTransaction(owner uuid.UUID, description, amount, category, txType string, date time.Time) models.TransactionDB {
	return models.TransactionDB{
		TransactionID: uuid.New(),
		UserID:        owner,
		Description:   description,
		Amount:        decimal.RequireFromString(amount),
		Category:      category,
		Type:          txType,
		Date:          date,
		IsSynced:      true,
	}
}

func TestRepositories_Postgres(t *testing.T) {
	db := setupPostgresContainer(t)
	ctx := context.Background()

	users := NewUserWriteRepository(db)
	alice, err := users.Save(ctx, "Alice", "alice@example.com", "hash")
	require.NoError(t, err)
	bob, err := users.Save(ctx, "Bob", "bob@example.com", "hash")
	require.NoError(t, err)

	_, err = users.Save(ctx, "Alice", "alice@example.com", "hash")
	assert.Error(t, err, "email must be unique")

	write := NewTransactionWriteRepository(db, 2)
	read := NewTransactionReadRepository(db)
	analytics := NewAnalyticsRepository(db)

	jan := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	coffee := seedTransaction(alice.UserID, "Coffee", "4.50", "Food", models.TransactionTypeExpense, jan)
	lunch := seedTransaction(alice.UserID, "Lunch", "12.00", "Food", models.TransactionTypeExpense, mar)
	salary := seedTransaction(alice.UserID, "Salary", "1000.00", "Work", models.TransactionTypeIncome, jan)
	offline := seedTransaction(alice.UserID, "Offline", "2.00", "Misc", models.TransactionTypeExpense, mar)
	offline.IsSynced = false
	bobs := seedTransaction(bob.UserID, "Bobs", "7.00", "Food", models.TransactionTypeExpense, jan)
	invalid := seedTransaction(alice.UserID, "Bad", "-1.00", "Food", models.TransactionTypeExpense, jan)

	t.Run("insert many keeps going after an element fails", func(t *testing.T) {
		res := write.InsertMany(ctx, []models.IndexedTransaction{
			{Index: 0, Transaction: coffee},
			{Index: 1, Transaction: invalid},
			{Index: 2, Transaction: lunch},
			{Index: 3, Transaction: salary},
			{Index: 4, Transaction: offline},
		})
		assert.Equal(t, models.BulkPartial, res.Outcome)
		assert.Len(t, res.Inserted, 4)
		require.Len(t, res.Failures, 1)
		assert.Equal(t, 1, res.Failures[0].Index)

		_, err := write.Create(ctx, bobs)
		require.NoError(t, err)
	})

	t.Run("list is owner scoped and newest first", func(t *testing.T) {
		txs, total, err := read.List(ctx, alice.UserID, models.TransactionFilter{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, txs, 4)
		assert.True(t, !txs[0].Date.Before(txs[3].Date))
		for _, tx := range txs {
			assert.Equal(t, alice.UserID, tx.UserID)
		}
	})

	t.Run("bulk update ignores other owners", func(t *testing.T) {
		desc := "Hijacked"
		res := write.BulkUpdate(ctx, alice.UserID, []models.IndexedPatch{
			{Index: 0, Patch: models.TransactionPatch{TransactionID: bobs.TransactionID, Description: &desc}},
		})
		assert.Equal(t, models.BulkOK, res.Outcome)
		assert.Equal(t, int64(0), res.MatchedCount)

		got, err := read.GetByID(ctx, bob.UserID, bobs.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, "Bobs", got.Description)
	})

	t.Run("mark synced counts matched and modified", func(t *testing.T) {
		counts, err := write.MarkSynced(ctx, alice.UserID, []uuid.UUID{offline.TransactionID, coffee.TransactionID, bobs.TransactionID})
		require.NoError(t, err)
		assert.Equal(t, models.UpdateCounts{MatchedCount: 2, ModifiedCount: 1}, counts)

		unsynced, err := read.ListUnsynced(ctx, alice.UserID)
		require.NoError(t, err)
		assert.Empty(t, unsynced)
	})

	t.Run("analytics", func(t *testing.T) {
		byType, err := analytics.TotalsByType(ctx, alice.UserID, models.DateRange{})
		require.NoError(t, err)
		assert.Len(t, byType, 2)

		byCategory, err := analytics.TotalsByCategory(ctx, alice.UserID, models.TransactionTypeExpense, models.DateRange{})
		require.NoError(t, err)
		require.Len(t, byCategory, 2)
		assert.Equal(t, "Food", byCategory[0].Category)
		assert.True(t, byCategory[0].Total.Equal(decimal.RequireFromString("16.50")))
		assert.True(t, byCategory[0].AvgAmount.Equal(decimal.RequireFromString("8.25")))

		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(1, 0, 0)
		byMonth, err := analytics.TotalsByMonth(ctx, alice.UserID, models.DateRange{From: &from, To: &to})
		require.NoError(t, err)
		months := map[int]bool{}
		for _, row := range byMonth {
			months[row.Month] = true
		}
		assert.Equal(t, map[int]bool{1: true, 3: true}, months)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, write.Delete(ctx, alice.UserID, lunch.TransactionID))
		assert.Error(t, write.Delete(ctx, alice.UserID, lunch.TransactionID))
	})
}
