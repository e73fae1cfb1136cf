package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/validation"
)

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

type transactionMocks struct {
	reader *MockTransactionReader
	writer *MockTransactionWriter
	cache  *MockCacheInvalidator
	kafka  *MockKafkaWriter
}

func newTransactionService(t *testing.T) (*TransactionService, transactionMocks) {
	ctrl := gomock.NewController(t)
	m := transactionMocks{
		reader: NewMockTransactionReader(ctrl),
		writer: NewMockTransactionWriter(ctrl),
		cache:  NewMockCacheInvalidator(ctrl),
		kafka:  NewMockKafkaWriter(ctrl),
	}
	svc := NewTransactionService(m.reader, m.writer, m.cache, m.kafka)
	svc.now = func() time.Time { return fixedNow }
	return svc, m
}

func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("stamps owner and sync flag", func(t *testing.T) {
		svc, m := newTransactionService(t)

		m.writer.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, tx models.TransactionDB) (*models.TransactionDB, error) {
				assert.NotEqual(t, uuid.Nil, tx.TransactionID)
				assert.Equal(t, owner, tx.UserID)
				assert.True(t, tx.IsSynced)
				assert.Equal(t, fixedNow, tx.Date)
				assert.Equal(t, "Coffee", tx.Description)
				return &tx, nil
			})
		m.cache.EXPECT().Invalidate(ctx, owner).Return(nil)
		m.kafka.EXPECT().WriteMessages(ctx, gomock.Any()).Return(nil)

		created, err := svc.Create(ctx, owner, models.TransactionInput{
			Description: ptr(" Coffee "),
			Amount:      ptr(decimal.RequireFromString("4.50")),
			Category:    ptr("Food"),
			Type:        ptr(models.TransactionTypeExpense),
		})
		require.NoError(t, err)
		assert.Equal(t, owner, created.UserID)
	})

	t.Run("validation error never reaches the store", func(t *testing.T) {
		svc, _ := newTransactionService(t)

		_, err := svc.Create(ctx, owner, models.TransactionInput{})

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Messages, 4)
	})

	t.Run("store error", func(t *testing.T) {
		svc, m := newTransactionService(t)
		m.writer.EXPECT().Create(ctx, gomock.Any()).Return(nil, errors.New("db down"))

		_, err := svc.Create(ctx, owner, models.TransactionInput{
			Description: ptr("Coffee"),
			Amount:      ptr(decimal.RequireFromString("4.50")),
			Category:    ptr("Food"),
			Type:        ptr(models.TransactionTypeExpense),
		})
		assert.EqualError(t, err, "db down")
	})
}

func TestTransactionService_Get(t *testing.T) {
	ctx := context.Background()
	owner, id := uuid.New(), uuid.New()
	svc, m := newTransactionService(t)

	m.reader.EXPECT().GetByID(ctx, owner, id).Return(&models.TransactionDB{TransactionID: id}, nil)
	tx, err := svc.Get(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, id, tx.TransactionID)

	m.reader.EXPECT().GetByID(ctx, owner, id).Return(nil, sql.ErrNoRows)
	_, err = svc.Get(ctx, owner, id)
	assert.ErrorIs(t, err, ErrNotFound)

	m.reader.EXPECT().GetByID(ctx, owner, id).Return(nil, sql.ErrConnDone)
	_, err = svc.Get(ctx, owner, id)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestTransactionService_Update(t *testing.T) {
	ctx := context.Background()
	owner, id := uuid.New(), uuid.New()

	t.Run("applies only present fields", func(t *testing.T) {
		svc, m := newTransactionService(t)

		m.writer.EXPECT().Update(ctx, owner, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ uuid.UUID, p models.TransactionPatch) (*models.TransactionDB, error) {
				assert.Equal(t, id, p.TransactionID)
				assert.Equal(t, "Lunch", *p.Description)
				assert.Nil(t, p.Amount)
				assert.Nil(t, p.Type)
				return &models.TransactionDB{TransactionID: id, Description: "Lunch"}, nil
			})
		m.cache.EXPECT().Invalidate(ctx, owner).Return(errors.New("redis down"))
		m.kafka.EXPECT().WriteMessages(ctx, gomock.Any()).Return(nil)

		tx, err := svc.Update(ctx, owner, id, models.TransactionInput{Description: ptr("Lunch")})
		require.NoError(t, err)
		assert.Equal(t, "Lunch", tx.Description)
	})

	t.Run("invalid field", func(t *testing.T) {
		svc, _ := newTransactionService(t)

		_, err := svc.Update(ctx, owner, id, models.TransactionInput{Type: ptr("gift")})

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{validation.ErrTypeInvalid.Error()}, verr.Messages)
	})

	t.Run("foreign id", func(t *testing.T) {
		svc, m := newTransactionService(t)
		m.writer.EXPECT().Update(ctx, owner, gomock.Any()).Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, owner, id, models.TransactionInput{Description: ptr("Lunch")})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTransactionService_Delete(t *testing.T) {
	ctx := context.Background()
	owner, id := uuid.New(), uuid.New()
	svc, m := newTransactionService(t)

	m.writer.EXPECT().Delete(ctx, owner, id).Return(nil)
	m.cache.EXPECT().Invalidate(ctx, owner).Return(nil)
	m.kafka.EXPECT().WriteMessages(ctx, gomock.Any()).Return(errors.New("broker down"))
	assert.NoError(t, svc.Delete(ctx, owner, id))

	m.writer.EXPECT().Delete(ctx, owner, id).Return(sql.ErrNoRows)
	assert.ErrorIs(t, svc.Delete(ctx, owner, id), ErrNotFound)
}

func TestTransactionService_List(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	svc, m := newTransactionService(t)

	filter := models.TransactionFilter{Page: 1, Limit: 10, Type: models.TransactionTypeIncome}
	m.reader.EXPECT().List(ctx, owner, filter).Return([]models.TransactionDB{{}, {}}, int64(12), nil)

	txs, total, err := svc.List(ctx, owner, filter)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, int64(12), total)
}
