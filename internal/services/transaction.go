package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/validation"
)

//go:generate mockgen -source=transaction.go -destination=transaction_mock.go -package=services

// ErrNotFound is returned when a transaction does not exist for the owner.
var ErrNotFound = errors.New("transaction not found")

// TransactionReader defines read operations for transactions.
type TransactionReader interface {
	GetByID(ctx context.Context, userID, transactionID uuid.UUID) (*models.TransactionDB, error)
	List(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.TransactionDB, int64, error)
	ListUnsynced(ctx context.Context, userID uuid.UUID) ([]models.TransactionDB, error)
	Count(ctx context.Context, userID uuid.UUID, synced *bool) (int64, error)
}

// TransactionWriter defines write operations for transactions.
type TransactionWriter interface {
	Create(ctx context.Context, tx models.TransactionDB) (*models.TransactionDB, error)
	InsertMany(ctx context.Context, items []models.IndexedTransaction) models.BulkInsertResult
	Update(ctx context.Context, userID uuid.UUID, patch models.TransactionPatch) (*models.TransactionDB, error)
	BulkUpdate(ctx context.Context, userID uuid.UUID, items []models.IndexedPatch) models.BulkUpdateResult
	MarkSynced(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (models.UpdateCounts, error)
	Delete(ctx context.Context, userID, transactionID uuid.UUID) error
}

// TransactionService handles single-record transaction operations.
type TransactionService struct {
	reader      TransactionReader
	writer      TransactionWriter
	cache       CacheInvalidator
	kafkaWriter KafkaWriter
	now         func() time.Time
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(reader TransactionReader, writer TransactionWriter, cache CacheInvalidator, kafkaWriter KafkaWriter) *TransactionService {
	return &TransactionService{
		reader:      reader,
		writer:      writer,
		cache:       cache,
		kafkaWriter: kafkaWriter,
		now:         time.Now,
	}
}

// List returns a page of the owner's transactions and the total number of matches.
func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.TransactionDB, int64, error) {
	txs, total, err := s.reader.List(ctx, userID, filter)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "userID", userID, "error", err)
		return nil, 0, err
	}
	return txs, total, nil
}

// Get returns the owner's transaction or ErrNotFound.
func (s *TransactionService) Get(ctx context.Context, userID, transactionID uuid.UUID) (*models.TransactionDB, error) {
	tx, err := s.reader.GetByID(ctx, userID, transactionID)
	if err != nil {
		return nil, notFound(err, "failed to get transaction", userID)
	}
	return tx, nil
}

// Create validates the payload, stamps it with the owner and stores it as synced.
func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, in models.TransactionInput) (*models.TransactionDB, error) {
	tx, err := validation.Transaction(in, userID, s.now())
	if err != nil {
		return nil, err
	}
	tx.TransactionID = uuid.New()
	tx.IsSynced = true

	created, err := s.writer.Create(ctx, tx)
	if err != nil {
		logger.Log.Errorw("failed to create transaction", "userID", userID, "error", err)
		return nil, err
	}

	invalidateAnalytics(ctx, s.cache, userID)
	publishEvent(ctx, s.kafkaWriter, models.EventTransactionCreated, userID, []string{created.TransactionID.String()}, 1)

	return created, nil
}

// Update applies the fields present in the payload to the owner's transaction.
func (s *TransactionService) Update(ctx context.Context, userID, transactionID uuid.UUID, in models.TransactionInput) (*models.TransactionDB, error) {
	patch, err := validation.Patch(in)
	if err != nil {
		return nil, err
	}
	patch.TransactionID = transactionID

	updated, err := s.writer.Update(ctx, userID, patch)
	if err != nil {
		return nil, notFound(err, "failed to update transaction", userID)
	}

	invalidateAnalytics(ctx, s.cache, userID)
	publishEvent(ctx, s.kafkaWriter, models.EventTransactionUpdated, userID, []string{transactionID.String()}, 1)

	return updated, nil
}

// Delete removes the owner's transaction.
func (s *TransactionService) Delete(ctx context.Context, userID, transactionID uuid.UUID) error {
	if err := s.writer.Delete(ctx, userID, transactionID); err != nil {
		return notFound(err, "failed to delete transaction", userID)
	}

	invalidateAnalytics(ctx, s.cache, userID)
	publishEvent(ctx, s.kafkaWriter, models.EventTransactionDeleted, userID, []string{transactionID.String()}, 1)

	return nil
}

// notFound maps a missing row to ErrNotFound and logs anything else.
func notFound(err error, msg string, userID uuid.UUID) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	logger.Log.Errorw(msg, "userID", userID, "error", err)
	return err
}
