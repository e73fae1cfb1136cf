package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/validation"
)

var (
	// ErrEmptyBatch is returned when a bulk request carries no elements.
	ErrEmptyBatch = errors.New("please provide an array of transactions")
	// ErrNoValidIDs is returned when mark-synced receives no usable id.
	ErrNoValidIDs = errors.New("please provide an array of transaction ids")
)

// Per-element failure reasons that do not come from field validation.
const (
	reasonInvalidPayload = "invalid transaction payload"
	reasonIDRequired     = "transaction id is required"
	reasonInvalidID      = "invalid transaction id"
)

// SyncService reconciles batches sent by offline-first clients.
type SyncService struct {
	reader      TransactionReader
	writer      TransactionWriter
	cache       CacheInvalidator
	kafkaWriter KafkaWriter
	now         func() time.Time
}

// NewSyncService creates a new SyncService.
func NewSyncService(reader TransactionReader, writer TransactionWriter, cache CacheInvalidator, kafkaWriter KafkaWriter) *SyncService {
	return &SyncService{
		reader:      reader,
		writer:      writer,
		cache:       cache,
		kafkaWriter: kafkaWriter,
		now:         time.Now,
	}
}

// BulkCreate validates every element independently, stamps the valid ones with
// the owner and inserts them as one unordered batch. Elements that fail to
// decode, validate or insert are reported by their position in batch.
func (s *SyncService) BulkCreate(ctx context.Context, userID uuid.UUID, batch []json.RawMessage) (models.BulkCreateReport, error) {
	if len(batch) == 0 {
		return models.BulkCreateReport{}, ErrEmptyBatch
	}

	now := s.now()
	var (
		valid    []models.IndexedTransaction
		failures []models.BulkFailure
	)
	for i, raw := range batch {
		var in models.TransactionInput
		if err := json.Unmarshal(raw, &in); err != nil {
			failures = append(failures, models.BulkFailure{Index: i, Error: reasonInvalidPayload})
			continue
		}

		tx, err := validation.Transaction(in, userID, now)
		if err != nil {
			failures = append(failures, models.BulkFailure{Index: i, Error: failureMessage(err)})
			continue
		}
		tx.TransactionID = uuid.New()
		tx.IsSynced = true
		valid = append(valid, models.IndexedTransaction{Index: i, Transaction: tx})
	}

	report := models.BulkCreateReport{Inserted: []models.TransactionDB{}}
	if len(valid) > 0 {
		res := s.writer.InsertMany(ctx, valid)
		if res.Outcome == models.BulkFailed {
			logger.Log.Errorw("bulk create failed", "userID", userID, "error", res.Err)
			return models.BulkCreateReport{}, fmt.Errorf("bulk create: %w", res.Err)
		}
		report.Inserted = append(report.Inserted, res.Inserted...)
		failures = append(failures, res.Failures...)
	}
	report.Failures = sortFailures(failures)

	if n := len(report.Inserted); n > 0 {
		invalidateAnalytics(ctx, s.cache, userID)
		publishEvent(ctx, s.kafkaWriter, models.EventSyncBulkCreated, userID, models.TransactionIDs(report.Inserted), int64(n))
	}

	logger.Log.Infow("bulk create finished",
		"userID", userID,
		"submitted", len(batch),
		"inserted", len(report.Inserted),
		"failed", len(report.Failures),
	)
	return report, nil
}

// BulkUpdate patches every element carrying an id that belongs to the owner and
// marks it synced. Ids of other owners are not matched and are not failures.
func (s *SyncService) BulkUpdate(ctx context.Context, userID uuid.UUID, batch []json.RawMessage) (models.BulkUpdateReport, error) {
	if len(batch) == 0 {
		return models.BulkUpdateReport{}, ErrEmptyBatch
	}

	var (
		valid    []models.IndexedPatch
		failures []models.BulkFailure
	)
	for i, raw := range batch {
		var in models.TransactionInput
		if err := json.Unmarshal(raw, &in); err != nil {
			failures = append(failures, models.BulkFailure{Index: i, Error: reasonInvalidPayload})
			continue
		}

		rawID, ok := in.RawID()
		if !ok {
			failures = append(failures, models.BulkFailure{Index: i, Error: reasonIDRequired})
			continue
		}
		id, ok := validation.ParseID(rawID)
		if !ok {
			failures = append(failures, models.BulkFailure{Index: i, Error: reasonInvalidID})
			continue
		}

		patch, err := validation.Patch(in)
		if err != nil {
			failures = append(failures, models.BulkFailure{Index: i, Error: failureMessage(err)})
			continue
		}
		patch.TransactionID = id
		valid = append(valid, models.IndexedPatch{Index: i, Patch: patch})
	}

	var report models.BulkUpdateReport
	if len(valid) > 0 {
		res := s.writer.BulkUpdate(ctx, userID, valid)
		if res.Outcome == models.BulkFailed {
			logger.Log.Errorw("bulk update failed", "userID", userID, "error", res.Err)
			return models.BulkUpdateReport{}, fmt.Errorf("bulk update: %w", res.Err)
		}
		report.MatchedCount = res.MatchedCount
		report.ModifiedCount = res.ModifiedCount
		failures = append(failures, res.Failures...)
	}
	report.Failures = sortFailures(failures)

	if report.ModifiedCount > 0 {
		invalidateAnalytics(ctx, s.cache, userID)
		publishEvent(ctx, s.kafkaWriter, models.EventSyncBulkUpdated, userID, nil, report.ModifiedCount)
	}

	logger.Log.Infow("bulk update finished",
		"userID", userID,
		"submitted", len(batch),
		"matched", report.MatchedCount,
		"modified", report.ModifiedCount,
		"failed", len(report.Failures),
	)
	return report, nil
}

// MarkSynced flags the owner's transactions among rawIDs as synced.
// Malformed ids are dropped; ErrNoValidIDs is returned when none remain.
func (s *SyncService) MarkSynced(ctx context.Context, userID uuid.UUID, rawIDs []string) (models.UpdateCounts, error) {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		if id, ok := validation.ParseID(raw); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return models.UpdateCounts{}, ErrNoValidIDs
	}

	counts, err := s.writer.MarkSynced(ctx, userID, ids)
	if err != nil {
		logger.Log.Errorw("failed to mark transactions synced", "userID", userID, "error", err)
		return models.UpdateCounts{}, err
	}

	if counts.ModifiedCount > 0 {
		invalidateAnalytics(ctx, s.cache, userID)
		publishEvent(ctx, s.kafkaWriter, models.EventSyncMarkedSynced, userID, models.UUIDStrings(ids), counts.ModifiedCount)
	}
	return counts, nil
}

// PullUnsynced returns the owner's unsynced transactions, newest first.
func (s *SyncService) PullUnsynced(ctx context.Context, userID uuid.UUID) ([]models.TransactionDB, error) {
	txs, err := s.reader.ListUnsynced(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list unsynced transactions", "userID", userID, "error", err)
		return nil, err
	}
	return txs, nil
}

// Status reports how many of the owner's transactions are synced.
func (s *SyncService) Status(ctx context.Context, userID uuid.UUID) (models.SyncStatus, error) {
	var (
		total, synced, unsynced int64
		yes, no                 = true, false
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.reader.Count(gctx, userID, nil)
		return err
	})
	g.Go(func() (err error) {
		synced, err = s.reader.Count(gctx, userID, &yes)
		return err
	})
	g.Go(func() (err error) {
		unsynced, err = s.reader.Count(gctx, userID, &no)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Log.Errorw("failed to count transactions", "userID", userID, "error", err)
		return models.SyncStatus{}, err
	}

	return models.SyncStatus{
		TotalTransactions:    total,
		SyncedTransactions:   synced,
		UnsyncedTransactions: unsynced,
		SyncPercentage:       syncPercentage(synced, total),
		LastSyncAt:           s.now().UTC(),
	}, nil
}

// syncPercentage is synced/total as a percentage rounded to two decimals, 100 for no records.
func syncPercentage(synced, total int64) float64 {
	if total == 0 {
		return 100
	}
	return decimal.NewFromInt(synced).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(2).
		InexactFloat64()
}

// failureMessage flattens a validation error into one reason string.
func failureMessage(err error) string {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return strings.Join(verr.Messages, ", ")
	}
	return err.Error()
}

func sortFailures(failures []models.BulkFailure) []models.BulkFailure {
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].Index < failures[j].Index })
	return failures
}
