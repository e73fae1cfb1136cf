package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/services"
)

//go:generate mockgen -source=sync.go -destination=sync_mock.go -package=handlers

const (
	msgProvideTransactions = "Please provide an array of transactions"
	msgProvideIDs          = "Please provide an array of transaction IDs"
	msgNoValidIDs          = "No valid transaction IDs provided"
)

// BulkCreator inserts a batch of client transactions.
type BulkCreator interface {
	BulkCreate(ctx context.Context, userID uuid.UUID, batch []json.RawMessage) (models.BulkCreateReport, error)
}

// BulkUpdater applies a batch of partial updates.
type BulkUpdater interface {
	BulkUpdate(ctx context.Context, userID uuid.UUID, batch []json.RawMessage) (models.BulkUpdateReport, error)
}

// UnsyncedPuller returns transactions not yet reconciled with the client.
type UnsyncedPuller interface {
	PullUnsynced(ctx context.Context, userID uuid.UUID) ([]models.TransactionDB, error)
}

// SyncMarker flags transactions as synced.
type SyncMarker interface {
	MarkSynced(ctx context.Context, userID uuid.UUID, rawIDs []string) (models.UpdateCounts, error)
}

// SyncStatuser reports sync progress.
type SyncStatuser interface {
	Status(ctx context.Context, userID uuid.UUID) (models.SyncStatus, error)
}

// BulkTransactionsRequest is the body of the bulk sync endpoints
// swagger:model BulkTransactionsRequest
type BulkTransactionsRequest struct {
	// Transactions to create, or partial updates carrying "_id"
	// required: true
	Transactions []json.RawMessage `json:"transactions" swaggertype:"array,object"`
}

// MarkSyncedRequest is the body of the mark-synced endpoint
// swagger:model MarkSyncedRequest
type MarkSyncedRequest struct {
	// required: true
	TransactionIDs []string `json:"transactionIds"`
}

// NewBulkCreateHandler inserts a batch sent by an offline client.
// @Summary Bulk create transactions
// @Description Validates every element on its own and inserts the valid ones. Failed elements are reported by index with 207.
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body handlers.BulkTransactionsRequest true "Batch"
// @Success 201 {object} handlers.Response{data=[]models.TransactionDB} "All inserted"
// @Success 207 {object} handlers.Response{data=[]models.TransactionDB} "Partial success"
// @Failure 400 {object} handlers.Response "Empty or malformed batch"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /sync/transactions [post]
func NewBulkCreateHandler(svc BulkCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req BulkTransactionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Transactions) == 0 {
			writeError(w, http.StatusBadRequest, msgProvideTransactions)
			return
		}

		report, err := svc.BulkCreate(r.Context(), userID, req.Transactions)
		if err != nil {
			if errors.Is(err, services.ErrEmptyBatch) {
				writeError(w, http.StatusBadRequest, msgProvideTransactions)
				return
			}
			logger.Log.Errorw("bulk create failed", "userID", userID, "error", err)
			writeError(w, http.StatusInternalServerError, msgServerError)
			return
		}

		inserted := report.Inserted
		if inserted == nil {
			inserted = []models.TransactionDB{}
		}

		resp := Response{Success: true, Count: intPtr(len(inserted)), Data: inserted}
		if !report.Partial() {
			writeJSON(w, http.StatusCreated, resp)
			return
		}
		resp.Message = msgPartialSuccess
		resp.Errors = report.Failures
		writeJSON(w, http.StatusMultiStatus, resp)
	}
}

// NewBulkUpdateHandler applies a batch of partial updates.
// @Summary Bulk update transactions
// @Description Every element must carry "_id". Elements that fail are reported by index with 207.
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body handlers.BulkTransactionsRequest true "Batch"
// @Success 200 {object} handlers.Response{data=models.UpdateCounts} "All applied"
// @Success 207 {object} handlers.Response{data=models.UpdateCounts} "Partial success"
// @Failure 400 {object} handlers.Response "Empty or malformed batch"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /sync/transactions [put]
func NewBulkUpdateHandler(svc BulkUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req BulkTransactionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Transactions) == 0 {
			writeError(w, http.StatusBadRequest, msgProvideTransactions)
			return
		}

		report, err := svc.BulkUpdate(r.Context(), userID, req.Transactions)
		if err != nil {
			if errors.Is(err, services.ErrEmptyBatch) {
				writeError(w, http.StatusBadRequest, msgProvideTransactions)
				return
			}
			logger.Log.Errorw("bulk update failed", "userID", userID, "error", err)
			writeError(w, http.StatusInternalServerError, msgServerError)
			return
		}

		resp := Response{Success: true, Data: report.UpdateCounts}
		if !report.Partial() {
			writeJSON(w, http.StatusOK, resp)
			return
		}
		resp.Message = msgPartialSuccess
		resp.Errors = report.Failures
		writeJSON(w, http.StatusMultiStatus, resp)
	}
}

// NewUnsyncedHandler returns the owner's unsynced transactions.
// @Summary Pull unsynced transactions
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response{data=[]models.TransactionDB}
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /sync/unsynced [get]
func NewUnsyncedHandler(svc UnsyncedPuller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		txs, err := svc.PullUnsynced(r.Context(), userID)
		if err != nil {
			logger.Log.Errorw("failed to pull unsynced transactions", "userID", userID, "error", err)
			writeError(w, http.StatusInternalServerError, msgServerError)
			return
		}
		if txs == nil {
			txs = []models.TransactionDB{}
		}
		writeJSON(w, http.StatusOK, Response{Success: true, Count: intPtr(len(txs)), Data: txs})
	}
}

// NewMarkSyncedHandler flags transactions as synced.
// @Summary Mark transactions synced
// @Description Malformed ids are ignored. Ids of other users match nothing.
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body handlers.MarkSyncedRequest true "Transaction ids"
// @Success 200 {object} handlers.Response{data=models.UpdateCounts}
// @Failure 400 {object} handlers.Response "No ids"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /sync/mark-synced [patch]
func NewMarkSyncedHandler(svc SyncMarker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req MarkSyncedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.TransactionIDs) == 0 {
			writeError(w, http.StatusBadRequest, msgProvideIDs)
			return
		}

		counts, err := svc.MarkSynced(r.Context(), userID, req.TransactionIDs)
		if err != nil {
			if errors.Is(err, services.ErrNoValidIDs) {
				writeError(w, http.StatusBadRequest, msgNoValidIDs)
				return
			}
			logger.Log.Errorw("failed to mark transactions synced", "userID", userID, "error", err)
			writeError(w, http.StatusInternalServerError, msgServerError)
			return
		}
		writeData(w, http.StatusOK, counts)
	}
}

// NewSyncStatusHandler reports sync progress.
// @Summary Sync status
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response{data=models.SyncStatus}
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /sync/status [get]
func NewSyncStatusHandler(svc SyncStatuser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		status, err := svc.Status(r.Context(), userID)
		if err != nil {
			logger.Log.Errorw("failed to get sync status", "userID", userID, "error", err)
			writeError(w, http.StatusInternalServerError, msgServerError)
			return
		}
		writeData(w, http.StatusOK, status)
	}
}
