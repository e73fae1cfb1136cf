package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/services"
	"github.com/sbilibin2017/gw-expense-tracker/internal/validation"
)

//go:generate mockgen -source=transaction.go -destination=transaction_mock.go -package=handlers

// Listing limits.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

const msgTransactionNotFound = "Transaction not found"

// TransactionLister lists an owner's transactions.
type TransactionLister interface {
	List(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.TransactionDB, int64, error)
}

// TransactionGetter returns one of the owner's transactions.
type TransactionGetter interface {
	Get(ctx context.Context, userID, transactionID uuid.UUID) (*models.TransactionDB, error)
}

// TransactionCreator creates a transaction for the owner.
type TransactionCreator interface {
	Create(ctx context.Context, userID uuid.UUID, in models.TransactionInput) (*models.TransactionDB, error)
}

// TransactionUpdater applies a partial update to one of the owner's transactions.
type TransactionUpdater interface {
	Update(ctx context.Context, userID, transactionID uuid.UUID, in models.TransactionInput) (*models.TransactionDB, error)
}

// TransactionDeleter removes one of the owner's transactions.
type TransactionDeleter interface {
	Delete(ctx context.Context, userID, transactionID uuid.UUID) error
}

// NewListTransactionsHandler returns a page of the owner's transactions.
// @Summary List transactions
// @Description Lists the authenticated user's transactions, newest first.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size, at most 100" default(10)
// @Param type query string false "income or expense"
// @Param category query string false "Case-insensitive category substring"
// @Param startDate query string false "RFC3339 timestamp or YYYY-MM-DD"
// @Param endDate query string false "RFC3339 timestamp or YYYY-MM-DD, inclusive"
// @Success 200 {object} handlers.Response{data=[]models.TransactionDB}
// @Failure 400 {object} handlers.Response "Invalid query"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /transactions [get]
func NewListTransactionsHandler(svc TransactionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		filter, err := parseTransactionFilter(r)
		if err != nil {
			writeServiceError(w, err, "invalid transaction filter")
			return
		}

		txs, total, err := svc.List(r.Context(), userID, filter)
		if err != nil {
			logger.Log.Errorw("failed to list transactions", "userID", userID, "error", err)
			writeError(w, http.StatusInternalServerError, msgServerError)
			return
		}
		if txs == nil {
			txs = []models.TransactionDB{}
		}

		pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
		writeJSON(w, http.StatusOK, Response{
			Success:    true,
			Count:      intPtr(len(txs)),
			Total:      &total,
			Pagination: &models.Pagination{Page: filter.Page, Limit: filter.Limit, Pages: pages},
			Data:       txs,
		})
	}
}

// NewGetTransactionHandler returns one transaction.
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} handlers.Response{data=models.TransactionDB}
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 404 {object} handlers.Response "Transaction not found"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /transactions/{id} [get]
func NewGetTransactionHandler(svc TransactionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := transactionIDFromRequest(w, r)
		if !ok {
			return
		}

		tx, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			writeTransactionError(w, err, "failed to get transaction", userID)
			return
		}
		writeData(w, http.StatusOK, tx)
	}
}

// NewCreateTransactionHandler creates a transaction.
// @Summary Create transaction
// @Description Validates the payload and stores it for the authenticated user as synced.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body models.TransactionInput true "Transaction"
// @Success 201 {object} handlers.Response{data=models.TransactionDB}
// @Failure 400 {object} handlers.Response "Validation failed"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /transactions [post]
func NewCreateTransactionHandler(svc TransactionCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var in models.TransactionInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		tx, err := svc.Create(r.Context(), userID, in)
		if err != nil {
			writeServiceError(w, err, "failed to create transaction", "userID", userID)
			return
		}
		writeData(w, http.StatusCreated, tx)
	}
}

// NewUpdateTransactionHandler updates a transaction.
// @Summary Update transaction
// @Description Applies the supplied fields to the transaction.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param transaction body models.TransactionInput true "Fields to change"
// @Success 200 {object} handlers.Response{data=models.TransactionDB}
// @Failure 400 {object} handlers.Response "Validation failed"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 404 {object} handlers.Response "Transaction not found"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /transactions/{id} [put]
func NewUpdateTransactionHandler(svc TransactionUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := transactionIDFromRequest(w, r)
		if !ok {
			return
		}

		var in models.TransactionInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		tx, err := svc.Update(r.Context(), userID, id, in)
		if err != nil {
			writeTransactionError(w, err, "failed to update transaction", userID)
			return
		}
		writeData(w, http.StatusOK, tx)
	}
}

// NewDeleteTransactionHandler deletes a transaction.
// @Summary Delete transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} handlers.Response "Deleted"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 404 {object} handlers.Response "Transaction not found"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /transactions/{id} [delete]
func NewDeleteTransactionHandler(svc TransactionDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := transactionIDFromRequest(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), userID, id); err != nil {
			writeTransactionError(w, err, "failed to delete transaction", userID)
			return
		}
		writeData(w, http.StatusOK, struct{}{})
	}
}

// transactionIDFromRequest answers 404 for malformed ids, same as for foreign ones.
func transactionIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := validation.ParseID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgTransactionNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func writeTransactionError(w http.ResponseWriter, err error, msg string, userID uuid.UUID) {
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgTransactionNotFound)
		return
	}
	writeServiceError(w, err, msg, "userID", userID)
}

func parseTransactionFilter(r *http.Request) (models.TransactionFilter, error) {
	q := r.URL.Query()
	filter := models.TransactionFilter{
		Page:     DefaultPage,
		Limit:    DefaultLimit,
		Type:     strings.TrimSpace(q.Get("type")),
		Category: strings.TrimSpace(q.Get("category")),
	}

	var msgs []string

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			msgs = append(msgs, "page must be a positive integer")
		} else {
			filter.Page = page
		}
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			msgs = append(msgs, "limit must be a positive integer")
		} else {
			filter.Limit = min(limit, MaxLimit)
		}
	}

	if filter.Type != "" && !validation.IsTransactionType(filter.Type) {
		msgs = append(msgs, validation.ErrTypeInvalid.Error())
	}

	rng, err := validation.DateRange(q.Get("startDate"), q.Get("endDate"))
	var verr *validation.Error
	if errors.As(err, &verr) {
		msgs = append(msgs, verr.Messages...)
	}
	filter.Range = rng

	if len(msgs) > 0 {
		return models.TransactionFilter{}, &validation.Error{Messages: msgs}
	}
	return filter, nil
}
