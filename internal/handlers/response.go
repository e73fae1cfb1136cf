package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
	"github.com/sbilibin2017/gw-expense-tracker/internal/middlewares"
	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/validation"
)

// Error messages shared by handlers.
const (
	msgServerError      = "Server Error"
	msgValidationFailed = "Validation failed"
	msgInvalidBody      = "Invalid request body"
	msgPartialSuccess   = "Partial success"
)

// Response is the JSON envelope of every reply
// swagger:model Response
type Response struct {
	// Whether the request succeeded
	Success bool `json:"success"`

	// Bearer token, set by register and login
	Token string `json:"token,omitempty"`

	// Informational message
	// example: Partial success
	Message string `json:"message,omitempty"`

	// Number of records in data
	Count *int `json:"count,omitempty"`

	// Number of records matching the query
	Total *int64 `json:"total,omitempty"`

	Pagination *models.Pagination `json:"pagination,omitempty"`

	// Payload
	Data any `json:"data,omitempty"`

	// Per-element failures of a bulk request
	Errors []models.BulkFailure `json:"errors,omitempty"`

	// Error message
	// example: Server Error
	Error string `json:"error,omitempty"`

	// One message per invalid field
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.Errorw("failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{Error: msg})
}

// writeServiceError answers validation errors with 400 and anything else with 500.
func writeServiceError(w http.ResponseWriter, err error, msg string, keysAndValues ...any) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, Response{Error: msgValidationFailed, Details: verr.Messages})
		return
	}
	logger.Log.Errorw(msg, append(keysAndValues, "error", err)...)
	writeError(w, http.StatusInternalServerError, msgServerError)
}

// ownerFromRequest returns the authenticated owner or answers 401.
func ownerFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middlewares.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, middlewares.NotAuthorizedMessage)
		return uuid.Nil, false
	}
	return userID, true
}

func intPtr(n int) *int { return &n }
