package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/validation"
)

//go:generate mockgen -source=analytics.go -destination=analytics_mock.go -package=handlers

// Accepted year bounds for trends.
const (
	minTrendYear = 1970
	maxTrendYear = 9999
)

var errYearInvalid = errors.New("year must be a four-digit number")

// SummaryProvider totals income and expenses.
type SummaryProvider interface {
	Summary(ctx context.Context, userID uuid.UUID, rng models.DateRange) (models.Summary, error)
}

// CategoryBreakdownProvider groups transactions by category.
type CategoryBreakdownProvider interface {
	CategoryBreakdown(ctx context.Context, userID uuid.UUID, txType string, rng models.DateRange) ([]models.CategoryBreakdown, error)
}

// TrendsProvider returns per-month totals.
type TrendsProvider interface {
	MonthlyTrends(ctx context.Context, userID uuid.UUID, year int) ([]models.MonthlyTrend, error)
}

// NewSummaryHandler returns income and expense totals.
// @Summary Summary
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "RFC3339 timestamp or YYYY-MM-DD"
// @Param endDate query string false "RFC3339 timestamp or YYYY-MM-DD, inclusive"
// @Success 200 {object} handlers.Response{data=models.Summary}
// @Failure 400 {object} handlers.Response "Malformed dates"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /analytics/summary [get]
func NewSummaryHandler(svc SummaryProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		rng, err := dateRangeFromQuery(r)
		if err != nil {
			writeServiceError(w, err, "invalid date range")
			return
		}

		summary, err := svc.Summary(r.Context(), userID, rng)
		if err != nil {
			writeServiceError(w, err, "failed to build summary", "userID", userID)
			return
		}
		writeData(w, http.StatusOK, summary)
	}
}

// NewCategoryBreakdownHandler groups transactions of one type by category.
// @Summary Category breakdown
// @Description Totals per category, largest first. type defaults to expense.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param type query string false "income or expense" default(expense)
// @Param startDate query string false "RFC3339 timestamp or YYYY-MM-DD"
// @Param endDate query string false "RFC3339 timestamp or YYYY-MM-DD, inclusive"
// @Success 200 {object} handlers.Response{data=[]models.CategoryBreakdown}
// @Failure 400 {object} handlers.Response "Invalid type or dates"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /analytics/categories [get]
func NewCategoryBreakdownHandler(svc CategoryBreakdownProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		txType := strings.TrimSpace(r.URL.Query().Get("type"))
		if txType != "" && !validation.IsTransactionType(txType) {
			writeError(w, http.StatusBadRequest, validation.ErrTypeInvalid.Error())
			return
		}

		rng, err := dateRangeFromQuery(r)
		if err != nil {
			writeServiceError(w, err, "invalid date range")
			return
		}

		breakdown, err := svc.CategoryBreakdown(r.Context(), userID, txType, rng)
		if err != nil {
			if errors.Is(err, validation.ErrTypeInvalid) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeServiceError(w, err, "failed to build category breakdown", "userID", userID)
			return
		}
		if breakdown == nil {
			breakdown = []models.CategoryBreakdown{}
		}
		writeData(w, http.StatusOK, breakdown)
	}
}

// NewTrendsHandler returns twelve monthly totals for a year.
// @Summary Monthly trends
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param year query int false "Calendar year, defaults to the current one"
// @Success 200 {object} handlers.Response{data=[]models.MonthlyTrend}
// @Failure 400 {object} handlers.Response "Malformed year"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /analytics/trends [get]
func NewTrendsHandler(svc TrendsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var year int
		if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
			y, err := strconv.Atoi(raw)
			if err != nil || y < minTrendYear || y > maxTrendYear {
				writeError(w, http.StatusBadRequest, errYearInvalid.Error())
				return
			}
			year = y
		}

		trends, err := svc.MonthlyTrends(r.Context(), userID, year)
		if err != nil {
			writeServiceError(w, err, "failed to build monthly trends", "userID", userID)
			return
		}
		writeData(w, http.StatusOK, trends)
	}
}

func dateRangeFromQuery(r *http.Request) (models.DateRange, error) {
	q := r.URL.Query()
	return validation.DateRange(q.Get("startDate"), q.Get("endDate"))
}
