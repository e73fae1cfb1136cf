package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/services"
)

//go:generate mockgen -source=category.go -destination=category_mock.go -package=handlers

const msgCategoryNotFound = "Category not found"

// CategoryManager is the category service used by the category handlers.
type CategoryManager interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error)
	Get(ctx context.Context, userID uuid.UUID, categoryID int64) (*models.CategoryDB, error)
	Create(ctx context.Context, userID uuid.UUID, name string) (*models.CategoryDB, error)
	Rename(ctx context.Context, userID uuid.UUID, categoryID int64, name string) (*models.CategoryDB, error)
	Delete(ctx context.Context, userID uuid.UUID, categoryID int64) (*models.CategoryDB, error)
}

// CategoryRequest is the body of category create and rename
// swagger:model CategoryRequest
type CategoryRequest struct {
	// required: true
	// default: Groceries
	Name string `json:"name"`
}

// NewListCategoriesHandler lists the owner's categories.
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response{data=[]models.CategoryDB}
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /categories [get]
func NewListCategoriesHandler(svc CategoryManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		categories, err := svc.List(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err, "failed to list categories", "userID", userID)
			return
		}
		if categories == nil {
			categories = []models.CategoryDB{}
		}
		writeJSON(w, http.StatusOK, Response{Success: true, Count: intPtr(len(categories)), Data: categories})
	}
}

// NewGetCategoryHandler returns one category.
// @Summary Get category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} handlers.Response{data=models.CategoryDB}
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 404 {object} handlers.Response "Category not found"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /categories/{id} [get]
func NewGetCategoryHandler(svc CategoryManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := categoryIDFromRequest(w, r)
		if !ok {
			return
		}

		c, err := svc.Get(r.Context(), userID, id)
		if err != nil {
			writeCategoryError(w, err, "failed to get category", userID)
			return
		}
		writeData(w, http.StatusOK, c)
	}
}

// NewCreateCategoryHandler creates a category.
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body handlers.CategoryRequest true "Category"
// @Success 201 {object} handlers.Response{data=models.CategoryDB}
// @Failure 400 {object} handlers.Response "Validation failed"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /categories [post]
func NewCreateCategoryHandler(svc CategoryManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}

		var req CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		c, err := svc.Create(r.Context(), userID, req.Name)
		if err != nil {
			writeCategoryError(w, err, "failed to create category", userID)
			return
		}
		writeData(w, http.StatusCreated, c)
	}
}

// NewRenameCategoryHandler renames a category.
// @Summary Rename category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body handlers.CategoryRequest true "New name"
// @Success 200 {object} handlers.Response{data=models.CategoryDB}
// @Failure 400 {object} handlers.Response "Validation failed"
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 404 {object} handlers.Response "Category not found"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /categories/{id} [put]
func NewRenameCategoryHandler(svc CategoryManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := categoryIDFromRequest(w, r)
		if !ok {
			return
		}

		var req CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		c, err := svc.Rename(r.Context(), userID, id, req.Name)
		if err != nil {
			writeCategoryError(w, err, "failed to rename category", userID)
			return
		}
		writeData(w, http.StatusOK, c)
	}
}

// NewDeleteCategoryHandler deletes a category.
// @Summary Delete category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} handlers.Response{data=models.CategoryDB}
// @Failure 401 {object} handlers.Response "Not authorized"
// @Failure 404 {object} handlers.Response "Category not found"
// @Failure 500 {object} handlers.Response "Server Error"
// @Router /categories/{id} [delete]
func NewDeleteCategoryHandler(svc CategoryManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := ownerFromRequest(w, r)
		if !ok {
			return
		}
		id, ok := categoryIDFromRequest(w, r)
		if !ok {
			return
		}

		c, err := svc.Delete(r.Context(), userID, id)
		if err != nil {
			writeCategoryError(w, err, "failed to delete category", userID)
			return
		}
		writeData(w, http.StatusOK, c)
	}
}

func categoryIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, msgCategoryNotFound)
		return 0, false
	}
	return id, true
}

func writeCategoryError(w http.ResponseWriter, err error, msg string, userID uuid.UUID) {
	if errors.Is(err, services.ErrCategoryNotFound) {
		writeError(w, http.StatusNotFound, msgCategoryNotFound)
		return
	}
	writeServiceError(w, err, msg, "userID", userID)
}
