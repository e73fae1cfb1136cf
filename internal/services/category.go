package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/validation"
)

//go:generate mockgen -source=category.go -destination=category_mock.go -package=services

// ErrCategoryNotFound is returned when a category does not exist for the owner.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryStore persists categories per owner.
type CategoryStore interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error)
	Get(ctx context.Context, userID uuid.UUID, categoryID int64) (*models.CategoryDB, error)
	Create(ctx context.Context, userID uuid.UUID, name string) (*models.CategoryDB, error)
	Rename(ctx context.Context, userID uuid.UUID, categoryID int64, name string) (*models.CategoryDB, error)
	Delete(ctx context.Context, userID uuid.UUID, categoryID int64) (*models.CategoryDB, error)
}

// CategoryService manages an owner's categories.
type CategoryService struct {
	store CategoryStore
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error) {
	categories, err := s.store.List(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list categories", "userID", userID, "error", err)
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, userID uuid.UUID, categoryID int64) (*models.CategoryDB, error) {
	c, err := s.store.Get(ctx, userID, categoryID)
	return categoryResult(c, err, userID)
}

// Create validates name and stores a new category.
func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, name string) (*models.CategoryDB, error) {
	name, err := validation.CategoryName(name)
	if err != nil {
		return nil, err
	}
	c, err := s.store.Create(ctx, userID, name)
	return categoryResult(c, err, userID)
}

// Rename validates name and renames the owner's category.
func (s *CategoryService) Rename(ctx context.Context, userID uuid.UUID, categoryID int64, name string) (*models.CategoryDB, error) {
	name, err := validation.CategoryName(name)
	if err != nil {
		return nil, err
	}
	c, err := s.store.Rename(ctx, userID, categoryID, name)
	return categoryResult(c, err, userID)
}

func (s *CategoryService) Delete(ctx context.Context, userID uuid.UUID, categoryID int64) (*models.CategoryDB, error) {
	c, err := s.store.Delete(ctx, userID, categoryID)
	return categoryResult(c, err, userID)
}

func categoryResult(c *models.CategoryDB, err error, userID uuid.UUID) (*models.CategoryDB, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		logger.Log.Errorw("category store failed", "userID", userID, "error", err)
		return nil, err
	}
	return c, nil
}
