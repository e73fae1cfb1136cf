package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
)

const categoryColumns = `category_id, user_id, name, created_at`

// CategoryRepository stores categories scoped by owner
type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns the owner's categories in creation order.
func (r *CategoryRepository) List(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 ORDER BY category_id`

	categories := []models.CategoryDB{}
	err := r.db.SelectContext(ctx, &categories, query, userID)

	logQuery(query, []any{userID}, len(categories), err)

	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Get returns the owner's category or sql.ErrNoRows.
func (r *CategoryRepository) Get(ctx context.Context, userID uuid.UUID, categoryID int64) (*models.CategoryDB, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1 AND user_id = $2`
	args := []any{categoryID, userID}

	var c models.CategoryDB
	err := r.db.GetContext(ctx, &c, query, args...)

	logQuery(query, args, c.CategoryID, err)

	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create stores a category for the owner.
func (r *CategoryRepository) Create(ctx context.Context, userID uuid.UUID, name string) (*models.CategoryDB, error) {
	const query = `
		INSERT INTO categories (user_id, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING ` + categoryColumns
	args := []any{userID, name}

	var c models.CategoryDB
	err := r.db.GetContext(ctx, &c, query, args...)

	logQuery(query, args, c.CategoryID, err)

	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Rename changes the name of the owner's category or returns sql.ErrNoRows.
func (r *CategoryRepository) Rename(ctx context.Context, userID uuid.UUID, categoryID int64, name string) (*models.CategoryDB, error) {
	const query = `
		UPDATE categories SET name = $3
		WHERE category_id = $1 AND user_id = $2
		RETURNING ` + categoryColumns
	args := []any{categoryID, userID, name}

	var c models.CategoryDB
	err := r.db.GetContext(ctx, &c, query, args...)

	logQuery(query, args, c.CategoryID, err)

	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes the owner's category and returns it, or sql.ErrNoRows.
func (r *CategoryRepository) Delete(ctx context.Context, userID uuid.UUID, categoryID int64) (*models.CategoryDB, error) {
	const query = `
		DELETE FROM categories
		WHERE category_id = $1 AND user_id = $2
		RETURNING ` + categoryColumns
	args := []any{categoryID, userID}

	var c models.CategoryDB
	err := r.db.GetContext(ctx, &c, query, args...)

	logQuery(query, args, c.CategoryID, err)

	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
