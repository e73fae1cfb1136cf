package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryDB represents a category row in the database
// swagger:model Category
type CategoryDB struct {
	CategoryID int64     `json:"id" db:"category_id"`        // Monotonic identifier
	UserID     uuid.UUID `json:"-" db:"user_id"`             // Owner of the category
	Name       string    `json:"name" db:"name"`             // Display name
	CreatedAt  time.Time `json:"createdAt" db:"created_at"` // Creation timestamp
}
