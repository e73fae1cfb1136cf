package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
// swagger:model User
type UserDB struct {
	UserID       uuid.UUID `json:"_id" db:"user_id"`          // Primary key
	Name         string    `json:"name" db:"name"`            // Display name
	Email        string    `json:"email" db:"email"`          // Unique login email
	PasswordHash string    `json:"-" db:"password_hash"`      // bcrypt hash, never serialized
	CreatedAt    time.Time `json:"createdAt" db:"created_at"` // Creation timestamp
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"` // Last update timestamp
}
