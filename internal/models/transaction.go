package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supported transaction types
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// TransactionDB represents a transaction row in the database
// swagger:model Transaction
type TransactionDB struct {
	TransactionID uuid.UUID       `json:"_id" db:"transaction_id"`        // Unique transaction identifier
	UserID        uuid.UUID       `json:"userId" db:"user_id"`            // Owner of the transaction
	Description   string          `json:"description" db:"description"`   // Free-form description, up to 200 chars
	Amount        decimal.Decimal `json:"amount" db:"amount"`             // Positive amount
	Category      string          `json:"category" db:"category"`         // Category label, up to 50 chars
	Type          string          `json:"type" db:"type"`                 // income or expense
	Date          time.Time       `json:"date" db:"date"`                 // When the transaction happened
	IsSynced      bool            `json:"isSynced" db:"is_synced"`        // Whether the record is reconciled with the client
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`      // Creation timestamp
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`      // Last update timestamp
}

// TransactionInput is the client payload for a transaction.
// Every field is optional at decode time so that validation can report each missing field.
// swagger:model TransactionInput
type TransactionInput struct {
	// Transaction id, only used by bulk updates
	// example: 0b4e7a0c-9a43-4a4e-8f39-3c4d0f4b8a11
	ID *string `json:"_id,omitempty"`

	// Alternative spelling of the id accepted from clients
	AltID *string `json:"id,omitempty"`

	// example: Coffee
	Description *string `json:"description,omitempty"`

	// example: 4.5
	Amount *decimal.Decimal `json:"amount,omitempty" swaggertype:"number"`

	// example: Food
	Category *string `json:"category,omitempty"`

	// example: expense
	Type *string `json:"type,omitempty"`

	// RFC3339 timestamp or YYYY-MM-DD date
	// example: 2024-01-05
	Date *string `json:"date,omitempty"`
}

// RawID returns the id supplied by the client, preferring "_id" over "id".
func (in TransactionInput) RawID() (string, bool) {
	if in.ID != nil {
		return *in.ID, true
	}
	if in.AltID != nil {
		return *in.AltID, true
	}
	return "", false
}

// TransactionPatch holds the normalized fields of a partial update.
// Nil fields are left untouched.
type TransactionPatch struct {
	TransactionID uuid.UUID
	Description   *string
	Amount        *decimal.Decimal
	Category      *string
	Type          *string
	Date          *time.Time
}

// DateRange bounds a query by transaction date: From inclusive, To exclusive.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	Type     string
	Category string
	Range    DateRange
	Page     int
	Limit    int
}

// Offset returns the number of rows to skip for the filter page.
func (f TransactionFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Pagination describes the page returned by a listing
// swagger:model Pagination
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}
