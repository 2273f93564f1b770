package models

import (
	"time"

	"github.com/google/uuid"
)

// Category types
const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// Category represents an income or expense category. (user, name, type)
// is unique, case-insensitively on the name.
type Category struct {
	ID               uuid.UUID `json:"category_id"`
	UserID           int64     `json:"-"`
	Name             string    `json:"category_name"`
	Type             string    `json:"category_type"`
	IsDefault        bool      `json:"is_default"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	TransactionCount int       `json:"transaction_count,omitempty"`
}
