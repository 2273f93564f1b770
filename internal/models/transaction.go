package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeIncome   = "income"
	TransactionTypeExpense  = "expense"
	TransactionTypeTransfer = "transfer"
)

// Transaction represents a financial transaction. Amount is signed:
// income is stored positive, expense negative.
type Transaction struct {
	ID          uuid.UUID       `json:"transaction_id"`
	UserID      int64           `json:"-"`
	AccountID   uuid.UUID       `json:"bank_account"`
	CategoryID  uuid.UUID       `json:"category"`
	Description string          `json:"transaction_description"`
	Type        string          `json:"transaction_type"`
	Amount      decimal.Decimal `json:"transaction_amount"`
	Date        Date            `json:"transaction_date"`
	Note        string          `json:"transaction_note,omitempty"`
	Reference   string          `json:"reference_number,omitempty"`
	IsRecurring bool            `json:"is_recurring"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Joined display fields, populated by reads.
	CategoryName string `json:"category_name,omitempty"`
	AccountName  string `json:"account_name,omitempty"`
}
