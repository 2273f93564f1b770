package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget period types
const (
	PeriodWeekly    = "weekly"
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodYearly    = "yearly"
)

// PeriodTypes lists the valid budget period types.
var PeriodTypes = []string{PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly}

// Budget represents a spending target for one expense category over a
// closed date interval. Spend against it is computed from the ledger,
// never stored.
type Budget struct {
	ID         uuid.UUID       `json:"budget_id"`
	UserID     int64           `json:"-"`
	CategoryID uuid.UUID       `json:"category"`
	Name       string          `json:"budget_name"`
	Amount     decimal.Decimal `json:"budget_amount"`
	PeriodType string          `json:"period_type"`
	StartDate  Date            `json:"start_date"`
	EndDate    Date            `json:"end_date"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Derived fields, populated by reads.
	CategoryName    string          `json:"category_name,omitempty"`
	SpentAmount     decimal.Decimal `json:"spent_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PercentageUsed  string          `json:"percentage_used"`
	DaysRemaining   int             `json:"days_remaining"`
}
