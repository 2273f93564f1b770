package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account types
const (
	AccountTypeChecking = "checking"
	AccountTypeSavings  = "savings"
	AccountTypeISA      = "isa"
	AccountTypeCredit   = "credit"
)

// Supported currencies
const (
	CurrencyGBP = "GBP"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

// AccountTypes lists the valid account types.
var AccountTypes = []string{AccountTypeChecking, AccountTypeSavings, AccountTypeISA, AccountTypeCredit}

// Currencies lists the supported currencies.
var Currencies = []string{CurrencyGBP, CurrencyUSD, CurrencyEUR}

// Account represents a bank account. CurrentBalance is derived but
// stored: it always equals the creation balance plus the signed sum of
// every transaction applied to the account.
type Account struct {
	ID               uuid.UUID       `json:"bank_account_id"`
	UserID           int64           `json:"-"`
	Name             string          `json:"account_name"`
	Type             string          `json:"account_type"`
	BankName         string          `json:"bank_name"`
	NumberMasked     string          `json:"account_number_masked"`
	Currency         string          `json:"currency"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	TransactionCount int             `json:"transaction_count,omitempty"`
}

// IsCredit reports whether the account is a credit account. Credit
// accounts carry zero-or-negative balances and skip funds checks.
func (a *Account) IsCredit() bool {
	return a.Type == AccountTypeCredit
}

// CurrencySymbol returns the display symbol for the account currency.
func (a *Account) CurrencySymbol() string {
	switch a.Currency {
	case CurrencyGBP:
		return "£"
	case CurrencyUSD:
		return "$"
	case CurrencyEUR:
		return "€"
	default:
		return a.Currency
	}
}
