package validation

import (
	"strings"

	"github.com/budgetbox/backend/internal/models"
	"github.com/shopspring/decimal"
)

// NormalizeAmount forces the sign of a transaction amount to match its
// type: expenses negative, income positive. Transfers are left as
// given. Idempotent under re-application.
func NormalizeAmount(transactionType string, amount decimal.Decimal) decimal.Decimal {
	switch transactionType {
	case models.TransactionTypeExpense:
		return amount.Abs().Neg()
	case models.TransactionTypeIncome:
		return amount.Abs()
	default:
		return amount
	}
}

// ValidateTransaction checks the field rules for a transaction write
// and normalizes the description, note and reference in place. The
// amount sign is forced to match the transaction type. Cross-field
// rules that need the category or account (type match, funds check)
// live with the caller, which folds its findings into the same error
// set.
func ValidateTransaction(tx *models.Transaction) Errors {
	errs := Errors{}

	if tx.Amount.IsZero() {
		errs.Add("transaction_amount", "Transaction amount cannot be zero.")
	}
	if tx.Amount.Abs().GreaterThan(MaxTransactionAmount) {
		errs.Add("transaction_amount", "Transaction amount exceeds maximum allowed value.")
	}

	switch tx.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense, models.TransactionTypeTransfer:
		tx.Amount = NormalizeAmount(tx.Type, tx.Amount)
	default:
		errs.Add("transaction_type", "Transaction type must be income, expense or transfer.")
	}

	validateTransactionDate(tx.Date, errs)

	tx.Description = strings.TrimSpace(tx.Description)
	if tx.Description == "" {
		errs.Add("transaction_description", "Transaction description is required.")
	} else if len(tx.Description) < 2 {
		errs.Add("transaction_description", "Transaction description must be at least 2 characters.")
	} else if len(tx.Description) > 255 {
		errs.Add("transaction_description", "Transaction description cannot exceed 255 characters.")
	}

	if tx.Reference != "" {
		tx.Reference = strings.ToUpper(strings.TrimSpace(tx.Reference))
		if len(tx.Reference) > 100 {
			errs.Add("reference_number", "Reference number cannot exceed 100 characters.")
		}
	}

	return errs
}

func validateTransactionDate(date models.Date, errs Errors) {
	if date.IsZero() {
		errs.Add("transaction_date", "Transaction date is required.")
		return
	}
	today := models.Today()
	if date.After(today.AddDays(TransactionMaxFutureDays).Time) {
		errs.Add("transaction_date", "Transaction date cannot be more than one day in the future.")
	}
	if date.Before(today.AddDays(-TransactionMaxPastDays).Time) {
		errs.Add("transaction_date", "Transaction date cannot be more than 2 years in the past.")
	}
}
