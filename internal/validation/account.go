package validation

import (
	"strings"

	"github.com/budgetbox/backend/internal/models"
	"github.com/shopspring/decimal"
)

// ValidateAccount checks every field rule for an account write and
// normalizes the trimmed name fields in place. Violations are reported
// per field, all at once.
func ValidateAccount(account *models.Account) Errors {
	errs := Errors{}

	account.Name = strings.TrimSpace(account.Name)
	if account.Name == "" {
		errs.Add("account_name", "Account name is required.")
	} else if len(account.Name) < 2 {
		errs.Add("account_name", "Account name must be at least 2 characters.")
	} else if len(account.Name) > 100 {
		errs.Add("account_name", "Account name cannot exceed 100 characters.")
	}

	account.BankName = strings.TrimSpace(account.BankName)
	if account.BankName == "" {
		errs.Add("bank_name", "Bank name is required.")
	} else if len(account.BankName) < 2 {
		errs.Add("bank_name", "Bank name must be at least 2 characters.")
	}

	if !contains(models.AccountTypes, account.Type) {
		errs.Add("account_type", "Account type must be one of: checking, savings, isa, credit.")
	}

	if !contains(models.Currencies, account.Currency) {
		errs.Add("currency", "Currency must be one of: GBP, USD, EUR.")
	}

	validateMaskedNumber(account.NumberMasked, errs)
	validateBalance(account, errs)

	return errs
}

func validateMaskedNumber(masked string, errs Errors) {
	if masked == "" {
		errs.Add("account_number_masked", "Masked account number is required.")
		return
	}
	if !strings.HasPrefix(masked, "****") || len(masked) != 8 {
		errs.Add("account_number_masked", "Account number must be in format ****1234.")
		return
	}
	if !isDigits(masked[4:]) {
		errs.Add("account_number_masked", "Last 4 digits must be numbers.")
	}
}

func validateBalance(account *models.Account, errs Errors) {
	balance := account.CurrentBalance

	if balance.LessThan(OverdraftLimit) {
		errs.Add("current_balance", "Overdraft limit cannot exceed 10,000.")
	}
	if balance.GreaterThan(MaxAccountBalance) {
		errs.Add("current_balance", "Balance exceeds maximum allowed value.")
	}

	// Cross-field: sign of the balance must agree with the account type.
	if contains(models.AccountTypes, account.Type) {
		if !account.IsCredit() && balance.IsNegative() {
			errs.Add("current_balance", "Only credit accounts can have negative balance.")
		}
		if account.IsCredit() && balance.GreaterThan(decimal.Zero) {
			errs.Add("current_balance", "Credit accounts should have zero or negative balance.")
		}
	}
}
