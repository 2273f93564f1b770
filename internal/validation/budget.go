package validation

import (
	"strings"

	"github.com/budgetbox/backend/internal/models"
	"github.com/shopspring/decimal"
)

// ValidateBudget checks budget field rules and the cross-field period
// rules, normalizing the trimmed name in place. The active-overlap
// check needs storage and stays with the caller.
func ValidateBudget(budget *models.Budget) Errors {
	errs := Errors{}

	budget.Name = strings.TrimSpace(budget.Name)
	if budget.Name == "" {
		errs.Add("budget_name", "Budget name is required.")
	} else if len(budget.Name) < 2 {
		errs.Add("budget_name", "Budget name must be at least 2 characters.")
	} else if len(budget.Name) > 100 {
		errs.Add("budget_name", "Budget name cannot exceed 100 characters.")
	}

	if budget.Amount.LessThanOrEqual(decimal.Zero) {
		errs.Add("budget_amount", "Budget amount must be positive.")
	}
	if budget.Amount.GreaterThan(MaxTransactionAmount) {
		errs.Add("budget_amount", "Budget amount exceeds maximum allowed value.")
	}

	if !contains(models.PeriodTypes, budget.PeriodType) {
		errs.Add("period_type", "Period type must be weekly, monthly, quarterly or yearly.")
	}

	validateBudgetDates(budget.StartDate, budget.EndDate, errs)

	return errs
}

func validateBudgetDates(start, end models.Date, errs Errors) {
	if start.IsZero() {
		errs.Add("start_date", "Start date is required.")
	}
	if end.IsZero() {
		errs.Add("end_date", "End date is required.")
	}
	if start.IsZero() || end.IsZero() {
		return
	}

	today := models.Today()
	if start.Before(today.AddDays(-BudgetStartWindowDays).Time) {
		errs.Add("start_date", "Start date cannot be more than 1 year in the past.")
	}
	if start.After(today.AddDays(BudgetStartWindowDays).Time) {
		errs.Add("start_date", "Start date cannot be more than 1 year in the future.")
	}

	if !start.Before(end.Time) {
		errs.Add("end_date", "End date must be after start date.")
		return
	}
	if start.DaysUntil(end) > BudgetMaxPeriodDays {
		errs.Add("end_date", "Budget period cannot exceed 1 year.")
	}
}
