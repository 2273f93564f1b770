package models

import (
	"github.com/shopspring/decimal"
)

// Statistics is the cached transaction statistics response.
type Statistics struct {
	Period            StatsPeriod         `json:"period"`
	Summary           StatsSummary        `json:"summary"`
	CategoryBreakdown []CategoryBreakdown `json:"category_breakdown"`
	AccountBreakdown  []AccountBreakdown  `json:"account_breakdown"`
	TopExpenses       []TopExpense        `json:"top_expenses"`
}

// StatsPeriod bounds a statistics window.
type StatsPeriod struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// StatsSummary holds the headline income/expense aggregates.
type StatsSummary struct {
	TotalIncome        decimal.Decimal `json:"total_income"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	NetSavings         decimal.Decimal `json:"net_savings"`
	TransactionCount   int             `json:"transaction_count"`
	AverageTransaction decimal.Decimal `json:"average_transaction"`
}

// CategoryBreakdown aggregates expense spend per category.
type CategoryBreakdown struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	Average  decimal.Decimal `json:"average"`
}

// AccountBreakdown aggregates flows per account.
type AccountBreakdown struct {
	Account          string          `json:"account"`
	AccountID        string          `json:"account_id"`
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int             `json:"transaction_count"`
}

// TopExpense is one of the largest expenses in a statistics window.
type TopExpense struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
}

// MonthlySummary is the per-month transaction summary with a daily
// breakdown.
type MonthlySummary struct {
	Month            string         `json:"month"`
	StartDate        string         `json:"start_date"`
	EndDate          string         `json:"end_date"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	DailyBreakdown   []DailySummary `json:"daily_breakdown"`
	TransactionCount int            `json:"transaction_count"`
	RecurringCount   int            `json:"recurring_count"`
}

// DailySummary aggregates one day inside a monthly summary.
type DailySummary struct {
	Date             string          `json:"date"`
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int             `json:"transaction_count"`
}

// AccountSummary is the portfolio-level view over active accounts.
type AccountSummary struct {
	Summary        AccountSummaryTotals   `json:"summary"`
	Accounts       []AccountDetail        `json:"accounts"`
	RecentActivity []RecentActivityRecord `json:"recent_activity"`
}

// AccountSummaryTotals holds the per-currency rollups.
type AccountSummaryTotals struct {
	TotalAccounts    int                      `json:"total_accounts"`
	ActiveAccounts   int                      `json:"active_accounts"`
	TotalsByCurrency map[string]CurrencyTotal `json:"totals_by_currency"`
	PrimaryCurrency  string                   `json:"primary_currency"`
}

// CurrencyTotal rolls balances up per currency and account type.
type CurrencyTotal struct {
	Total  decimal.Decimal            `json:"total"`
	ByType map[string]decimal.Decimal `json:"by_type"`
}

// AccountDetail is one account row inside the summary response.
type AccountDetail struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Bank             string          `json:"bank"`
	Type             string          `json:"type"`
	Balance          decimal.Decimal `json:"balance"`
	Currency         string          `json:"currency"`
	TransactionCount int             `json:"transaction_count"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses  decimal.Decimal `json:"monthly_expenses"`
	MonthlyNet       decimal.Decimal `json:"monthly_net"`
}

// RecentActivityRecord is a recent transaction in the summary feed.
type RecentActivityRecord struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Account     string          `json:"account"`
}

// Statement is an account statement over a trailing window.
type Statement struct {
	Account      StatementAccount `json:"account"`
	Period       StatementPeriod  `json:"period"`
	Balances     StatementBalance `json:"balances"`
	Summary      StatementSummary `json:"summary"`
	Transactions []StatementLine  `json:"transactions"`
}

// StatementAccount identifies the statement's account.
type StatementAccount struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Bank          string `json:"bank"`
	Type          string `json:"type"`
	AccountNumber string `json:"account_number"`
}

// StatementPeriod bounds a statement window.
type StatementPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

// StatementBalance carries opening/closing balances.
type StatementBalance struct {
	Opening decimal.Decimal `json:"opening"`
	Closing decimal.Decimal `json:"closing"`
	Current decimal.Decimal `json:"current"`
}

// StatementSummary aggregates credits and debits over the window.
type StatementSummary struct {
	TotalCredits     decimal.Decimal `json:"total_credits"`
	TotalDebits      decimal.Decimal `json:"total_debits"`
	NetChange        decimal.Decimal `json:"net_change"`
	TransactionCount int             `json:"transaction_count"`
}

// StatementLine is one statement row with a running balance.
type StatementLine struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Type        string          `json:"type"`
	Reference   string          `json:"reference,omitempty"`
}

// CategoryUsage reports usage of one category over a trailing window.
type CategoryUsage struct {
	Category           CategoryRef          `json:"category"`
	Period             UsagePeriod          `json:"period"`
	Summary            UsageSummary         `json:"summary"`
	MonthlyBreakdown   []MonthlyUsage       `json:"monthly_breakdown"`
	RecentTransactions []TransactionDigest  `json:"recent_transactions"`
}

// CategoryRef identifies a category in derived responses.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// UsagePeriod bounds a category-usage window.
type UsagePeriod struct {
	Days      int    `json:"days"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// UsageSummary aggregates one category's usage.
type UsageSummary struct {
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TransactionCount int             `json:"transaction_count"`
	AverageAmount    decimal.Decimal `json:"average_amount"`
	IsActive         bool            `json:"is_active"`
	IsDefault        bool            `json:"is_default"`
}

// MonthlyUsage aggregates one calendar month of category usage.
type MonthlyUsage struct {
	Month   string          `json:"month"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Average decimal.Decimal `json:"average"`
}

// TransactionDigest is a compact transaction reference in derived
// responses; amounts are reported as positive magnitudes.
type TransactionDigest struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

// BudgetProgress is the per-budget progress report.
type BudgetProgress struct {
	Budget             BudgetRef           `json:"budget"`
	Spending           BudgetSpending      `json:"spending"`
	Status             string              `json:"status"`
	DailyBreakdown     []CumulativeSpend   `json:"daily_breakdown"`
	RecentTransactions []TransactionDigest `json:"recent_transactions"`
}

// BudgetRef identifies a budget and its period in derived responses.
type BudgetRef struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Period BudgetPeriod    `json:"period"`
}

// BudgetPeriod describes the day counts of a budget period.
type BudgetPeriod struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	TotalDays     int    `json:"total_days"`
	DaysElapsed   int    `json:"days_elapsed"`
	DaysRemaining int    `json:"days_remaining"`
}

// BudgetSpending carries the derived spend metrics for one budget.
type BudgetSpending struct {
	TotalSpent     decimal.Decimal `json:"total_spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	PercentageUsed decimal.Decimal `json:"percentage_used"`
	ExpectedSpend  decimal.Decimal `json:"expected_spend"`
	PacePercentage decimal.Decimal `json:"pace_percentage"`
	DailyAllowance decimal.Decimal `json:"daily_allowance"`
}

// CumulativeSpend is one day of cumulative spend in a progress report.
type CumulativeSpend struct {
	Date        string          `json:"date"`
	DailyAmount decimal.Decimal `json:"daily_amount"`
	Cumulative  decimal.Decimal `json:"cumulative"`
}

// BudgetOverview is the cross-budget overview response.
type BudgetOverview struct {
	Summary         BudgetOverviewTotals `json:"summary"`
	ActiveBudgets   []BudgetOverviewItem `json:"active_budgets"`
	UpcomingBudgets []UpcomingBudget     `json:"upcoming_budgets"`
	ExpiringSoon    []ExpiringBudget     `json:"expiring_soon"`
}

// BudgetOverviewTotals rolls up all currently active budgets.
type BudgetOverviewTotals struct {
	TotalBudgeted     decimal.Decimal `json:"total_budgeted"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	TotalRemaining    decimal.Decimal `json:"total_remaining"`
	OverallPercentage decimal.Decimal `json:"overall_percentage"`
	ActiveBudgetCount int             `json:"active_budget_count"`
}

// BudgetOverviewItem is one active budget in the overview.
type BudgetOverviewItem struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
	Status     string          `json:"status"`
	EndDate    string          `json:"end_date"`
}

// UpcomingBudget is a budget starting within the next 30 days.
type UpcomingBudget struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	StartsIn    int             `json:"starts_in_days"`
	StartDate   string          `json:"start_date"`
	Amount      decimal.Decimal `json:"amount"`
}

// ExpiringBudget is a budget ending within the next 7 days.
type ExpiringBudget struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	ExpiresIn int             `json:"expires_in_days"`
	EndDate   string          `json:"end_date"`
	Amount    decimal.Decimal `json:"amount"`
}

// BudgetRecommendations is the recommendations response.
type BudgetRecommendations struct {
	UnbudgetedCategories []UnbudgetedCategory `json:"unbudgeted_categories"`
	AdjustmentNeeded     []BudgetAdjustment   `json:"adjustment_needed"`
	SavingsOpportunities []SavingsOpportunity `json:"savings_opportunities"`
	PeriodRecommendation map[string]string    `json:"period_recommendation"`
}

// UnbudgetedCategory suggests a budget for a category without one.
type UnbudgetedCategory struct {
	Category        string          `json:"category"`
	RecentSpending  decimal.Decimal `json:"recent_spending"`
	SuggestedBudget decimal.Decimal `json:"suggested_budget"`
	Priority        string          `json:"priority"`
}

// BudgetAdjustment suggests a raised budget for an overrun category.
type BudgetAdjustment struct {
	Category            string          `json:"category"`
	CurrentBudget       decimal.Decimal `json:"current_budget"`
	ActualSpending      decimal.Decimal `json:"actual_spending"`
	RecommendedBudget   decimal.Decimal `json:"recommended_budget"`
	OverspendPercentage decimal.Decimal `json:"overspend_percentage"`
}

// SavingsOpportunity flags a discretionary category for reduction.
type SavingsOpportunity struct {
	Category         string          `json:"category"`
	CurrentSpending  decimal.Decimal `json:"current_spending"`
	PotentialSavings decimal.Decimal `json:"potential_savings"`
	Suggestion       string          `json:"suggestion"`
}

// FinancialSummary is the profile-level financial rollup.
type FinancialSummary struct {
	NetWorth        decimal.Decimal `json:"net_worth"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	MonthlySavings  decimal.Decimal `json:"monthly_savings"`
}
