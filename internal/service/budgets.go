package service

import (
	"context"
	"math"
	"sort"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/budgetbox/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget status thresholds on percentage used.
const (
	budgetStatusOnTrack   = "on_track"
	budgetStatusAttention = "attention"
	budgetStatusWarning   = "warning"
	budgetStatusExceeded  = "exceeded"
)

func budgetStatus(percentage decimal.Decimal) string {
	switch {
	case percentage.LessThanOrEqual(decimal.NewFromInt(50)):
		return budgetStatusOnTrack
	case percentage.LessThanOrEqual(decimal.NewFromInt(80)):
		return budgetStatusAttention
	case percentage.LessThanOrEqual(decimal.NewFromInt(100)):
		return budgetStatusWarning
	default:
		return budgetStatusExceeded
	}
}

// annotateBudget fills the derived spend fields. Spend is the
// magnitude of the category's expenses inside the budget period.
func (s *Service) annotateBudget(ctx context.Context, budget *models.Budget) error {
	spent, err := s.store.SumCategoryExpenses(ctx, budget.UserID, budget.CategoryID, budget.StartDate, budget.EndDate)
	if err != nil {
		return err
	}
	budget.SpentAmount = spent.Abs()

	remaining := budget.Amount.Sub(budget.SpentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	budget.RemainingAmount = remaining

	percentage := decimal.Zero
	if budget.Amount.IsPositive() {
		percentage = budget.SpentAmount.Div(budget.Amount).Mul(decimal.NewFromInt(100))
		if percentage.GreaterThan(decimal.NewFromInt(100)) {
			percentage = decimal.NewFromInt(100)
		}
	}
	budget.PercentageUsed = percentage.StringFixed(2)

	today := models.Today()
	if days := today.DaysUntil(budget.EndDate); days > 0 {
		budget.DaysRemaining = days
	} else {
		budget.DaysRemaining = 0
	}
	return nil
}

// checkBudgetOverlap rejects a budget whose period intersects another
// active budget for the same category.
func (s *Service) checkBudgetOverlap(ctx context.Context, budget *models.Budget, errs validation.Errors) error {
	overlapping, err := s.store.CountOverlappingBudgets(ctx, budget.UserID, budget.CategoryID, budget.StartDate, budget.EndDate, budget.ID)
	if err != nil {
		return err
	}
	if overlapping > 0 {
		errs.Add("category", "An active budget for this category already covers part of this period.")
	}
	return nil
}

// CreateBudget validates and stores a new budget. The category must be
// an expense category and the period must not overlap another active
// budget for it.
func (s *Service) CreateBudget(ctx context.Context, budget *models.Budget) error {
	errs := validation.ValidateBudget(budget)

	category, err := s.store.FindCategoryByID(ctx, budget.UserID, budget.CategoryID)
	if err != nil {
		if err == repository.ErrNotFound {
			errs.Add("category", "Category not found.")
		} else {
			return err
		}
	} else if category.Type != models.CategoryTypeExpense {
		errs.Add("category", "Budgets can only target expense categories.")
	}

	if !errs.Any() {
		if err := s.checkBudgetOverlap(ctx, budget, errs); err != nil {
			return err
		}
	}
	if errs.Any() {
		return errs
	}

	budget.IsActive = true
	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return err
	}
	if category != nil {
		budget.CategoryName = category.Name
	}
	s.log.Infof("Budget created: %s for user %d", budget.Name, budget.UserID)
	return s.annotateBudget(ctx, budget)
}

// ListBudgets returns the user's budgets with derived spend fields.
// The exceeded filter works on the derived spend, so it is applied
// here after annotation rather than in SQL.
func (s *Service) ListBudgets(ctx context.Context, userID int64, filter repository.BudgetFilter, exceededOnly bool) ([]*models.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	annotated := budgets[:0]
	for _, budget := range budgets {
		if err := s.annotateBudget(ctx, budget); err != nil {
			return nil, err
		}
		if exceededOnly && !budget.SpentAmount.GreaterThan(budget.Amount) {
			continue
		}
		annotated = append(annotated, budget)
	}
	return annotated, nil
}

// GetBudget returns one budget with derived spend fields.
func (s *Service) GetBudget(ctx context.Context, userID int64, id uuid.UUID) (*models.Budget, error) {
	budget, err := s.store.FindBudgetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.annotateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// BudgetUpdate is the partial-update payload for a budget.
type BudgetUpdate struct {
	Name       *string          `json:"budget_name"`
	Amount     *decimal.Decimal `json:"budget_amount"`
	PeriodType *string          `json:"period_type"`
	StartDate  *models.Date     `json:"start_date"`
	EndDate    *models.Date     `json:"end_date"`
}

// UpdateBudget applies a partial update, re-running the period and
// overlap checks against the merged result.
func (s *Service) UpdateBudget(ctx context.Context, userID int64, id uuid.UUID, in BudgetUpdate) (*models.Budget, error) {
	budget, err := s.store.FindBudgetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		budget.Name = *in.Name
	}
	if in.Amount != nil {
		budget.Amount = *in.Amount
	}
	if in.PeriodType != nil {
		budget.PeriodType = *in.PeriodType
	}
	if in.StartDate != nil {
		budget.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		budget.EndDate = *in.EndDate
	}

	errs := validation.ValidateBudget(budget)
	if !errs.Any() && budget.IsActive {
		if err := s.checkBudgetOverlap(ctx, budget, errs); err != nil {
			return nil, err
		}
	}
	if errs.Any() {
		return nil, errs
	}

	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		return nil, err
	}
	s.log.Infof("Budget updated: %s", budget.ID)
	if err := s.annotateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget removes a budget. Spend history is untouched since it
// lives on the ledger.
func (s *Service) DeleteBudget(ctx context.Context, userID int64, id uuid.UUID) error {
	if err := s.store.DeleteBudget(ctx, userID, id); err != nil {
		return err
	}
	s.log.Infof("Budget deleted: %s", id)
	return nil
}

// DeactivateBudget marks a budget inactive, freeing its period for
// other budgets on the same category.
func (s *Service) DeactivateBudget(ctx context.Context, userID int64, id uuid.UUID) (*models.Budget, error) {
	budget, err := s.store.FindBudgetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !budget.IsActive {
		return nil, conflictf("Budget %q is already inactive.", budget.Name)
	}
	budget.IsActive = false
	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		return nil, err
	}
	if err := s.annotateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// ReactivateBudget marks a budget active again. The overlap rule is
// re-checked: another budget may have claimed the period meanwhile.
func (s *Service) ReactivateBudget(ctx context.Context, userID int64, id uuid.UUID) (*models.Budget, error) {
	budget, err := s.store.FindBudgetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if budget.IsActive {
		return nil, conflictf("Budget %q is already active.", budget.Name)
	}

	errs := validation.Errors{}
	if err := s.checkBudgetOverlap(ctx, budget, errs); err != nil {
		return nil, err
	}
	if errs.Any() {
		return nil, conflictf("Cannot reactivate: an active budget for this category now covers part of this period.")
	}

	budget.IsActive = true
	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		return nil, err
	}
	if err := s.annotateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// BudgetProgress builds the detailed progress report: period position,
// pace against the straight-line expectation, a cumulative daily spend
// series and the latest transactions.
func (s *Service) BudgetProgress(ctx context.Context, userID int64, id uuid.UUID) (*models.BudgetProgress, error) {
	budget, err := s.store.FindBudgetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.annotateBudget(ctx, budget); err != nil {
		return nil, err
	}

	today := models.Today()
	totalDays := budget.StartDate.DaysUntil(budget.EndDate) + 1
	daysElapsed := budget.StartDate.DaysUntil(today) + 1
	if daysElapsed < 0 {
		daysElapsed = 0
	}
	if daysElapsed > totalDays {
		daysElapsed = totalDays
	}
	daysRemaining := today.DaysUntil(budget.EndDate) + 1
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	spent := budget.SpentAmount
	expected := budget.Amount.
		Div(decimal.NewFromInt(int64(totalDays))).
		Mul(decimal.NewFromInt(int64(daysElapsed))).
		Round(2)
	pace := decimal.Zero
	if expected.IsPositive() {
		pace = spent.Div(expected).Mul(decimal.NewFromInt(100)).Round(2)
	}
	allowance := decimal.Zero
	if daysRemaining > 0 && budget.Amount.GreaterThan(spent) {
		allowance = budget.Amount.Sub(spent).
			DivRound(decimal.NewFromInt(int64(daysRemaining)), 2)
	}

	percentage := decimal.Zero
	if budget.Amount.IsPositive() {
		percentage = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Round(2)
	}

	progress := &models.BudgetProgress{
		Budget: models.BudgetRef{
			ID:     budget.ID.String(),
			Name:   budget.Name,
			Amount: budget.Amount,
			Period: models.BudgetPeriod{
				Start:         budget.StartDate.String(),
				End:           budget.EndDate.String(),
				TotalDays:     totalDays,
				DaysElapsed:   daysElapsed,
				DaysRemaining: daysRemaining,
			},
		},
		Spending: models.BudgetSpending{
			TotalSpent:     spent,
			Remaining:      budget.RemainingAmount,
			PercentageUsed: percentage,
			ExpectedSpend:  expected,
			PacePercentage: pace,
			DailyAllowance: allowance,
		},
		Status:             budgetStatus(percentage),
		DailyBreakdown:     []models.CumulativeSpend{},
		RecentTransactions: []models.TransactionDigest{},
	}

	transactions, _, err := s.store.ListTransactions(ctx, userID, repository.TransactionFilter{
		CategoryID: budget.CategoryID,
		Type:       models.TransactionTypeExpense,
		DateFrom:   &budget.StartDate,
		DateTo:     &budget.EndDate,
	})
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		day := tx.Date.String()
		byDay[day] = byDay[day].Add(tx.Amount.Abs())
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	cumulative := decimal.Zero
	for _, day := range days {
		cumulative = cumulative.Add(byDay[day])
		progress.DailyBreakdown = append(progress.DailyBreakdown, models.CumulativeSpend{
			Date:        day,
			DailyAmount: byDay[day],
			Cumulative:  cumulative,
		})
	}

	for i, tx := range transactions {
		if i == 10 {
			break
		}
		progress.RecentTransactions = append(progress.RecentTransactions, models.TransactionDigest{
			ID:          tx.ID.String(),
			Description: tx.Description,
			Amount:      tx.Amount.Abs(),
			Date:        tx.Date.String(),
		})
	}

	return progress, nil
}

// BudgetOverview rolls up every budget active today plus the ones
// starting within 30 days and ending within 7.
func (s *Service) BudgetOverview(ctx context.Context, userID int64) (*models.BudgetOverview, error) {
	active := true
	budgets, err := s.store.ListBudgets(ctx, userID, repository.BudgetFilter{IsActive: &active})
	if err != nil {
		return nil, err
	}

	today := models.Today()
	overview := &models.BudgetOverview{
		ActiveBudgets:   []models.BudgetOverviewItem{},
		UpcomingBudgets: []models.UpcomingBudget{},
		ExpiringSoon:    []models.ExpiringBudget{},
	}

	for _, budget := range budgets {
		startsIn := today.DaysUntil(budget.StartDate)
		expiresIn := today.DaysUntil(budget.EndDate)

		if startsIn > 0 {
			if startsIn <= 30 {
				overview.UpcomingBudgets = append(overview.UpcomingBudgets, models.UpcomingBudget{
					ID:        budget.ID.String(),
					Name:      budget.Name,
					StartsIn:  startsIn,
					StartDate: budget.StartDate.String(),
					Amount:    budget.Amount,
				})
			}
			continue
		}
		if expiresIn < 0 {
			continue
		}

		if err := s.annotateBudget(ctx, budget); err != nil {
			return nil, err
		}
		percentage := decimal.Zero
		if budget.Amount.IsPositive() {
			percentage = budget.SpentAmount.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Round(2)
		}

		overview.Summary.TotalBudgeted = overview.Summary.TotalBudgeted.Add(budget.Amount)
		overview.Summary.TotalSpent = overview.Summary.TotalSpent.Add(budget.SpentAmount)
		overview.Summary.ActiveBudgetCount++

		overview.ActiveBudgets = append(overview.ActiveBudgets, models.BudgetOverviewItem{
			ID:         budget.ID.String(),
			Name:       budget.Name,
			Category:   budget.CategoryName,
			Amount:     budget.Amount,
			Spent:      budget.SpentAmount,
			Remaining:  budget.RemainingAmount,
			Percentage: percentage,
			Status:     budgetStatus(percentage),
			EndDate:    budget.EndDate.String(),
		})

		if expiresIn <= 7 {
			overview.ExpiringSoon = append(overview.ExpiringSoon, models.ExpiringBudget{
				ID:        budget.ID.String(),
				Name:      budget.Name,
				ExpiresIn: expiresIn,
				EndDate:   budget.EndDate.String(),
				Amount:    budget.Amount,
			})
		}
	}

	overview.Summary.TotalRemaining = overview.Summary.TotalBudgeted.Sub(overview.Summary.TotalSpent)
	if overview.Summary.TotalRemaining.IsNegative() {
		overview.Summary.TotalRemaining = decimal.Zero
	}
	if overview.Summary.TotalBudgeted.IsPositive() {
		overview.Summary.OverallPercentage = overview.Summary.TotalSpent.
			Div(overview.Summary.TotalBudgeted).Mul(decimal.NewFromInt(100)).Round(2)
	}

	sort.Slice(overview.UpcomingBudgets, func(i, j int) bool {
		return overview.UpcomingBudgets[i].StartsIn < overview.UpcomingBudgets[j].StartsIn
	})
	if len(overview.UpcomingBudgets) > 5 {
		overview.UpcomingBudgets = overview.UpcomingBudgets[:5]
	}
	sort.Slice(overview.ExpiringSoon, func(i, j int) bool {
		return overview.ExpiringSoon[i].ExpiresIn < overview.ExpiringSoon[j].ExpiresIn
	})
	if len(overview.ExpiringSoon) > 5 {
		overview.ExpiringSoon = overview.ExpiringSoon[:5]
	}

	return overview, nil
}

// Discretionary categories eligible for savings suggestions.
var savingsCandidates = []string{"Eating Out", "Entertainment", "Shopping", "Subscriptions"}

// BudgetRecommendations analyzes recent spending and suggests budgets
// for unbudgeted categories, raises for overrun ones, cuts for
// discretionary ones, and a review cadence based on how volatile the
// monthly spend is.
func (s *Service) BudgetRecommendations(ctx context.Context, userID int64, months int) (*models.BudgetRecommendations, error) {
	if months <= 0 {
		months = 3
	}
	today := models.Today()
	from := today.AddDays(-months * 30)

	transactions, _, err := s.store.ListTransactions(ctx, userID, repository.TransactionFilter{
		Type:     models.TransactionTypeExpense,
		DateFrom: &from,
	})
	if err != nil {
		return nil, err
	}

	active := true
	budgets, err := s.store.ListBudgets(ctx, userID, repository.BudgetFilter{IsActive: &active})
	if err != nil {
		return nil, err
	}
	budgetedCategories := make(map[uuid.UUID]bool)
	for _, budget := range budgets {
		budgetedCategories[budget.CategoryID] = true
	}

	type categorySpend struct {
		name  string
		total decimal.Decimal
	}
	byCategory := make(map[uuid.UUID]*categorySpend)
	byMonth := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		spend, ok := byCategory[tx.CategoryID]
		if !ok {
			spend = &categorySpend{name: tx.CategoryName}
			byCategory[tx.CategoryID] = spend
		}
		spend.total = spend.total.Add(tx.Amount.Abs())
		month := tx.Date.Format("2006-01")
		byMonth[month] = byMonth[month].Add(tx.Amount.Abs())
	}

	recs := &models.BudgetRecommendations{
		UnbudgetedCategories: []models.UnbudgetedCategory{},
		AdjustmentNeeded:     []models.BudgetAdjustment{},
		SavingsOpportunities: []models.SavingsOpportunity{},
		PeriodRecommendation: map[string]string{},
	}

	monthsDec := decimal.NewFromInt(int64(months))
	uplift := decimal.RequireFromString("1.1")
	highPriorityThreshold := decimal.NewFromInt(500)

	for categoryID, spend := range byCategory {
		if budgetedCategories[categoryID] || spend.total.IsZero() {
			continue
		}
		monthlyAverage := spend.total.DivRound(monthsDec, 2)
		priority := "medium"
		if monthlyAverage.GreaterThan(highPriorityThreshold) {
			priority = "high"
		}
		recs.UnbudgetedCategories = append(recs.UnbudgetedCategories, models.UnbudgetedCategory{
			Category:        spend.name,
			RecentSpending:  spend.total,
			SuggestedBudget: monthlyAverage.Mul(uplift).Round(2),
			Priority:        priority,
		})
	}
	sort.Slice(recs.UnbudgetedCategories, func(i, j int) bool {
		return recs.UnbudgetedCategories[i].RecentSpending.GreaterThan(recs.UnbudgetedCategories[j].RecentSpending)
	})

	overspendThreshold := decimal.NewFromInt(120)
	for _, budget := range budgets {
		if err := s.annotateBudget(ctx, budget); err != nil {
			return nil, err
		}
		if !budget.Amount.IsPositive() {
			continue
		}
		overspend := budget.SpentAmount.Div(budget.Amount).Mul(decimal.NewFromInt(100))
		if overspend.LessThanOrEqual(overspendThreshold) {
			continue
		}
		budgetMonths := int64((budget.StartDate.DaysUntil(budget.EndDate) + 1) / 30)
		if budgetMonths < 1 {
			budgetMonths = 1
		}
		recommended := budget.SpentAmount.
			DivRound(decimal.NewFromInt(budgetMonths), 2).
			Mul(uplift).Round(2)
		recs.AdjustmentNeeded = append(recs.AdjustmentNeeded, models.BudgetAdjustment{
			Category:            budget.CategoryName,
			CurrentBudget:       budget.Amount,
			ActualSpending:      budget.SpentAmount,
			RecommendedBudget:   recommended,
			OverspendPercentage: overspend.Round(2),
		})
	}

	savingsRate := decimal.RequireFromString("0.2")
	for _, spend := range byCategory {
		for _, candidate := range savingsCandidates {
			if spend.name != candidate || spend.total.IsZero() {
				continue
			}
			recs.SavingsOpportunities = append(recs.SavingsOpportunities, models.SavingsOpportunity{
				Category:         spend.name,
				CurrentSpending:  spend.total,
				PotentialSavings: spend.total.Mul(savingsRate).Round(2),
				Suggestion:       "Reducing " + spend.name + " spending by 20% would free up this amount.",
			})
		}
	}
	sort.Slice(recs.SavingsOpportunities, func(i, j int) bool {
		return recs.SavingsOpportunities[i].CurrentSpending.GreaterThan(recs.SavingsOpportunities[j].CurrentSpending)
	})
	if len(recs.SavingsOpportunities) > 3 {
		recs.SavingsOpportunities = recs.SavingsOpportunities[:3]
	}

	recs.PeriodRecommendation = recommendPeriod(byMonth)

	return recs, nil
}

// recommendPeriod picks a budgeting cadence from the volatility of the
// monthly spend: stable spend suits monthly budgets, moderately noisy
// spend suits quarterly smoothing, and highly erratic spend needs the
// tighter weekly loop.
func recommendPeriod(byMonth map[string]decimal.Decimal) map[string]string {
	if len(byMonth) < 2 {
		return map[string]string{
			"recommended_period": models.PeriodMonthly,
			"reason":             "Not enough history yet; monthly is a sensible default.",
		}
	}

	var totals []float64
	for _, total := range byMonth {
		f, _ := total.Float64()
		totals = append(totals, f)
	}
	var sum float64
	for _, t := range totals {
		sum += t
	}
	mean := sum / float64(len(totals))
	if mean == 0 {
		return map[string]string{
			"recommended_period": models.PeriodMonthly,
			"reason":             "No spending recorded in the window.",
		}
	}
	var variance float64
	for _, t := range totals {
		variance += (t - mean) * (t - mean)
	}
	variance /= float64(len(totals))
	cv := math.Sqrt(variance) / mean

	switch {
	case cv <= 0.15:
		return map[string]string{
			"recommended_period": models.PeriodMonthly,
			"reason":             "Spending is stable month to month.",
		}
	case cv <= 0.30:
		return map[string]string{
			"recommended_period": models.PeriodQuarterly,
			"reason":             "Spending varies moderately; quarterly budgets smooth it out.",
		}
	default:
		return map[string]string{
			"recommended_period": models.PeriodWeekly,
			"reason":             "Spending is volatile; a weekly budget gives tighter control.",
		}
	}
}

// CloneInput controls budget cloning. With no dates, the clone covers
// the period immediately following the source budget.
type CloneInput struct {
	StartDate *models.Date     `json:"start_date"`
	EndDate   *models.Date     `json:"end_date"`
	Amount    *decimal.Decimal `json:"budget_amount"`
}

// CloneBudget copies a budget onto the next period (or an explicit
// range), suffixing the name so the copies stay distinguishable.
func (s *Service) CloneBudget(ctx context.Context, userID int64, id uuid.UUID, in CloneInput) (*models.Budget, error) {
	original, err := s.store.FindBudgetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	start, end := nextPeriod(original)
	if in.StartDate != nil {
		start = *in.StartDate
	}
	if in.EndDate != nil {
		end = *in.EndDate
	}
	amount := original.Amount
	if in.Amount != nil {
		amount = *in.Amount
	}

	clone := &models.Budget{
		UserID:     userID,
		CategoryID: original.CategoryID,
		Name:       original.Name + " (Cloned)",
		Amount:     amount,
		PeriodType: original.PeriodType,
		StartDate:  start,
		EndDate:    end,
	}

	errs := validation.ValidateBudget(clone)
	if errs.Any() {
		return nil, errs
	}
	overlapErrs := validation.Errors{}
	if err := s.checkBudgetOverlap(ctx, clone, overlapErrs); err != nil {
		return nil, err
	}
	if overlapErrs.Any() {
		return nil, conflictf("An active budget for this category already covers %s to %s.", start, end)
	}

	clone.IsActive = true
	if err := s.store.CreateBudget(ctx, clone); err != nil {
		return nil, err
	}
	clone.CategoryName = original.CategoryName
	s.log.Infof("Budget cloned: %s -> %s", original.ID, clone.ID)
	if err := s.annotateBudget(ctx, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// nextPeriod returns the period immediately following a budget: the
// day after its end, spanning per its period type. Monthly clones snap
// to whole calendar months.
func nextPeriod(budget *models.Budget) (models.Date, models.Date) {
	start := budget.EndDate.AddDays(1)
	switch budget.PeriodType {
	case models.PeriodWeekly:
		return start, start.AddDays(6)
	case models.PeriodMonthly:
		monthEnd := models.Date{Time: models.NewDate(start.Year(), start.Month(), 1).Time.AddDate(0, 1, -1)}
		return start, monthEnd
	case models.PeriodQuarterly:
		return start, start.AddDays(90)
	default: // yearly
		return start, start.AddDays(364)
	}
}

// Bulk-create templates: category name to monthly amount.
var bulkBudgetTemplates = map[string][]struct {
	Category string
	Amount   decimal.Decimal
}{
	"essential": {
		{"Rent/Mortgage", decimal.NewFromInt(1500)},
		{"Groceries", decimal.NewFromInt(400)},
		{"Transport", decimal.NewFromInt(200)},
		{"Utilities", decimal.NewFromInt(150)},
		{"Council Tax", decimal.NewFromInt(150)},
	},
	"comprehensive": {
		{"Rent/Mortgage", decimal.NewFromInt(1500)},
		{"Groceries", decimal.NewFromInt(400)},
		{"Transport", decimal.NewFromInt(200)},
		{"Utilities", decimal.NewFromInt(150)},
		{"Council Tax", decimal.NewFromInt(150)},
		{"Entertainment", decimal.NewFromInt(200)},
		{"Eating Out", decimal.NewFromInt(300)},
		{"Shopping", decimal.NewFromInt(250)},
		{"Health & Fitness", decimal.NewFromInt(100)},
	},
}

// BulkCreateInput selects a template and an optional month to budget.
type BulkCreateInput struct {
	Template  string       `json:"template"`
	StartDate *models.Date `json:"start_date"`
}

// BulkCreateResult reports what a template application did.
type BulkCreateResult struct {
	Created []*models.Budget `json:"created"`
	Skipped []string         `json:"skipped"`
}

// BulkCreateBudgets applies a named template: one monthly budget per
// template category, covering the month of the start date. Categories
// the user lacks, or whose period is already budgeted, are skipped
// rather than failing the batch.
func (s *Service) BulkCreateBudgets(ctx context.Context, userID int64, in BulkCreateInput) (*BulkCreateResult, error) {
	template, ok := bulkBudgetTemplates[in.Template]
	if !ok {
		errs := validation.Errors{}
		errs.Add("template", "Template must be essential or comprehensive.")
		return nil, errs
	}

	today := models.Today()
	start := models.NewDate(today.Year(), today.Month(), 1)
	if in.StartDate != nil {
		start = models.NewDate(in.StartDate.Year(), in.StartDate.Month(), 1)
	}
	end := models.Date{Time: start.Time.AddDate(0, 1, -1)}

	result := &BulkCreateResult{Created: []*models.Budget{}, Skipped: []string{}}
	err := s.store.WithinTx(ctx, func(store repository.Store) error {
		for _, item := range template {
			category, err := store.FindCategoryByNameType(ctx, userID, item.Category, models.CategoryTypeExpense)
			if err != nil {
				if err == repository.ErrNotFound {
					result.Skipped = append(result.Skipped, item.Category+" (no such category)")
					continue
				}
				return err
			}
			overlapping, err := store.CountOverlappingBudgets(ctx, userID, category.ID, start, end, uuid.Nil)
			if err != nil {
				return err
			}
			if overlapping > 0 {
				result.Skipped = append(result.Skipped, item.Category+" (period already budgeted)")
				continue
			}

			budget := &models.Budget{
				UserID:     userID,
				CategoryID: category.ID,
				Name:       item.Category + " Budget",
				Amount:     item.Amount,
				PeriodType: models.PeriodMonthly,
				StartDate:  start,
				EndDate:    end,
				IsActive:   true,
			}
			if err := store.CreateBudget(ctx, budget); err != nil {
				return err
			}
			budget.CategoryName = category.Name
			result.Created = append(result.Created, budget)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, budget := range result.Created {
		if err := s.annotateBudget(ctx, budget); err != nil {
			return nil, err
		}
	}
	s.log.Infof("Bulk budget template %q for user %d: %d created, %d skipped",
		in.Template, userID, len(result.Created), len(result.Skipped))
	return result, nil
}
