package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/budgetbox/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The full starter category set, applied by SetDefaultCategories.
var defaultCategorySet = []struct {
	Name string
	Type string
}{
	{"Salary", models.CategoryTypeIncome},
	{"Freelance", models.CategoryTypeIncome},
	{"Investments", models.CategoryTypeIncome},
	{"Other Income", models.CategoryTypeIncome},
	{"Rent/Mortgage", models.CategoryTypeExpense},
	{"Groceries", models.CategoryTypeExpense},
	{"Transport", models.CategoryTypeExpense},
	{"Utilities", models.CategoryTypeExpense},
	{"Entertainment", models.CategoryTypeExpense},
	{"Eating Out", models.CategoryTypeExpense},
	{"Health & Fitness", models.CategoryTypeExpense},
	{"Other Expense", models.CategoryTypeExpense},
}

// CreateCategory validates and stores a new category. The (name, type)
// pair must be unique per user, ignoring case.
func (s *Service) CreateCategory(ctx context.Context, category *models.Category) error {
	errs := validation.ValidateCategory(category)
	if !errs.Any() {
		inUse, err := s.store.CategoryNameInUse(ctx, category.UserID, category.Name, category.Type, uuid.Nil)
		if err != nil {
			return err
		}
		if inUse {
			errs.Add("category_name", fmt.Sprintf("You already have a %s category named %q.", category.Type, category.Name))
		}
	}
	if errs.Any() {
		return errs
	}

	category.IsActive = true
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return err
	}
	s.log.Infof("Category created: %s (%s) for user %d", category.Name, category.Type, category.UserID)
	return nil
}

// ListCategories returns the user's categories with transaction counts.
func (s *Service) ListCategories(ctx context.Context, userID int64, filter repository.CategoryFilter) ([]*models.Category, error) {
	return s.store.ListCategories(ctx, userID, filter)
}

// GetCategory returns one category owned by the user.
func (s *Service) GetCategory(ctx context.Context, userID int64, id uuid.UUID) (*models.Category, error) {
	return s.store.FindCategoryByID(ctx, userID, id)
}

// CategoryUpdate is the partial-update payload for a category. The
// type is immutable once transactions reference the category.
type CategoryUpdate struct {
	Name     *string `json:"category_name"`
	IsActive *bool   `json:"is_active"`
}

// UpdateCategory applies a partial update.
func (s *Service) UpdateCategory(ctx context.Context, userID int64, id uuid.UUID, in CategoryUpdate) (*models.Category, error) {
	category, err := s.store.FindCategoryByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		category.Name = *in.Name
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}

	errs := validation.ValidateCategory(category)
	if !errs.Any() && in.Name != nil {
		inUse, err := s.store.CategoryNameInUse(ctx, userID, category.Name, category.Type, category.ID)
		if err != nil {
			return nil, err
		}
		if inUse {
			errs.Add("category_name", fmt.Sprintf("You already have a %s category named %q.", category.Type, category.Name))
		}
	}
	if errs.Any() {
		return nil, errs
	}

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	s.log.Infof("Category updated: %s", category.ID)
	return category, nil
}

// DeleteCategory removes a category. Default categories and categories
// with recorded transactions cannot be deleted.
func (s *Service) DeleteCategory(ctx context.Context, userID int64, id uuid.UUID) error {
	category, err := s.store.FindCategoryByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if category.IsDefault {
		return conflictf("Default categories cannot be deleted. Deactivate %q instead.", category.Name)
	}
	count, err := s.store.CountCategoryTransactions(ctx, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return conflictf("Cannot delete a category with %d transactions. Reassign them first.", count)
	}
	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	s.log.Infof("Category deleted: %s", id)
	return nil
}

// CategoryUsage reports a category's usage over the trailing window:
// totals, a per-month breakdown and the most recent transactions.
func (s *Service) CategoryUsage(ctx context.Context, userID int64, id uuid.UUID, days int) (*models.CategoryUsage, error) {
	if days <= 0 {
		days = 90
	}
	category, err := s.store.FindCategoryByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	today := models.Today()
	from := today.AddDays(-days)
	transactions, _, err := s.store.ListTransactions(ctx, userID, repository.TransactionFilter{
		CategoryID: category.ID,
		DateFrom:   &from,
	})
	if err != nil {
		return nil, err
	}

	usage := &models.CategoryUsage{
		Category: models.CategoryRef{
			ID:   category.ID.String(),
			Name: category.Name,
			Type: category.Type,
		},
		Period: models.UsagePeriod{
			Days:      days,
			StartDate: from.String(),
			EndDate:   today.String(),
		},
		MonthlyBreakdown:   []models.MonthlyUsage{},
		RecentTransactions: []models.TransactionDigest{},
	}

	total := decimal.Zero
	byMonth := make(map[string]*models.MonthlyUsage)
	for _, tx := range transactions {
		amount := tx.Amount.Abs()
		total = total.Add(amount)

		month := tx.Date.Format("2006-01")
		m, ok := byMonth[month]
		if !ok {
			m = &models.MonthlyUsage{Month: month}
			byMonth[month] = m
		}
		m.Total = m.Total.Add(amount)
		m.Count++
	}

	usage.Summary = models.UsageSummary{
		TotalAmount:      total,
		TransactionCount: len(transactions),
		IsActive:         category.IsActive,
		IsDefault:        category.IsDefault,
	}
	if len(transactions) > 0 {
		usage.Summary.AverageAmount = total.DivRound(decimal.NewFromInt(int64(len(transactions))), 2)
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)
	for _, month := range months {
		m := byMonth[month]
		m.Average = m.Total.DivRound(decimal.NewFromInt(int64(m.Count)), 2)
		usage.MonthlyBreakdown = append(usage.MonthlyBreakdown, *m)
	}

	// Transactions list newest first already.
	for i, tx := range transactions {
		if i == 10 {
			break
		}
		usage.RecentTransactions = append(usage.RecentTransactions, models.TransactionDigest{
			ID:          tx.ID.String(),
			Description: tx.Description,
			Amount:      tx.Amount.Abs(),
			Date:        tx.Date.String(),
		})
	}

	return usage, nil
}

// SetDefaultCategories provisions the full starter category set,
// skipping any name/type pair the user already has. Idempotent.
func (s *Service) SetDefaultCategories(ctx context.Context, userID int64) (int, error) {
	created := 0
	err := s.store.WithinTx(ctx, func(store repository.Store) error {
		for _, c := range defaultCategorySet {
			inUse, err := store.CategoryNameInUse(ctx, userID, c.Name, c.Type, uuid.Nil)
			if err != nil {
				return err
			}
			if inUse {
				continue
			}
			category := &models.Category{
				UserID:    userID,
				Name:      c.Name,
				Type:      c.Type,
				IsDefault: true,
				IsActive:  true,
			}
			if err := store.CreateCategory(ctx, category); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Infof("Default categories provisioned for user %d: %d created", userID, created)
	return created, nil
}

// ReassignCategory moves every transaction from one category to
// another of the same type, then deactivates the source. Returns how
// many transactions moved.
func (s *Service) ReassignCategory(ctx context.Context, userID int64, fromID, toID uuid.UUID) (int64, error) {
	from, err := s.store.FindCategoryByID(ctx, userID, fromID)
	if err != nil {
		return 0, err
	}
	to, err := s.store.FindCategoryByID(ctx, userID, toID)
	if err != nil {
		return 0, err
	}

	errs := validation.Errors{}
	if from.ID == to.ID {
		errs.Add("target_category", "Source and target categories must differ.")
	}
	if from.Type != to.Type {
		errs.Add("target_category", fmt.Sprintf("Target category must also be of type %s.", from.Type))
	}
	if errs.Any() {
		return 0, errs
	}

	var moved int64
	err = s.store.WithinTx(ctx, func(store repository.Store) error {
		moved, err = store.ReassignTransactions(ctx, userID, from.ID, to.ID)
		if err != nil {
			return err
		}
		from.IsActive = false
		return store.UpdateCategory(ctx, from)
	})
	if err != nil {
		return 0, err
	}

	s.log.Infof("Reassigned %d transactions from %s to %s", moved, from.Name, to.Name)
	s.invalidateUserCache(userID)
	return moved, nil
}
