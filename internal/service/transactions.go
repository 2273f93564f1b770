package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/budgetbox/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// checkTransactionRefs verifies the account and category belong to the
// user and agree with the transaction type, and that an expense leaves
// a non-credit account non-negative. reversed is an amount already in
// the balance that this write replaces; zero on create. Violations are
// folded into errs; the loaded records are returned for further
// checks. Runs after sign normalization, so expenses are negative.
func (s *Service) checkTransactionRefs(ctx context.Context, store repository.Store, tx *models.Transaction, reversed decimal.Decimal, errs validation.Errors) (*models.Account, *models.Category, error) {
	account, err := store.FindAccountByID(ctx, tx.UserID, tx.AccountID)
	if err != nil {
		if err == repository.ErrNotFound {
			errs.Add("bank_account", "Bank account not found.")
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if !account.IsActive {
		errs.Add("bank_account", "Cannot record transactions against an inactive account.")
	}
	if tx.Type == models.TransactionTypeExpense && !account.IsCredit() {
		if account.CurrentBalance.Sub(reversed).Add(tx.Amount).IsNegative() {
			errs.Add("transaction_amount", "Insufficient funds. This transaction would result in a negative balance.")
		}
	}

	category, err := store.FindCategoryByID(ctx, tx.UserID, tx.CategoryID)
	if err != nil {
		if err == repository.ErrNotFound {
			errs.Add("category", "Category not found.")
			return account, nil, nil
		}
		return nil, nil, err
	}
	if tx.Type != models.TransactionTypeTransfer && tx.Type != category.Type {
		errs.Add("category", fmt.Sprintf("A %s transaction requires a %s category.", tx.Type, tx.Type))
	}

	return account, category, nil
}

// CreateTransaction validates, stores and applies a new transaction.
// The insert and the balance update commit atomically.
func (s *Service) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	errs := validation.ValidateTransaction(tx)

	err := s.store.WithinTx(ctx, func(store repository.Store) error {
		if _, _, err := s.checkTransactionRefs(ctx, store, tx, decimal.Zero, errs); err != nil {
			return err
		}
		if errs.Any() {
			return errs
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			return err
		}
		return store.ApplyToAccountBalance(ctx, tx.AccountID, tx.Amount)
	})
	if err != nil {
		return err
	}

	s.log.Infof("Transaction created: %s %s on account %s", tx.Type, tx.Amount.StringFixed(2), tx.AccountID)
	s.invalidateUserCache(tx.UserID)
	return nil
}

// ListTransactions returns a filtered page of the user's transactions,
// newest first, plus the total match count.
func (s *Service) ListTransactions(ctx context.Context, userID int64, filter repository.TransactionFilter) ([]*models.Transaction, int, error) {
	return s.store.ListTransactions(ctx, userID, filter)
}

// GetTransaction returns one transaction owned by the user.
func (s *Service) GetTransaction(ctx context.Context, userID int64, id uuid.UUID) (*models.Transaction, error) {
	return s.store.FindTransactionByID(ctx, userID, id)
}

// TransactionUpdate is the partial-update payload for a transaction.
type TransactionUpdate struct {
	AccountID   *uuid.UUID       `json:"bank_account"`
	CategoryID  *uuid.UUID       `json:"category"`
	Description *string          `json:"transaction_description"`
	Type        *string          `json:"transaction_type"`
	Amount      *decimal.Decimal `json:"transaction_amount"`
	Date        *models.Date     `json:"transaction_date"`
	Note        *string          `json:"transaction_note"`
	Reference   *string          `json:"reference_number"`
	IsRecurring *bool            `json:"is_recurring"`
}

// UpdateTransaction applies a partial update and reconciles balances:
// when the account is unchanged only the amount delta is applied; when
// the transaction moves account, the old account is credited back and
// the new one debited, all atomically.
func (s *Service) UpdateTransaction(ctx context.Context, userID int64, id uuid.UUID, in TransactionUpdate) (*models.Transaction, error) {
	var updated *models.Transaction
	err := s.store.WithinTx(ctx, func(store repository.Store) error {
		tx, err := store.FindTransactionByID(ctx, userID, id)
		if err != nil {
			return err
		}
		oldAccount := tx.AccountID
		oldAmount := tx.Amount

		if in.AccountID != nil {
			tx.AccountID = *in.AccountID
		}
		if in.CategoryID != nil {
			tx.CategoryID = *in.CategoryID
		}
		if in.Description != nil {
			tx.Description = *in.Description
		}
		if in.Type != nil {
			tx.Type = *in.Type
		}
		if in.Amount != nil {
			tx.Amount = *in.Amount
		}
		if in.Date != nil {
			tx.Date = *in.Date
		}
		if in.Note != nil {
			tx.Note = *in.Note
		}
		if in.Reference != nil {
			tx.Reference = *in.Reference
		}
		if in.IsRecurring != nil {
			tx.IsRecurring = *in.IsRecurring
		}

		errs := validation.ValidateTransaction(tx)
		reversed := decimal.Zero
		if tx.AccountID == oldAccount {
			reversed = oldAmount
		}
		if _, _, err := s.checkTransactionRefs(ctx, store, tx, reversed, errs); err != nil {
			return err
		}
		if errs.Any() {
			return errs
		}

		if err := store.UpdateTransaction(ctx, tx); err != nil {
			return err
		}
		if tx.AccountID == oldAccount {
			delta := tx.Amount.Sub(oldAmount)
			if !delta.IsZero() {
				if err := store.ApplyToAccountBalance(ctx, tx.AccountID, delta); err != nil {
					return err
				}
			}
		} else {
			if err := store.ApplyToAccountBalance(ctx, oldAccount, oldAmount.Neg()); err != nil {
				return err
			}
			if err := store.ApplyToAccountBalance(ctx, tx.AccountID, tx.Amount); err != nil {
				return err
			}
		}
		updated = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Transaction updated: %s", id)
	s.invalidateUserCache(userID)
	return updated, nil
}

// DeleteTransaction removes a transaction and backs its amount out of
// the account balance, atomically.
func (s *Service) DeleteTransaction(ctx context.Context, userID int64, id uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(store repository.Store) error {
		tx, err := store.FindTransactionByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := store.DeleteTransaction(ctx, userID, id); err != nil {
			return err
		}
		return store.ApplyToAccountBalance(ctx, tx.AccountID, tx.Amount.Neg())
	})
	if err != nil {
		return err
	}

	s.log.Infof("Transaction deleted: %s", id)
	s.invalidateUserCache(userID)
	return nil
}

// DuplicateInput optionally overrides fields on a duplicated
// transaction. A zero date means today.
type DuplicateInput struct {
	Date   *models.Date     `json:"transaction_date"`
	Amount *decimal.Decimal `json:"transaction_amount"`
}

// DuplicateTransaction clones an existing transaction onto a new date
// with a "Copy of" description and no reference number. The clone's
// amount is applied to the account balance exactly once, by the same
// path every created transaction takes.
func (s *Service) DuplicateTransaction(ctx context.Context, userID int64, id uuid.UUID, in DuplicateInput) (*models.Transaction, error) {
	original, err := s.store.FindTransactionByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	clone := &models.Transaction{
		UserID:      userID,
		AccountID:   original.AccountID,
		CategoryID:  original.CategoryID,
		Description: "Copy of " + original.Description,
		Type:        original.Type,
		Amount:      original.Amount,
		Date:        models.Today(),
		Note:        original.Note,
		IsRecurring: original.IsRecurring,
	}
	if in.Date != nil {
		clone.Date = *in.Date
	}
	if in.Amount != nil {
		clone.Amount = *in.Amount
	}

	if err := s.CreateTransaction(ctx, clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// BulkCategorizeInput names the transactions to move and their target
// category.
type BulkCategorizeInput struct {
	TransactionIDs []uuid.UUID `json:"transaction_ids"`
	CategoryID     uuid.UUID   `json:"category_id"`
}

// BulkCategorize moves a set of transactions into one category. Every
// transaction must exist, belong to the user and be type-compatible
// with the target category, or nothing moves.
func (s *Service) BulkCategorize(ctx context.Context, userID int64, in BulkCategorizeInput) (int64, error) {
	errs := validation.Errors{}
	if len(in.TransactionIDs) == 0 {
		errs.Add("transaction_ids", "At least one transaction id is required.")
		return 0, errs
	}

	category, err := s.store.FindCategoryByID(ctx, userID, in.CategoryID)
	if err != nil {
		if err == repository.ErrNotFound {
			errs.Add("category_id", "Category not found.")
			return 0, errs
		}
		return 0, err
	}

	for _, txID := range in.TransactionIDs {
		tx, err := s.store.FindTransactionByID(ctx, userID, txID)
		if err != nil {
			if err == repository.ErrNotFound {
				errs.Add("transaction_ids", fmt.Sprintf("Transaction %s not found.", txID))
				continue
			}
			return 0, err
		}
		if tx.Type != models.TransactionTypeTransfer && tx.Type != category.Type {
			errs.Add("transaction_ids", fmt.Sprintf("Transaction %s is a %s and cannot move to a %s category.", txID, tx.Type, category.Type))
		}
	}
	if errs.Any() {
		return 0, errs
	}

	moved, err := s.store.UpdateTransactionsCategory(ctx, userID, in.TransactionIDs, category.ID)
	if err != nil {
		return 0, err
	}
	s.log.Infof("Bulk categorized %d transactions into %s", moved, category.Name)
	s.invalidateUserCache(userID)
	return moved, nil
}

// Statistics aggregates the user's transactions over a window,
// defaulting to the trailing 30 days. Results are cached briefly and
// invalidated by any transaction write.
func (s *Service) Statistics(ctx context.Context, userID int64, from, to *models.Date) (*models.Statistics, error) {
	today := models.Today()
	end := today
	if to != nil {
		end = *to
	}
	start := end.AddDays(-30)
	if from != nil {
		start = *from
	}

	// Only the default window is cached; explicit windows are cheap
	// enough to recompute and would fragment the key space.
	cacheable := from == nil && to == nil
	key := statisticsCacheKey(userID)
	if cacheable {
		if cached, ok := s.cache.Get(key); ok {
			if stats, ok := cached.(*models.Statistics); ok {
				return stats, nil
			}
		}
	}

	transactions, _, err := s.store.ListTransactions(ctx, userID, repository.TransactionFilter{
		DateFrom: &start,
		DateTo:   &end,
	})
	if err != nil {
		return nil, err
	}

	stats := &models.Statistics{
		Period:            models.StatsPeriod{From: start.String(), To: end.String()},
		CategoryBreakdown: []models.CategoryBreakdown{},
		AccountBreakdown:  []models.AccountBreakdown{},
		TopExpenses:       []models.TopExpense{},
	}

	type categoryAgg struct {
		total decimal.Decimal
		count int
	}
	type accountAgg struct {
		name     string
		income   decimal.Decimal
		expenses decimal.Decimal
		count    int
	}
	byCategory := make(map[string]*categoryAgg)
	byAccount := make(map[uuid.UUID]*accountAgg)
	expenses := make([]*models.Transaction, 0)

	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionTypeIncome:
			stats.Summary.TotalIncome = stats.Summary.TotalIncome.Add(tx.Amount)
		case models.TransactionTypeExpense:
			stats.Summary.TotalExpenses = stats.Summary.TotalExpenses.Add(tx.Amount.Abs())
			agg, ok := byCategory[tx.CategoryName]
			if !ok {
				agg = &categoryAgg{}
				byCategory[tx.CategoryName] = agg
			}
			agg.total = agg.total.Add(tx.Amount.Abs())
			agg.count++
			expenses = append(expenses, tx)
		}

		acc, ok := byAccount[tx.AccountID]
		if !ok {
			acc = &accountAgg{name: tx.AccountName}
			byAccount[tx.AccountID] = acc
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			acc.income = acc.income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			acc.expenses = acc.expenses.Add(tx.Amount.Abs())
		}
		acc.count++
	}

	stats.Summary.NetSavings = stats.Summary.TotalIncome.Sub(stats.Summary.TotalExpenses)
	stats.Summary.TransactionCount = len(transactions)
	if len(transactions) > 0 {
		var total decimal.Decimal
		for _, tx := range transactions {
			total = total.Add(tx.Amount.Abs())
		}
		stats.Summary.AverageTransaction = total.DivRound(decimal.NewFromInt(int64(len(transactions))), 2)
	}

	for name, agg := range byCategory {
		stats.CategoryBreakdown = append(stats.CategoryBreakdown, models.CategoryBreakdown{
			Category: name,
			Total:    agg.total,
			Count:    agg.count,
			Average:  agg.total.DivRound(decimal.NewFromInt(int64(agg.count)), 2),
		})
	}
	sort.Slice(stats.CategoryBreakdown, func(i, j int) bool {
		return stats.CategoryBreakdown[i].Total.GreaterThan(stats.CategoryBreakdown[j].Total)
	})

	for accountID, acc := range byAccount {
		stats.AccountBreakdown = append(stats.AccountBreakdown, models.AccountBreakdown{
			Account:          acc.name,
			AccountID:        accountID.String(),
			Income:           acc.income,
			Expenses:         acc.expenses,
			Net:              acc.income.Sub(acc.expenses),
			TransactionCount: acc.count,
		})
	}
	sort.Slice(stats.AccountBreakdown, func(i, j int) bool {
		return stats.AccountBreakdown[i].Account < stats.AccountBreakdown[j].Account
	})

	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Amount.Abs().GreaterThan(expenses[j].Amount.Abs())
	})
	for i, tx := range expenses {
		if i == 5 {
			break
		}
		stats.TopExpenses = append(stats.TopExpenses, models.TopExpense{
			Description: tx.Description,
			Amount:      tx.Amount.Abs(),
			Date:        tx.Date.String(),
			Category:    tx.CategoryName,
		})
	}

	if cacheable {
		s.cache.Set(key, stats, statisticsTTL)
	}
	return stats, nil
}

// MonthlySummary aggregates one calendar month with a per-day
// breakdown. Month defaulting to the current one is the caller's job.
func (s *Service) MonthlySummary(ctx context.Context, userID int64, year, month int) (*models.MonthlySummary, error) {
	errs := validation.Errors{}
	if month < 1 || month > 12 {
		errs.Add("month", "Month must be between 1 and 12.")
	}
	if year < 2000 || year > models.Today().Year()+1 {
		errs.Add("year", "Year is out of range.")
	}
	if errs.Any() {
		return nil, errs
	}

	start := models.NewDate(year, time.Month(month), 1)
	end := models.Date{Time: start.Time.AddDate(0, 1, -1)}

	transactions, _, err := s.store.ListTransactions(ctx, userID, repository.TransactionFilter{
		DateFrom: &start,
		DateTo:   &end,
	})
	if err != nil {
		return nil, err
	}

	summary := &models.MonthlySummary{
		Month:          start.Format("2006-01"),
		StartDate:      start.String(),
		EndDate:        end.String(),
		DailyBreakdown: []models.DailySummary{},
	}

	byDay := make(map[string]*models.DailySummary)
	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
		case models.TransactionTypeExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(tx.Amount.Abs())
		}
		if tx.IsRecurring {
			summary.RecurringCount++
		}

		day := tx.Date.String()
		d, ok := byDay[day]
		if !ok {
			d = &models.DailySummary{Date: day}
			byDay[day] = d
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			d.Income = d.Income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			d.Expenses = d.Expenses.Add(tx.Amount.Abs())
		}
		d.TransactionCount++
	}
	summary.TransactionCount = len(transactions)

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		d := byDay[day]
		d.Net = d.Income.Sub(d.Expenses)
		summary.DailyBreakdown = append(summary.DailyBreakdown, *d)
	}

	return summary, nil
}
