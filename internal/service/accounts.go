package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/budgetbox/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Name of the auto-created category that transfer legs are filed under.
const transferCategoryName = "Transfer"

// CreateAccount validates and stores a new bank account.
func (s *Service) CreateAccount(ctx context.Context, account *models.Account) error {
	if errs := validation.ValidateAccount(account); errs.Any() {
		return errs
	}
	account.IsActive = true
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return err
	}
	s.log.Infof("Account created: %s (%s) for user %d", account.Name, account.Type, account.UserID)
	s.invalidateUserCache(account.UserID)
	return nil
}

// ListAccounts returns the user's accounts with transaction counts.
func (s *Service) ListAccounts(ctx context.Context, userID int64, filter repository.AccountFilter) ([]*models.Account, error) {
	return s.store.ListAccounts(ctx, userID, filter)
}

// GetAccount returns one account owned by the user.
func (s *Service) GetAccount(ctx context.Context, userID int64, id uuid.UUID) (*models.Account, error) {
	return s.store.FindAccountByID(ctx, userID, id)
}

// AccountUpdate is the partial-update payload for an account. The
// balance is never writable here; it only moves with transactions.
type AccountUpdate struct {
	Name     *string `json:"account_name"`
	BankName *string `json:"bank_name"`
	IsActive *bool   `json:"is_active"`
}

// UpdateAccount applies a partial update. Deactivation is refused
// while the account still carries a balance.
func (s *Service) UpdateAccount(ctx context.Context, userID int64, id uuid.UUID, in AccountUpdate) (*models.Account, error) {
	account, err := s.store.FindAccountByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		account.Name = *in.Name
	}
	if in.BankName != nil {
		account.BankName = *in.BankName
	}
	if in.IsActive != nil {
		if !*in.IsActive && !account.CurrentBalance.IsZero() {
			return nil, conflictf("Cannot deactivate an account with a non-zero balance. Transfer the remaining %s %s first.",
				account.CurrencySymbol(), account.CurrentBalance.StringFixed(2))
		}
		account.IsActive = *in.IsActive
	}

	if errs := validation.ValidateAccount(account); errs.Any() {
		return nil, errs
	}
	if err := s.store.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	s.log.Infof("Account updated: %s", account.ID)
	return account, nil
}

// DeleteAccount removes an account. Accounts with recorded
// transactions cannot be deleted, only deactivated.
func (s *Service) DeleteAccount(ctx context.Context, userID int64, id uuid.UUID) error {
	account, err := s.store.FindAccountByID(ctx, userID, id)
	if err != nil {
		return err
	}
	count, err := s.store.CountAccountTransactions(ctx, account.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return conflictf("Cannot delete an account with %d transactions. Deactivate it instead.", count)
	}
	if err := s.store.DeleteAccount(ctx, userID, id); err != nil {
		return err
	}
	s.log.Infof("Account deleted: %s", id)
	s.invalidateUserCache(userID)
	return nil
}

// AccountSummary builds the portfolio view: per-currency totals over
// active accounts, per-account flows for the current calendar month,
// and the latest activity.
func (s *Service) AccountSummary(ctx context.Context, userID int64) (*models.AccountSummary, error) {
	accounts, err := s.store.ListAccounts(ctx, userID, repository.AccountFilter{})
	if err != nil {
		return nil, err
	}

	today := models.Today()
	monthStart := models.NewDate(today.Year(), today.Month(), 1)
	monthly, _, err := s.store.ListTransactions(ctx, userID, repository.TransactionFilter{DateFrom: &monthStart})
	if err != nil {
		return nil, err
	}

	type flows struct {
		income   decimal.Decimal
		expenses decimal.Decimal
	}
	monthlyByAccount := make(map[uuid.UUID]flows)
	for _, tx := range monthly {
		f := monthlyByAccount[tx.AccountID]
		switch tx.Type {
		case models.TransactionTypeIncome:
			f.income = f.income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			f.expenses = f.expenses.Add(tx.Amount.Abs())
		}
		monthlyByAccount[tx.AccountID] = f
	}

	summary := &models.AccountSummary{
		Summary: models.AccountSummaryTotals{
			TotalAccounts:    len(accounts),
			TotalsByCurrency: make(map[string]models.CurrencyTotal),
			PrimaryCurrency:  models.CurrencyGBP,
		},
		Accounts:       make([]models.AccountDetail, 0, len(accounts)),
		RecentActivity: []models.RecentActivityRecord{},
	}
	for _, account := range accounts {
		if !account.IsActive {
			continue
		}
		summary.Summary.ActiveAccounts++

		total := summary.Summary.TotalsByCurrency[account.Currency]
		if total.ByType == nil {
			total.ByType = make(map[string]decimal.Decimal)
		}
		total.Total = total.Total.Add(account.CurrentBalance)
		total.ByType[account.Type] = total.ByType[account.Type].Add(account.CurrentBalance)
		summary.Summary.TotalsByCurrency[account.Currency] = total

		f := monthlyByAccount[account.ID]
		summary.Accounts = append(summary.Accounts, models.AccountDetail{
			ID:               account.ID.String(),
			Name:             account.Name,
			Bank:             account.BankName,
			Type:             account.Type,
			Balance:          account.CurrentBalance,
			Currency:         account.Currency,
			TransactionCount: account.TransactionCount,
			MonthlyIncome:    f.income,
			MonthlyExpenses:  f.expenses,
			MonthlyNet:       f.income.Sub(f.expenses),
		})
	}

	recent, _, err := s.store.ListTransactions(ctx, userID, repository.TransactionFilter{Limit: 10})
	if err != nil {
		return nil, err
	}
	for _, tx := range recent {
		summary.RecentActivity = append(summary.RecentActivity, models.RecentActivityRecord{
			Description: tx.Description,
			Amount:      tx.Amount,
			Date:        tx.Date.String(),
			Account:     tx.AccountName,
		})
	}

	return summary, nil
}

// AccountStatement builds a statement over the trailing window of the
// given number of days. The opening balance is reconstructed by
// backing the window's net change out of the stored balance, so the
// running balances always close at the account's current balance.
func (s *Service) AccountStatement(ctx context.Context, userID int64, accountID uuid.UUID, days int) (*models.Statement, error) {
	if days <= 0 {
		days = 30
	}
	account, err := s.store.FindAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	today := models.Today()
	from := today.AddDays(-days)
	windowSum, err := s.store.SumAccountTransactions(ctx, account.ID, &from)
	if err != nil {
		return nil, err
	}
	opening := account.CurrentBalance.Sub(windowSum)

	transactions, _, err := s.store.ListTransactions(ctx, userID, repository.TransactionFilter{
		AccountID: account.ID,
		DateFrom:  &from,
	})
	if err != nil {
		return nil, err
	}
	// Oldest first so running balances accumulate forward.
	sort.SliceStable(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date.Time) {
			return transactions[i].Date.Before(transactions[j].Date.Time)
		}
		return transactions[i].CreatedAt.Before(transactions[j].CreatedAt)
	})

	statement := &models.Statement{
		Account: models.StatementAccount{
			ID:            account.ID.String(),
			Name:          account.Name,
			Bank:          account.BankName,
			Type:          account.Type,
			AccountNumber: account.NumberMasked,
		},
		Period: models.StatementPeriod{
			StartDate: from.String(),
			EndDate:   today.String(),
			Days:      days,
		},
		Transactions: make([]models.StatementLine, 0, len(transactions)),
	}

	running := opening
	for _, tx := range transactions {
		running = running.Add(tx.Amount)
		line := models.StatementLine{
			Date:        tx.Date.String(),
			Description: tx.Description,
			Category:    tx.CategoryName,
			Amount:      tx.Amount,
			Balance:     running,
			Type:        tx.Type,
			Reference:   tx.Reference,
		}
		statement.Transactions = append(statement.Transactions, line)

		if tx.Amount.IsPositive() {
			statement.Summary.TotalCredits = statement.Summary.TotalCredits.Add(tx.Amount)
		} else {
			statement.Summary.TotalDebits = statement.Summary.TotalDebits.Add(tx.Amount.Abs())
		}
	}
	statement.Summary.NetChange = windowSum
	statement.Summary.TransactionCount = len(transactions)
	statement.Balances = models.StatementBalance{
		Opening: opening,
		Closing: running,
		Current: account.CurrentBalance,
	}

	return statement, nil
}

// TransferInput is the payload for a transfer between two accounts.
type TransferInput struct {
	ToAccount   uuid.UUID       `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// TransferResult reports both legs of a completed transfer.
type TransferResult struct {
	Reference   string              `json:"reference"`
	Outgoing    *models.Transaction `json:"outgoing"`
	Incoming    *models.Transaction `json:"incoming"`
	FromBalance decimal.Decimal     `json:"from_balance"`
	ToBalance   decimal.Decimal     `json:"to_balance"`
}

// Transfer moves money between two of the user's accounts by recording
// a paired expense and income leg sharing one reference. Both legs and
// both balance updates commit atomically or not at all.
func (s *Service) Transfer(ctx context.Context, userID int64, fromID uuid.UUID, in TransferInput) (*TransferResult, error) {
	from, err := s.store.FindAccountByID(ctx, userID, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.store.FindAccountByID(ctx, userID, in.ToAccount)
	if err != nil {
		return nil, err
	}

	errs := validation.Errors{}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		errs.Add("amount", "Transfer amount must be positive.")
	}
	if in.Amount.GreaterThan(validation.MaxTransactionAmount) {
		errs.Add("amount", "Transfer amount exceeds maximum allowed value.")
	}
	if from.ID == to.ID {
		errs.Add("to_account", "Cannot transfer to the same account.")
	}
	if from.Currency != to.Currency {
		errs.Add("to_account", "Cannot transfer between accounts with different currencies.")
	}
	if !from.IsActive || !to.IsActive {
		errs.Add("to_account", "Both accounts must be active.")
	}
	if errs.Any() {
		return nil, errs
	}
	if !from.IsCredit() && from.CurrentBalance.LessThan(in.Amount) {
		return nil, conflictf("Insufficient funds: available balance is %s.", from.CurrentBalance.StringFixed(2))
	}

	description := in.Description
	if description == "" {
		description = "Account transfer"
	}
	reference := fmt.Sprintf("TRF-%d", time.Now().UnixNano())
	today := models.Today()

	result := &TransferResult{Reference: reference}
	err = s.store.WithinTx(ctx, func(store repository.Store) error {
		category, err := s.transferCategory(ctx, store, userID)
		if err != nil {
			return err
		}

		outgoing := &models.Transaction{
			UserID:      userID,
			AccountID:   from.ID,
			CategoryID:  category.ID,
			Description: fmt.Sprintf("Transfer to %s: %s", to.Name, description),
			Type:        models.TransactionTypeTransfer,
			Amount:      in.Amount.Neg(),
			Date:        today,
			Reference:   reference,
		}
		if err := store.CreateTransaction(ctx, outgoing); err != nil {
			return err
		}
		if err := store.ApplyToAccountBalance(ctx, from.ID, outgoing.Amount); err != nil {
			return err
		}

		incoming := &models.Transaction{
			UserID:      userID,
			AccountID:   to.ID,
			CategoryID:  category.ID,
			Description: fmt.Sprintf("Transfer from %s: %s", from.Name, description),
			Type:        models.TransactionTypeTransfer,
			Amount:      in.Amount,
			Date:        today,
			Reference:   reference,
		}
		if err := store.CreateTransaction(ctx, incoming); err != nil {
			return err
		}
		if err := store.ApplyToAccountBalance(ctx, to.ID, incoming.Amount); err != nil {
			return err
		}

		result.Outgoing = outgoing
		result.Incoming = incoming
		result.FromBalance = from.CurrentBalance.Add(outgoing.Amount)
		result.ToBalance = to.CurrentBalance.Add(incoming.Amount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infof("Transfer %s: %s from %s to %s", reference, in.Amount.StringFixed(2), from.Name, to.Name)
	s.invalidateUserCache(userID)
	return result, nil
}

// transferCategory finds or creates the user's transfer category.
func (s *Service) transferCategory(ctx context.Context, store repository.Store, userID int64) (*models.Category, error) {
	category, err := store.FindCategoryByNameType(ctx, userID, transferCategoryName, models.CategoryTypeExpense)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	category = &models.Category{
		UserID:    userID,
		Name:      transferCategoryName,
		Type:      models.CategoryTypeExpense,
		IsDefault: true,
		IsActive:  true,
	}
	if err := store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
