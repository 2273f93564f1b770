package service

import (
	"context"
	"testing"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTransactionAppliesBalance(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "alice")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	groceries := findCategory(t, store, user.ID, "Groceries")

	tx := &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Weekly shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("75.50"),
		Date:        models.Today(),
	}
	require.NoError(t, svc.CreateTransaction(context.Background(), tx))

	assert.True(t, tx.Amount.Equal(mustDecimal("-75.50")), "expense amount stored negative, got %s", tx.Amount)
	stored := store.accounts[account.ID]
	assert.True(t, stored.CurrentBalance.Equal(mustDecimal("924.50")), "balance %s", stored.CurrentBalance)
}

func TestCreateTransactionNormalizesIncomeSign(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "bob")
	account := newAccount(t, svc, user.ID, "Current", "0")
	salary := findCategory(t, store, user.ID, "Salary")

	tx := &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  salary.ID,
		Description: "Refund posted as negative",
		Type:        models.TransactionTypeIncome,
		Amount:      mustDecimal("-200"),
		Date:        models.Today(),
	}
	require.NoError(t, svc.CreateTransaction(context.Background(), tx))

	assert.True(t, tx.Amount.Equal(mustDecimal("200")))
	assert.True(t, store.accounts[account.ID].CurrentBalance.Equal(mustDecimal("200")))
}

func TestCreateTransactionInsufficientFunds(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "alice")
	account := newAccount(t, svc, user.ID, "Current", "100")
	groceries := findCategory(t, store, user.ID, "Groceries")

	err := svc.CreateTransaction(context.Background(), &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Big shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("500"),
		Date:        models.Today(),
	})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "transaction_amount")
	assert.True(t, store.accounts[account.ID].CurrentBalance.Equal(mustDecimal("100")),
		"balance untouched on rejection")
	assert.Empty(t, store.transactions)

	// Spending exactly the balance is allowed.
	require.NoError(t, svc.CreateTransaction(context.Background(), &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Last penny",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("100"),
		Date:        models.Today(),
	}))
	assert.True(t, store.accounts[account.ID].CurrentBalance.IsZero())
}

func TestCreateTransactionCreditAccountMayGoNegative(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "alice")
	card := &models.Account{
		UserID:       user.ID,
		Name:         "Credit Card",
		Type:         models.AccountTypeCredit,
		BankName:     "Monzo",
		NumberMasked: "****9876",
		Currency:     models.CurrencyGBP,
	}
	require.NoError(t, svc.CreateAccount(context.Background(), card))
	groceries := findCategory(t, store, user.ID, "Groceries")

	require.NoError(t, svc.CreateTransaction(context.Background(), &models.Transaction{
		UserID:      user.ID,
		AccountID:   card.ID,
		CategoryID:  groceries.ID,
		Description: "On the card",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("500"),
		Date:        models.Today(),
	}))
	assert.True(t, store.accounts[card.ID].CurrentBalance.Equal(mustDecimal("-500")))
}

func TestUpdateTransactionInsufficientFunds(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "alice")
	account := newAccount(t, svc, user.ID, "Current", "100")
	groceries := findCategory(t, store, user.ID, "Groceries")

	tx := &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("80"),
		Date:        models.Today(),
	}
	require.NoError(t, svc.CreateTransaction(context.Background(), tx))
	require.True(t, store.accounts[account.ID].CurrentBalance.Equal(mustDecimal("20")))

	// Raising the amount checks against the balance net of the old
	// amount: 100 available, so 150 is refused and 100 is allowed.
	tooMuch := mustDecimal("150")
	_, err := svc.UpdateTransaction(context.Background(), user.ID, tx.ID, TransactionUpdate{Amount: &tooMuch})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "transaction_amount")
	assert.True(t, store.accounts[account.ID].CurrentBalance.Equal(mustDecimal("20")))

	allOfIt := mustDecimal("100")
	_, err = svc.UpdateTransaction(context.Background(), user.ID, tx.ID, TransactionUpdate{Amount: &allOfIt})
	require.NoError(t, err)
	assert.True(t, store.accounts[account.ID].CurrentBalance.IsZero())
}

func TestCreateTransactionCategoryTypeMismatch(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "carol")
	account := newAccount(t, svc, user.ID, "Current", "100")
	salary := findCategory(t, store, user.ID, "Salary")

	err := svc.CreateTransaction(context.Background(), &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  salary.ID,
		Description: "Wrong category",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("10"),
		Date:        models.Today(),
	})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "category")
	assert.True(t, store.accounts[account.ID].CurrentBalance.Equal(mustDecimal("100")), "balance untouched on rejection")
	assert.Empty(t, store.transactions)
}

func TestDeleteTransactionRestoresBalance(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "dave")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	groceries := findCategory(t, store, user.ID, "Groceries")

	tx := &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Weekly shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("75.50"),
		Date:        models.Today(),
	}
	require.NoError(t, svc.CreateTransaction(context.Background(), tx))
	require.NoError(t, svc.DeleteTransaction(context.Background(), user.ID, tx.ID))

	assert.True(t, store.accounts[account.ID].CurrentBalance.Equal(mustDecimal("1000")),
		"create then delete must leave the balance where it started")
}

func TestUpdateTransactionAmountDelta(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "erin")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	groceries := findCategory(t, store, user.ID, "Groceries")

	tx := &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Weekly shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("100"),
		Date:        models.Today(),
	}
	require.NoError(t, svc.CreateTransaction(context.Background(), tx))
	require.True(t, store.accounts[account.ID].CurrentBalance.Equal(mustDecimal("900")))

	newAmount := mustDecimal("60")
	_, err := svc.UpdateTransaction(context.Background(), user.ID, tx.ID, TransactionUpdate{Amount: &newAmount})
	require.NoError(t, err)

	assert.True(t, store.accounts[account.ID].CurrentBalance.Equal(mustDecimal("940")),
		"only the 40 delta moves, got %s", store.accounts[account.ID].CurrentBalance)
}

func TestUpdateTransactionMovesAccounts(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "frank")
	first := newAccount(t, svc, user.ID, "First", "500")
	second := newAccount(t, svc, user.ID, "Second", "500")
	groceries := findCategory(t, store, user.ID, "Groceries")

	tx := &models.Transaction{
		UserID:      user.ID,
		AccountID:   first.ID,
		CategoryID:  groceries.ID,
		Description: "Weekly shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("100"),
		Date:        models.Today(),
	}
	require.NoError(t, svc.CreateTransaction(context.Background(), tx))

	_, err := svc.UpdateTransaction(context.Background(), user.ID, tx.ID, TransactionUpdate{AccountID: &second.ID})
	require.NoError(t, err)

	assert.True(t, store.accounts[first.ID].CurrentBalance.Equal(mustDecimal("500")),
		"old account credited back, got %s", store.accounts[first.ID].CurrentBalance)
	assert.True(t, store.accounts[second.ID].CurrentBalance.Equal(mustDecimal("400")),
		"new account debited, got %s", store.accounts[second.ID].CurrentBalance)
}

func TestDuplicateTransactionAppliesAmountOnce(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "grace")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	groceries := findCategory(t, store, user.ID, "Groceries")

	tx := &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Weekly shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("100"),
		Date:        models.Today().AddDays(-7),
		Reference:   "REF-1",
	}
	require.NoError(t, svc.CreateTransaction(context.Background(), tx))
	require.True(t, store.accounts[account.ID].CurrentBalance.Equal(mustDecimal("900")))

	clone, err := svc.DuplicateTransaction(context.Background(), user.ID, tx.ID, DuplicateInput{})
	require.NoError(t, err)

	assert.Equal(t, "Copy of Weekly shop", clone.Description)
	assert.Empty(t, clone.Reference, "reference numbers stay unique and are not cloned")
	assert.Equal(t, models.Today().String(), clone.Date.String())
	assert.True(t, store.accounts[account.ID].CurrentBalance.Equal(mustDecimal("800")),
		"the clone's amount applies exactly once, got %s", store.accounts[account.ID].CurrentBalance)
}

func TestBulkCategorizeAllOrNothing(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "heidi")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	groceries := findCategory(t, store, user.ID, "Groceries")
	entertainment := findCategory(t, store, user.ID, "Entertainment")

	tx := &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Weekly shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("50"),
		Date:        models.Today(),
	}
	require.NoError(t, svc.CreateTransaction(context.Background(), tx))

	// One real id plus one unknown id: the whole request fails.
	_, err := svc.BulkCategorize(context.Background(), user.ID, BulkCategorizeInput{
		TransactionIDs: []uuid.UUID{tx.ID, uuid.New()},
		CategoryID:     entertainment.ID,
	})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, groceries.ID, store.transactions[tx.ID].CategoryID, "nothing moved")

	moved, err := svc.BulkCategorize(context.Background(), user.ID, BulkCategorizeInput{
		TransactionIDs: []uuid.UUID{tx.ID},
		CategoryID:     entertainment.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)
	assert.Equal(t, entertainment.ID, store.transactions[tx.ID].CategoryID)
}

func TestBulkCategorizeRejectsTypeMismatch(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "ivan")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	groceries := findCategory(t, store, user.ID, "Groceries")
	salary := findCategory(t, store, user.ID, "Salary")

	tx := &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Weekly shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("50"),
		Date:        models.Today(),
	}
	require.NoError(t, svc.CreateTransaction(context.Background(), tx))

	_, err := svc.BulkCategorize(context.Background(), user.ID, BulkCategorizeInput{
		TransactionIDs: []uuid.UUID{tx.ID},
		CategoryID:     salary.ID,
	})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "transaction_ids")
}

func TestCrossTenantTransactionHidden(t *testing.T) {
	svc, store := newTestService(t)
	owner := registerUser(t, svc, "owner")
	intruder := registerUser(t, svc, "intruder")
	account := newAccount(t, svc, owner.ID, "Current", "1000")
	groceries := findCategory(t, store, owner.ID, "Groceries")

	tx := &models.Transaction{
		UserID:      owner.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Weekly shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("50"),
		Date:        models.Today(),
	}
	require.NoError(t, svc.CreateTransaction(context.Background(), tx))

	_, err := svc.GetTransaction(context.Background(), intruder.ID, tx.ID)
	assert.ErrorIs(t, err, ErrNotFound, "another user's transaction must look like it does not exist")

	err = svc.DeleteTransaction(context.Background(), intruder.ID, tx.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, store.transactions, tx.ID)
}

func TestStatistics(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "judy")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	salary := findCategory(t, store, user.ID, "Salary")
	groceries := findCategory(t, store, user.ID, "Groceries")
	entertainment := findCategory(t, store, user.ID, "Entertainment")
	today := models.Today()

	for _, seed := range []struct {
		category *models.Category
		txType   string
		amount   string
	}{
		{salary, models.TransactionTypeIncome, "2000"},
		{groceries, models.TransactionTypeExpense, "300"},
		{groceries, models.TransactionTypeExpense, "100"},
		{entertainment, models.TransactionTypeExpense, "150"},
	} {
		require.NoError(t, svc.CreateTransaction(context.Background(), &models.Transaction{
			UserID:      user.ID,
			AccountID:   account.ID,
			CategoryID:  seed.category.ID,
			Description: "Seed " + seed.category.Name,
			Type:        seed.txType,
			Amount:      mustDecimal(seed.amount),
			Date:        today,
		}))
	}

	stats, err := svc.Statistics(context.Background(), user.ID, nil, nil)
	require.NoError(t, err)

	assert.True(t, stats.Summary.TotalIncome.Equal(mustDecimal("2000")))
	assert.True(t, stats.Summary.TotalExpenses.Equal(mustDecimal("550")))
	assert.True(t, stats.Summary.NetSavings.Equal(mustDecimal("1450")))
	assert.Equal(t, 4, stats.Summary.TransactionCount)

	require.Len(t, stats.CategoryBreakdown, 2)
	assert.Equal(t, "Groceries", stats.CategoryBreakdown[0].Category, "largest spend first")
	assert.True(t, stats.CategoryBreakdown[0].Total.Equal(mustDecimal("400")))

	require.NotEmpty(t, stats.TopExpenses)
	assert.True(t, stats.TopExpenses[0].Amount.Equal(mustDecimal("300")))
}

func TestStatisticsCacheInvalidatedByWrite(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "kate")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	groceries := findCategory(t, store, user.ID, "Groceries")

	first, err := svc.Statistics(context.Background(), user.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Summary.TransactionCount)

	require.NoError(t, svc.CreateTransaction(context.Background(), &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Weekly shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("50"),
		Date:        models.Today(),
	}))

	second, err := svc.Statistics(context.Background(), user.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Summary.TransactionCount, "write must invalidate the cached statistics")
}

func TestMonthlySummary(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "liam")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	salary := findCategory(t, store, user.ID, "Salary")
	groceries := findCategory(t, store, user.ID, "Groceries")
	today := models.Today()

	require.NoError(t, svc.CreateTransaction(context.Background(), &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  salary.ID,
		Description: "Salary",
		Type:        models.TransactionTypeIncome,
		Amount:      mustDecimal("2000"),
		Date:        today,
		IsRecurring: true,
	}))
	require.NoError(t, svc.CreateTransaction(context.Background(), &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  groceries.ID,
		Description: "Shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("120"),
		Date:        today,
	}))

	summary, err := svc.MonthlySummary(context.Background(), user.ID, today.Year(), int(today.Month()))
	require.NoError(t, err)

	assert.True(t, summary.TotalIncome.Equal(mustDecimal("2000")))
	assert.True(t, summary.TotalExpenses.Equal(mustDecimal("120")))
	assert.Equal(t, 2, summary.TransactionCount)
	assert.Equal(t, 1, summary.RecurringCount)
	require.Len(t, summary.DailyBreakdown, 1)
	assert.True(t, summary.DailyBreakdown[0].Net.Equal(mustDecimal("1880")))

	_, err = svc.MonthlySummary(context.Background(), user.ID, today.Year(), 13)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "month")
}
