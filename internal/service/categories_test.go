package service

import (
	"context"
	"testing"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryTitleCasesAndDeduplicates(t *testing.T) {
	svc, _ := newTestService(t)
	user := registerUser(t, svc, "alice")

	category := &models.Category{
		UserID: user.ID,
		Name:   "  eating OUT  ",
		Type:   models.CategoryTypeExpense,
	}
	require.NoError(t, svc.CreateCategory(context.Background(), category))
	assert.Equal(t, "Eating Out", category.Name)

	// Same name in different case collides.
	err := svc.CreateCategory(context.Background(), &models.Category{
		UserID: user.ID,
		Name:   "EATING out",
		Type:   models.CategoryTypeExpense,
	})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "category_name")

	// Same name with the other type is a distinct category.
	require.NoError(t, svc.CreateCategory(context.Background(), &models.Category{
		UserID: user.ID,
		Name:   "Eating Out",
		Type:   models.CategoryTypeIncome,
	}))
}

func TestDeleteCategoryRules(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "bob")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	groceries := findCategory(t, store, user.ID, "Groceries")

	err := svc.DeleteCategory(context.Background(), user.ID, groceries.ID)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict, "default categories cannot be deleted")

	custom := &models.Category{UserID: user.ID, Name: "Hobbies", Type: models.CategoryTypeExpense}
	require.NoError(t, svc.CreateCategory(context.Background(), custom))
	require.NoError(t, svc.CreateTransaction(context.Background(), &models.Transaction{
		UserID:      user.ID,
		AccountID:   account.ID,
		CategoryID:  custom.ID,
		Description: "Paint supplies",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("30"),
		Date:        models.Today(),
	}))

	err = svc.DeleteCategory(context.Background(), user.ID, custom.ID)
	require.ErrorAs(t, err, &conflict, "categories with transactions cannot be deleted")

	unused := &models.Category{UserID: user.ID, Name: "Gadgets", Type: models.CategoryTypeExpense}
	require.NoError(t, svc.CreateCategory(context.Background(), unused))
	require.NoError(t, svc.DeleteCategory(context.Background(), user.ID, unused.ID))
}

func TestSetDefaultCategoriesIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	user := registerUser(t, svc, "carol")

	// Registration created 9 of the 12; the full set adds the rest.
	created, err := svc.SetDefaultCategories(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = svc.SetDefaultCategories(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "a second run must create nothing")
}

func TestReassignCategory(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "dave")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	groceries := findCategory(t, store, user.ID, "Groceries")
	entertainment := findCategory(t, store, user.ID, "Entertainment")
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

	_, err := svc.ReassignCategory(context.Background(), user.ID, groceries.ID, salary.ID)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs, "cannot reassign across category types")

	_, err = svc.ReassignCategory(context.Background(), user.ID, groceries.ID, groceries.ID)
	require.ErrorAs(t, err, &errs, "source and target must differ")

	moved, err := svc.ReassignCategory(context.Background(), user.ID, groceries.ID, entertainment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)
	assert.Equal(t, entertainment.ID, store.transactions[tx.ID].CategoryID)
	assert.False(t, store.categories[groceries.ID].IsActive, "source category deactivated after reassignment")
}

func TestCategoryUsage(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "erin")
	account := newAccount(t, svc, user.ID, "Current", "1000")
	groceries := findCategory(t, store, user.ID, "Groceries")

	for _, amount := range []string{"100", "50", "30"} {
		require.NoError(t, svc.CreateTransaction(context.Background(), &models.Transaction{
			UserID:      user.ID,
			AccountID:   account.ID,
			CategoryID:  groceries.ID,
			Description: "Shop " + amount,
			Type:        models.TransactionTypeExpense,
			Amount:      mustDecimal(amount),
			Date:        models.Today(),
		}))
	}

	usage, err := svc.CategoryUsage(context.Background(), user.ID, groceries.ID, 90)
	require.NoError(t, err)

	assert.Equal(t, "Groceries", usage.Category.Name)
	assert.True(t, usage.Summary.TotalAmount.Equal(mustDecimal("180")))
	assert.Equal(t, 3, usage.Summary.TransactionCount)
	assert.True(t, usage.Summary.AverageAmount.Equal(mustDecimal("60")))
	require.Len(t, usage.MonthlyBreakdown, 1)
	assert.Equal(t, 3, usage.MonthlyBreakdown[0].Count)
	assert.Len(t, usage.RecentTransactions, 3)
}
