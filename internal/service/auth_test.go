package service

import (
	"context"
	"testing"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterProvisionsDefaultCategories(t *testing.T) {
	svc, store := newTestService(t)

	result, err := svc.Register(context.Background(), validation.RegisterInput{
		Username:  "alice",
		Email:     "Alice@Example.com",
		Password:  "correct-horse",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", result.User.Email, "email should be lower-cased")
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, 9, result.CategoriesCreated)

	income, expense := 0, 0
	for _, category := range store.categories {
		require.Equal(t, result.User.ID, category.UserID)
		require.True(t, category.IsDefault)
		if category.Type == models.CategoryTypeIncome {
			income++
		} else {
			expense++
		}
	}
	assert.Equal(t, 3, income)
	assert.Equal(t, 6, expense)

	// The issued token authenticates.
	user, err := svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	registerUser(t, svc, "bob")

	_, err := svc.Register(context.Background(), validation.RegisterInput{
		Username:  "bob",
		Email:     "other@example.com",
		Password:  "correct-horse",
		FirstName: "Bob",
		LastName:  "Jones",
	})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "username")

	_, err = svc.Register(context.Background(), validation.RegisterInput{
		Username:  "bob2",
		Email:     "BOB@example.com",
		Password:  "correct-horse",
		FirstName: "Bob",
		LastName:  "Jones",
	})
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "email", "email uniqueness must ignore case")
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.Register(context.Background(), validation.RegisterInput{
		Username:  "carol",
		Email:     "carol@example.com",
		Password:  "short",
		FirstName: "Carol",
		LastName:  "King",
	})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "password")
	assert.Empty(t, store.users, "nothing persists on validation failure")
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	user := registerUser(t, svc, "dave")

	result, err := svc.Login(context.Background(), "dave", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotNil(t, result.User.LastLogin)
	assert.Equal(t, 9, result.Summary.Categories)

	_, err = svc.Login(context.Background(), "dave", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown user looks like a bad password")
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)
	registerUser(t, svc, "erin")

	result, err := svc.Login(context.Background(), "erin", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.Token))

	_, err = svc.Authenticate(context.Background(), result.Token)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "a revoked token must stop working before expiry")
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	user := registerUser(t, svc, "frank")

	err := svc.ChangePassword(context.Background(), user.ID, "wrong-old", "new-password-1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "correct-horse", "new-password-1"))

	_, err = svc.Login(context.Background(), "frank", "new-password-1")
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), "frank", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	user := registerUser(t, svc, "grace")
	registerUser(t, svc, "heidi")

	email := "heidi@example.com"
	_, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{Email: &email})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "email", "cannot take another user's email")

	newName := "Gracie"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{FirstName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Gracie", updated.FirstName)
}

func TestProfileFinancialSummary(t *testing.T) {
	svc, store := newTestService(t)
	user := registerUser(t, svc, "ivan")

	checking := newAccount(t, svc, user.ID, "Current", "1000")
	newAccount(t, svc, user.ID, "Savings", "500")

	salary := findCategory(t, store, user.ID, "Salary")
	groceries := findCategory(t, store, user.ID, "Groceries")
	today := models.Today()

	require.NoError(t, svc.CreateTransaction(context.Background(), &models.Transaction{
		UserID:      user.ID,
		AccountID:   checking.ID,
		CategoryID:  salary.ID,
		Description: "Monthly salary",
		Type:        models.TransactionTypeIncome,
		Amount:      mustDecimal("2000"),
		Date:        today,
	}))
	require.NoError(t, svc.CreateTransaction(context.Background(), &models.Transaction{
		UserID:      user.ID,
		AccountID:   checking.ID,
		CategoryID:  groceries.ID,
		Description: "Weekly shop",
		Type:        models.TransactionTypeExpense,
		Amount:      mustDecimal("150"),
		Date:        today,
	}))

	_, summary, err := svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)

	// 1000 + 500 + 2000 - 150 across both accounts.
	assert.True(t, summary.NetWorth.Equal(mustDecimal("3350")), "net worth %s", summary.NetWorth)
	assert.True(t, summary.MonthlyIncome.Equal(mustDecimal("2000")))
	assert.True(t, summary.MonthlyExpenses.Equal(mustDecimal("150")))
	assert.True(t, summary.MonthlySavings.Equal(mustDecimal("1850")))
}
