package service

import (
	"context"
	"io"
	"testing"

	"github.com/budgetbox/backend/internal/cache"
	"github.com/budgetbox/backend/internal/config"
	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTLHours: 720}
	store := newFakeStore()
	return NewService(store, cache.NewMemory(), log, cfg, nil), store
}

// registerUser creates a user through the real registration path so
// tests start from the same state the API produces.
func registerUser(t *testing.T, svc *Service, username string) *models.User {
	t.Helper()
	result, err := svc.Register(context.Background(), validation.RegisterInput{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "correct-horse",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)
	return result.User
}

func newAccount(t *testing.T, svc *Service, userID int64, name string, balance string) *models.Account {
	t.Helper()
	account := &models.Account{
		UserID:         userID,
		Name:           name,
		Type:           models.AccountTypeChecking,
		BankName:       "Monzo",
		NumberMasked:   "****1234",
		Currency:       models.CurrencyGBP,
		CurrentBalance: decimal.RequireFromString(balance),
	}
	require.NoError(t, svc.CreateAccount(context.Background(), account))
	return account
}

func findCategory(t *testing.T, store *fakeStore, userID int64, name string) *models.Category {
	t.Helper()
	for _, category := range store.categories {
		if category.UserID == userID && category.Name == name {
			return category
		}
	}
	t.Fatalf("category %q not found", name)
	return nil
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
