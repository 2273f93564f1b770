package repository

import (
	"context"
	"errors"
	"time"

	"github.com/budgetbox/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a row does not exist or belongs to
// another user. Callers cannot tell those cases apart.
var ErrNotFound = errors.New("not found")

// Store is the persistence capability the service layer depends on.
// *Repository is the postgres implementation; tests substitute an
// in-memory fake.
type Store interface {
	// WithinTx runs fn as one atomic unit of work.
	WithinTx(ctx context.Context, fn func(Store) error) error

	// Users
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	EmailInUse(ctx context.Context, email string, excludeUserID int64) (bool, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
	CountUserRecords(ctx context.Context, userID int64, today models.Date) (*models.UserCounts, error)

	// Auth tokens
	CreateAuthToken(ctx context.Context, token *models.AuthToken) error
	FindAuthToken(ctx context.Context, id uuid.UUID) (*models.AuthToken, error)
	DeleteAuthToken(ctx context.Context, id uuid.UUID) error
	DeleteExpiredAuthTokens(ctx context.Context) (int64, error)

	// Accounts
	CreateAccount(ctx context.Context, account *models.Account) error
	FindAccountByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Account, error)
	ListAccounts(ctx context.Context, userID int64, filter AccountFilter) ([]*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, userID int64, id uuid.UUID) error
	ApplyToAccountBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error
	CountAccountTransactions(ctx context.Context, accountID uuid.UUID) (int, error)

	// Categories
	CreateCategory(ctx context.Context, category *models.Category) error
	FindCategoryByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Category, error)
	FindCategoryByNameType(ctx context.Context, userID int64, name, categoryType string) (*models.Category, error)
	ListCategories(ctx context.Context, userID int64, filter CategoryFilter) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, userID int64, id uuid.UUID) error
	CategoryNameInUse(ctx context.Context, userID int64, name, categoryType string, excludeID uuid.UUID) (bool, error)
	CountCategoryTransactions(ctx context.Context, categoryID uuid.UUID) (int, error)
	HasDefaultCategories(ctx context.Context, userID int64) (bool, error)
	ReassignTransactions(ctx context.Context, userID int64, fromCategory, toCategory uuid.UUID) (int64, error)

	// Transactions
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	FindTransactionByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]*models.Transaction, int, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID int64, id uuid.UUID) error
	UpdateTransactionsCategory(ctx context.Context, userID int64, ids []uuid.UUID, categoryID uuid.UUID) (int64, error)
	SumCategoryExpenses(ctx context.Context, userID int64, categoryID uuid.UUID, from, to models.Date) (decimal.Decimal, error)
	SumAccountTransactions(ctx context.Context, accountID uuid.UUID, from *models.Date) (decimal.Decimal, error)

	// Budgets
	CreateBudget(ctx context.Context, budget *models.Budget) error
	FindBudgetByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID int64, filter BudgetFilter) ([]*models.Budget, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, userID int64, id uuid.UUID) error
	CountOverlappingBudgets(ctx context.Context, userID int64, categoryID uuid.UUID, start, end models.Date, excludeID uuid.UUID) (int, error)
}

var _ Store = (*Repository)(nil)

// AccountFilter narrows account listings.
type AccountFilter struct {
	Type       string
	Currency   string
	IsActive   *bool
	MinBalance *decimal.Decimal
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	Type     string
	IsActive *bool
}

// TransactionFilter narrows transaction listings. A zero Limit returns
// every matching row.
type TransactionFilter struct {
	AccountID   uuid.UUID
	CategoryID  uuid.UUID
	Type        string
	DateFrom    *models.Date
	DateTo      *models.Date
	MinAmount   *decimal.Decimal
	IsRecurring *bool
	Search      string
	Limit       int
	Offset      int
}

// BudgetFilter narrows budget listings.
type BudgetFilter struct {
	IsActive   *bool
	PeriodType string
	CategoryID uuid.UUID
	CurrentOn  *models.Date
}
