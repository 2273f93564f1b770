package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/budgetbox/backend/internal/models"
	"github.com/budgetbox/backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory repository.Store. Reads return copies so
// callers cannot mutate stored state without an explicit update, and
// WithinTx restores a snapshot when fn fails.
type fakeStore struct {
	nextUserID   int64
	users        map[int64]*models.User
	tokens       map[uuid.UUID]*models.AuthToken
	accounts     map[uuid.UUID]*models.Account
	categories   map[uuid.UUID]*models.Category
	transactions map[uuid.UUID]*models.Transaction
	budgets      map[uuid.UUID]*models.Budget
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[int64]*models.User),
		tokens:       make(map[uuid.UUID]*models.AuthToken),
		accounts:     make(map[uuid.UUID]*models.Account),
		categories:   make(map[uuid.UUID]*models.Category),
		transactions: make(map[uuid.UUID]*models.Transaction),
		budgets:      make(map[uuid.UUID]*models.Budget),
	}
}

var _ repository.Store = (*fakeStore)(nil)

func (f *fakeStore) snapshot() *fakeStore {
	c := newFakeStore()
	c.nextUserID = f.nextUserID
	for k, v := range f.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range f.tokens {
		t := *v
		c.tokens[k] = &t
	}
	for k, v := range f.accounts {
		a := *v
		c.accounts[k] = &a
	}
	for k, v := range f.categories {
		cat := *v
		c.categories[k] = &cat
	}
	for k, v := range f.transactions {
		tx := *v
		c.transactions[k] = &tx
	}
	for k, v := range f.budgets {
		b := *v
		c.budgets[k] = &b
	}
	return c
}

func (f *fakeStore) restore(from *fakeStore) {
	f.nextUserID = from.nextUserID
	f.users = from.users
	f.tokens = from.tokens
	f.accounts = from.accounts
	f.categories = from.categories
	f.transactions = from.transactions
	f.budgets = from.budgets
}

func (f *fakeStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	saved := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(saved)
		return err
	}
	return nil
}

// Users

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	f.nextUserID++
	user.ID = f.nextUserID
	user.DateJoined = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeStore) UpdateUser(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (f *fakeStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) EmailInUse(ctx context.Context, email string, excludeUserID int64) (bool, error) {
	for _, user := range f.users {
		if user.ID != excludeUserID && strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	user, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.LastLogin = &at
	return nil
}

func (f *fakeStore) CountUserRecords(ctx context.Context, userID int64, today models.Date) (*models.UserCounts, error) {
	counts := &models.UserCounts{}
	for _, account := range f.accounts {
		if account.UserID == userID && account.IsActive {
			counts.Accounts++
		}
	}
	for _, category := range f.categories {
		if category.UserID == userID && category.IsActive {
			counts.Categories++
		}
	}
	for _, tx := range f.transactions {
		if tx.UserID == userID {
			counts.Transactions++
		}
	}
	for _, budget := range f.budgets {
		if budget.UserID == userID && budget.IsActive &&
			!budget.StartDate.After(today.Time) && !budget.EndDate.Before(today.Time) {
			counts.ActiveBudgets++
		}
	}
	return counts, nil
}

// Auth tokens

func (f *fakeStore) CreateAuthToken(ctx context.Context, token *models.AuthToken) error {
	token.CreatedAt = time.Now()
	stored := *token
	f.tokens[token.ID] = &stored
	return nil
}

func (f *fakeStore) FindAuthToken(ctx context.Context, id uuid.UUID) (*models.AuthToken, error) {
	token, ok := f.tokens[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := *token
	return &t, nil
}

func (f *fakeStore) DeleteAuthToken(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.tokens[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.tokens, id)
	return nil
}

func (f *fakeStore) DeleteExpiredAuthTokens(ctx context.Context) (int64, error) {
	var deleted int64
	now := time.Now()
	for id, token := range f.tokens {
		if token.ExpiresAt.Before(now) {
			delete(f.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

// Accounts

func (f *fakeStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	stored := *account
	f.accounts[account.ID] = &stored
	return nil
}

func (f *fakeStore) FindAccountByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Account, error) {
	account, ok := f.accounts[id]
	if !ok || account.UserID != userID {
		return nil, repository.ErrNotFound
	}
	a := *account
	return &a, nil
}

func (f *fakeStore) ListAccounts(ctx context.Context, userID int64, filter repository.AccountFilter) ([]*models.Account, error) {
	var accounts []*models.Account
	for _, account := range f.accounts {
		if account.UserID != userID {
			continue
		}
		if filter.Type != "" && account.Type != filter.Type {
			continue
		}
		if filter.Currency != "" && account.Currency != filter.Currency {
			continue
		}
		if filter.IsActive != nil && account.IsActive != *filter.IsActive {
			continue
		}
		if filter.MinBalance != nil && account.CurrentBalance.LessThan(*filter.MinBalance) {
			continue
		}
		a := *account
		a.TransactionCount = f.countAccountTransactions(account.ID)
		accounts = append(accounts, &a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

func (f *fakeStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	existing, ok := f.accounts[account.ID]
	if !ok || existing.UserID != account.UserID {
		return repository.ErrNotFound
	}
	stored := *account
	stored.UpdatedAt = time.Now()
	f.accounts[account.ID] = &stored
	return nil
}

func (f *fakeStore) DeleteAccount(ctx context.Context, userID int64, id uuid.UUID) error {
	account, ok := f.accounts[id]
	if !ok || account.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.accounts, id)
	return nil
}

func (f *fakeStore) ApplyToAccountBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error {
	account, ok := f.accounts[accountID]
	if !ok {
		return repository.ErrNotFound
	}
	account.CurrentBalance = account.CurrentBalance.Add(delta)
	return nil
}

func (f *fakeStore) countAccountTransactions(accountID uuid.UUID) int {
	count := 0
	for _, tx := range f.transactions {
		if tx.AccountID == accountID {
			count++
		}
	}
	return count
}

func (f *fakeStore) CountAccountTransactions(ctx context.Context, accountID uuid.UUID) (int, error) {
	return f.countAccountTransactions(accountID), nil
}

// Categories

func (f *fakeStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	stored := *category
	f.categories[category.ID] = &stored
	return nil
}

func (f *fakeStore) FindCategoryByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Category, error) {
	category, ok := f.categories[id]
	if !ok || category.UserID != userID {
		return nil, repository.ErrNotFound
	}
	c := *category
	return &c, nil
}

func (f *fakeStore) FindCategoryByNameType(ctx context.Context, userID int64, name, categoryType string) (*models.Category, error) {
	for _, category := range f.categories {
		if category.UserID == userID && category.Type == categoryType &&
			strings.EqualFold(category.Name, name) {
			c := *category
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) ListCategories(ctx context.Context, userID int64, filter repository.CategoryFilter) ([]*models.Category, error) {
	var categories []*models.Category
	for _, category := range f.categories {
		if category.UserID != userID {
			continue
		}
		if filter.Type != "" && category.Type != filter.Type {
			continue
		}
		if filter.IsActive != nil && category.IsActive != *filter.IsActive {
			continue
		}
		c := *category
		c.TransactionCount, _ = f.CountCategoryTransactions(ctx, category.ID)
		categories = append(categories, &c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	existing, ok := f.categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return repository.ErrNotFound
	}
	stored := *category
	stored.UpdatedAt = time.Now()
	f.categories[category.ID] = &stored
	return nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, userID int64, id uuid.UUID) error {
	category, ok := f.categories[id]
	if !ok || category.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeStore) CategoryNameInUse(ctx context.Context, userID int64, name, categoryType string, excludeID uuid.UUID) (bool, error) {
	for _, category := range f.categories {
		if category.UserID == userID && category.ID != excludeID &&
			category.Type == categoryType && strings.EqualFold(category.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CountCategoryTransactions(ctx context.Context, categoryID uuid.UUID) (int, error) {
	count := 0
	for _, tx := range f.transactions {
		if tx.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) HasDefaultCategories(ctx context.Context, userID int64) (bool, error) {
	for _, category := range f.categories {
		if category.UserID == userID && category.IsDefault {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ReassignTransactions(ctx context.Context, userID int64, fromCategory, toCategory uuid.UUID) (int64, error) {
	var moved int64
	for _, tx := range f.transactions {
		if tx.UserID == userID && tx.CategoryID == fromCategory {
			tx.CategoryID = toCategory
			moved++
		}
	}
	return moved, nil
}

// Transactions

func (f *fakeStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	stored := *tx
	f.transactions[tx.ID] = &stored
	return nil
}

func (f *fakeStore) FindTransactionByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Transaction, error) {
	tx, ok := f.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, repository.ErrNotFound
	}
	t := *tx
	f.fillJoins(&t)
	return &t, nil
}

func (f *fakeStore) fillJoins(tx *models.Transaction) {
	if category, ok := f.categories[tx.CategoryID]; ok {
		tx.CategoryName = category.Name
	}
	if account, ok := f.accounts[tx.AccountID]; ok {
		tx.AccountName = account.Name
	}
}

func (f *fakeStore) matches(tx *models.Transaction, userID int64, filter repository.TransactionFilter) bool {
	if tx.UserID != userID {
		return false
	}
	if filter.AccountID != uuid.Nil && tx.AccountID != filter.AccountID {
		return false
	}
	if filter.CategoryID != uuid.Nil && tx.CategoryID != filter.CategoryID {
		return false
	}
	if filter.Type != "" && tx.Type != filter.Type {
		return false
	}
	if filter.DateFrom != nil && tx.Date.Before(filter.DateFrom.Time) {
		return false
	}
	if filter.DateTo != nil && tx.Date.After(filter.DateTo.Time) {
		return false
	}
	if filter.MinAmount != nil && tx.Amount.Abs().LessThan(*filter.MinAmount) {
		return false
	}
	if filter.IsRecurring != nil && tx.IsRecurring != *filter.IsRecurring {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(tx.Description), needle) &&
			!strings.Contains(strings.ToLower(tx.Reference), needle) &&
			!strings.Contains(strings.ToLower(tx.Note), needle) {
			return false
		}
	}
	return true
}

func (f *fakeStore) ListTransactions(ctx context.Context, userID int64, filter repository.TransactionFilter) ([]*models.Transaction, int, error) {
	var matched []*models.Transaction
	for _, tx := range f.transactions {
		if !f.matches(tx, userID, filter) {
			continue
		}
		t := *tx
		f.fillJoins(&t)
		matched = append(matched, &t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date.Time) {
			return matched[i].Date.After(matched[j].Date.Time)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if filter.Limit > 0 {
		if filter.Offset >= total {
			return nil, total, nil
		}
		end := filter.Offset + filter.Limit
		if end > total {
			end = total
		}
		matched = matched[filter.Offset:end]
	}
	return matched, total, nil
}

func (f *fakeStore) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	existing, ok := f.transactions[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return repository.ErrNotFound
	}
	stored := *tx
	stored.UpdatedAt = time.Now()
	f.transactions[tx.ID] = &stored
	return nil
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, userID int64, id uuid.UUID) error {
	tx, ok := f.transactions[id]
	if !ok || tx.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.transactions, id)
	return nil
}

func (f *fakeStore) UpdateTransactionsCategory(ctx context.Context, userID int64, ids []uuid.UUID, categoryID uuid.UUID) (int64, error) {
	var updated int64
	for _, id := range ids {
		tx, ok := f.transactions[id]
		if !ok || tx.UserID != userID {
			continue
		}
		tx.CategoryID = categoryID
		updated++
	}
	return updated, nil
}

func (f *fakeStore) SumCategoryExpenses(ctx context.Context, userID int64, categoryID uuid.UUID, from, to models.Date) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range f.transactions {
		if tx.UserID != userID || tx.CategoryID != categoryID ||
			tx.Type != models.TransactionTypeExpense {
			continue
		}
		if tx.Date.Before(from.Time) || tx.Date.After(to.Time) {
			continue
		}
		sum = sum.Add(tx.Amount)
	}
	return sum, nil
}

func (f *fakeStore) SumAccountTransactions(ctx context.Context, accountID uuid.UUID, from *models.Date) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range f.transactions {
		if tx.AccountID != accountID {
			continue
		}
		if from != nil && tx.Date.Before(from.Time) {
			continue
		}
		sum = sum.Add(tx.Amount)
	}
	return sum, nil
}

// Budgets

func (f *fakeStore) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	stored := *budget
	f.budgets[budget.ID] = &stored
	return nil
}

func (f *fakeStore) FindBudgetByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Budget, error) {
	budget, ok := f.budgets[id]
	if !ok || budget.UserID != userID {
		return nil, repository.ErrNotFound
	}
	b := *budget
	if category, ok := f.categories[b.CategoryID]; ok {
		b.CategoryName = category.Name
	}
	return &b, nil
}

func (f *fakeStore) ListBudgets(ctx context.Context, userID int64, filter repository.BudgetFilter) ([]*models.Budget, error) {
	var budgets []*models.Budget
	for _, budget := range f.budgets {
		if budget.UserID != userID {
			continue
		}
		if filter.IsActive != nil && budget.IsActive != *filter.IsActive {
			continue
		}
		if filter.PeriodType != "" && budget.PeriodType != filter.PeriodType {
			continue
		}
		if filter.CategoryID != uuid.Nil && budget.CategoryID != filter.CategoryID {
			continue
		}
		if filter.CurrentOn != nil &&
			(budget.StartDate.After(filter.CurrentOn.Time) || budget.EndDate.Before(filter.CurrentOn.Time)) {
			continue
		}
		b := *budget
		if category, ok := f.categories[b.CategoryID]; ok {
			b.CategoryName = category.Name
		}
		budgets = append(budgets, &b)
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].StartDate.Before(budgets[j].StartDate.Time)
	})
	return budgets, nil
}

func (f *fakeStore) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	existing, ok := f.budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return repository.ErrNotFound
	}
	stored := *budget
	stored.UpdatedAt = time.Now()
	f.budgets[budget.ID] = &stored
	return nil
}

func (f *fakeStore) DeleteBudget(ctx context.Context, userID int64, id uuid.UUID) error {
	budget, ok := f.budgets[id]
	if !ok || budget.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.budgets, id)
	return nil
}

func (f *fakeStore) CountOverlappingBudgets(ctx context.Context, userID int64, categoryID uuid.UUID, start, end models.Date, excludeID uuid.UUID) (int, error) {
	count := 0
	for _, budget := range f.budgets {
		if budget.UserID != userID || budget.CategoryID != categoryID ||
			!budget.IsActive || budget.ID == excludeID {
			continue
		}
		if !budget.StartDate.After(end.Time) && !budget.EndDate.Before(start.Time) {
			count++
		}
	}
	return count, nil
}
