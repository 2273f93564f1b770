package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/budgetbox/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const accountColumns = `bank_account_id, user_id, account_name, account_type, bank_name,
	account_number_masked, currency, current_balance, is_active, created_at, updated_at`

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	account.ID = uuid.New()
	query := `
		INSERT INTO bank_account (bank_account_id, user_id, account_name, account_type,
			bank_name, account_number_masked, currency, current_balance, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query,
		account.ID, account.UserID, account.Name, account.Type, account.BankName,
		account.NumberMasked, account.Currency, account.CurrentBalance, account.IsActive).
		Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func scanAccount(scan func(dest ...any) error) (*models.Account, error) {
	account := &models.Account{}
	err := scan(&account.ID, &account.UserID, &account.Name, &account.Type,
		&account.BankName, &account.NumberMasked, &account.Currency,
		&account.CurrentBalance, &account.IsActive, &account.CreatedAt, &account.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return account, nil
}

// FindAccountByID retrieves one of the user's accounts. Accounts owned
// by other users are reported as not found.
func (r *Repository) FindAccountByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM bank_account WHERE bank_account_id = $1 AND user_id = $2`
	return scanAccount(r.q.QueryRowContext(ctx, query, id, userID).Scan)
}

// ListAccounts retrieves the user's accounts, newest name first.
func (r *Repository) ListAccounts(ctx context.Context, userID int64, filter AccountFilter) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM bank_account WHERE user_id = $1`
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND account_type = $%d", len(args))
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		query += fmt.Sprintf(" AND currency = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	if filter.MinBalance != nil {
		args = append(args, *filter.MinBalance)
		query += fmt.Sprintf(" AND current_balance >= $%d", len(args))
	}
	query += " ORDER BY account_name"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// UpdateAccount persists all mutable account fields.
func (r *Repository) UpdateAccount(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE bank_account
		SET account_name = $1, account_type = $2, bank_name = $3,
			account_number_masked = $4, currency = $5, current_balance = $6,
			is_active = $7, updated_at = CURRENT_TIMESTAMP
		WHERE bank_account_id = $8 AND user_id = $9`
	result, err := r.q.ExecContext(ctx, query,
		account.Name, account.Type, account.BankName, account.NumberMasked,
		account.Currency, account.CurrentBalance, account.IsActive,
		account.ID, account.UserID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAccount removes one of the user's accounts.
func (r *Repository) DeleteAccount(ctx context.Context, userID int64, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM bank_account WHERE bank_account_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyToAccountBalance adds delta to the stored balance. This is the
// single write path that keeps the balance equal to the account's
// transaction history; callers wrap it in a unit of work together with
// the ledger write.
func (r *Repository) ApplyToAccountBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE bank_account
		SET current_balance = current_balance + $1, updated_at = CURRENT_TIMESTAMP
		WHERE bank_account_id = $2`
	result, err := r.q.ExecContext(ctx, query, delta, accountID)
	if err != nil {
		return fmt.Errorf("failed to apply balance change: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAccountTransactions counts ledger rows referencing the account.
func (r *Repository) CountAccountTransactions(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE bank_account_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count account transactions: %w", err)
	}
	return count, nil
}
