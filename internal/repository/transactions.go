package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/budgetbox/backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const transactionColumns = `t.transaction_id, t.user_id, t.bank_account_id, t.category_id,
	t.transaction_description, t.transaction_type, t.transaction_amount, t.transaction_date,
	t.transaction_note, t.reference_number, t.is_recurring, t.created_at, t.updated_at,
	c.category_name, a.account_name`

const transactionJoins = `
	FROM transactions t
	JOIN category c ON c.category_id = t.category_id
	JOIN bank_account a ON a.bank_account_id = t.bank_account_id`

// CreateTransaction persists a new ledger row.
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.ID = uuid.New()
	query := `
		INSERT INTO transactions (transaction_id, user_id, bank_account_id, category_id,
			transaction_description, transaction_type, transaction_amount, transaction_date,
			transaction_note, reference_number, is_recurring, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query,
		tx.ID, tx.UserID, tx.AccountID, tx.CategoryID, tx.Description, tx.Type,
		tx.Amount, tx.Date, nullString(tx.Note), nullString(tx.Reference), tx.IsRecurring).
		Scan(&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanTransaction(scan func(dest ...any) error) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var note, reference sql.NullString
	err := scan(&tx.ID, &tx.UserID, &tx.AccountID, &tx.CategoryID, &tx.Description,
		&tx.Type, &tx.Amount, &tx.Date, &note, &reference, &tx.IsRecurring,
		&tx.CreatedAt, &tx.UpdatedAt, &tx.CategoryName, &tx.AccountName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	tx.Note = note.String
	tx.Reference = reference.String
	return tx, nil
}

// FindTransactionByID retrieves one of the user's transactions.
func (r *Repository) FindTransactionByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + transactionJoins +
		` WHERE t.transaction_id = $1 AND t.user_id = $2`
	return scanTransaction(r.q.QueryRowContext(ctx, query, id, userID).Scan)
}

// ListTransactions retrieves the user's transactions, newest date
// first, with the total match count for pagination. A zero filter
// limit returns all matches.
func (r *Repository) ListTransactions(ctx context.Context, userID int64, filter TransactionFilter) ([]*models.Transaction, int, error) {
	where := ` WHERE t.user_id = $1`
	args := []any{userID}

	appendClause := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}

	if filter.AccountID != uuid.Nil {
		appendClause(" AND t.bank_account_id = $%d", filter.AccountID)
	}
	if filter.CategoryID != uuid.Nil {
		appendClause(" AND t.category_id = $%d", filter.CategoryID)
	}
	if filter.Type != "" {
		appendClause(" AND t.transaction_type = $%d", filter.Type)
	}
	if filter.DateFrom != nil {
		appendClause(" AND t.transaction_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		appendClause(" AND t.transaction_date <= $%d", *filter.DateTo)
	}
	if filter.MinAmount != nil {
		// Absolute-magnitude filter: either side of zero.
		args = append(args, *filter.MinAmount)
		where += fmt.Sprintf(" AND (t.transaction_amount >= $%d OR t.transaction_amount <= -$%d)", len(args), len(args))
	}
	if filter.IsRecurring != nil {
		appendClause(" AND t.is_recurring = $%d", *filter.IsRecurring)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (t.transaction_description ILIKE $%d
			OR t.reference_number ILIKE $%d OR t.transaction_note ILIKE $%d)`, n, n, n)
	}

	var total int
	countQuery := `SELECT COUNT(*)` + transactionJoins + where
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + transactionJoins + where +
		` ORDER BY t.transaction_date DESC, t.created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, total, rows.Err()
}

// UpdateTransaction persists all mutable transaction fields.
func (r *Repository) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		UPDATE transactions
		SET bank_account_id = $1, category_id = $2, transaction_description = $3,
			transaction_type = $4, transaction_amount = $5, transaction_date = $6,
			transaction_note = $7, reference_number = $8, is_recurring = $9,
			updated_at = CURRENT_TIMESTAMP
		WHERE transaction_id = $10 AND user_id = $11`
	result, err := r.q.ExecContext(ctx, query,
		tx.AccountID, tx.CategoryID, tx.Description, tx.Type, tx.Amount, tx.Date,
		nullString(tx.Note), nullString(tx.Reference), tx.IsRecurring, tx.ID, tx.UserID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTransaction removes one of the user's transactions.
func (r *Repository) DeleteTransaction(ctx context.Context, userID int64, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM transactions WHERE transaction_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateTransactionsCategory assigns a category to the given
// transactions and returns how many rows changed.
func (r *Repository) UpdateTransactionsCategory(ctx context.Context, userID int64, ids []uuid.UUID, categoryID uuid.UUID) (int64, error) {
	query := `
		UPDATE transactions
		SET category_id = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2 AND transaction_id = ANY($3)`
	result, err := r.q.ExecContext(ctx, query, categoryID, userID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to categorize transactions: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// SumCategoryExpenses returns the signed sum of expense transactions
// in the category within [from, to]. The result is zero or negative.
func (r *Repository) SumCategoryExpenses(ctx context.Context, userID int64, categoryID uuid.UUID, from, to models.Date) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(transaction_amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND transaction_type = $3
			AND transaction_date >= $4 AND transaction_date <= $5`
	var sum decimal.Decimal
	err := r.q.QueryRowContext(ctx, query, userID, categoryID,
		models.TransactionTypeExpense, from, to).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum category expenses: %w", err)
	}
	return sum, nil
}

// SumAccountTransactions returns the signed sum of the account's
// transactions, optionally restricted to dates on or after from.
func (r *Repository) SumAccountTransactions(ctx context.Context, accountID uuid.UUID, from *models.Date) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(transaction_amount), 0) FROM transactions WHERE bank_account_id = $1`
	args := []any{accountID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	var sum decimal.Decimal
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum account transactions: %w", err)
	}
	return sum, nil
}
