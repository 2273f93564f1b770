package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/budgetbox/backend/internal/models"
)

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, date_joined)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, date_joined`
	err := r.q.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName).
		Scan(&user.ID, &user.DateJoined)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser persists profile fields and password hash.
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, password_hash = $4
		WHERE id = $5`
	result, err := r.q.ExecContext(ctx, query,
		user.Email, user.FirstName, user.LastName, user.PasswordHash, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const userColumns = `id, username, email, password_hash, first_name, last_name, last_login, date_joined`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.LastLogin, &user.DateJoined)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by primary key.
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.q.QueryRowContext(ctx, query, id))
}

// FindUserByUsername retrieves a user by username.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.q.QueryRowContext(ctx, query, username))
}

// EmailInUse reports whether another user already holds the email,
// case-insensitively.
func (r *Repository) EmailInUse(ctx context.Context, email string, excludeUserID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE lower(email) = lower($1) AND id <> $2`
	var count int
	if err := r.q.QueryRowContext(ctx, query, email, excludeUserID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// UpdateLastLogin stamps the user's last login time.
func (r *Repository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	query := `UPDATE users SET last_login = $1 WHERE id = $2`
	if _, err := r.q.ExecContext(ctx, query, at, userID); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// CountUserRecords gathers the ownership counts reported on login.
func (r *Repository) CountUserRecords(ctx context.Context, userID int64, today models.Date) (*models.UserCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM bank_account WHERE user_id = $1 AND is_active),
			(SELECT COUNT(*) FROM category WHERE user_id = $1 AND is_active),
			(SELECT COUNT(*) FROM transactions WHERE user_id = $1),
			(SELECT COUNT(*) FROM budget WHERE user_id = $1 AND is_active
				AND start_date <= $2 AND end_date >= $2)`
	counts := &models.UserCounts{}
	err := r.q.QueryRowContext(ctx, query, userID, today).
		Scan(&counts.Accounts, &counts.Categories, &counts.Transactions, &counts.ActiveBudgets)
	if err != nil {
		return nil, fmt.Errorf("failed to count user records: %w", err)
	}
	return counts, nil
}
