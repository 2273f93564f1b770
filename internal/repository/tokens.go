package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/budgetbox/backend/internal/models"
	"github.com/google/uuid"
)

// CreateAuthToken stores the server-side record for an issued token.
func (r *Repository) CreateAuthToken(ctx context.Context, token *models.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (token_id, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.q.QueryRowContext(ctx, query, token.ID, token.UserID, token.ExpiresAt).
		Scan(&token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create auth token: %w", err)
	}
	return nil
}

// FindAuthToken retrieves a token record by its id.
func (r *Repository) FindAuthToken(ctx context.Context, id uuid.UUID) (*models.AuthToken, error) {
	query := `SELECT token_id, user_id, expires_at, created_at FROM auth_tokens WHERE token_id = $1`
	token := &models.AuthToken{}
	err := r.q.QueryRowContext(ctx, query, id).
		Scan(&token.ID, &token.UserID, &token.ExpiresAt, &token.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find auth token: %w", err)
	}
	return token, nil
}

// DeleteAuthToken revokes a token.
func (r *Repository) DeleteAuthToken(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete auth token: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredAuthTokens purges tokens past their expiry.
func (r *Repository) DeleteExpiredAuthTokens(ctx context.Context) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM auth_tokens WHERE expires_at < CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge auth tokens: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
