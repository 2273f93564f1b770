package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/budgetbox/backend/internal/models"
	"github.com/google/uuid"
)

const categoryColumns = `category_id, user_id, category_name, category_type,
	is_default, is_active, created_at, updated_at`

// CreateCategory creates a new category in the database
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	category.ID = uuid.New()
	query := `
		INSERT INTO category (category_id, user_id, category_name, category_type,
			is_default, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query,
		category.ID, category.UserID, category.Name, category.Type,
		category.IsDefault, category.IsActive).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func scanCategory(scan func(dest ...any) error) (*models.Category, error) {
	category := &models.Category{}
	err := scan(&category.ID, &category.UserID, &category.Name, &category.Type,
		&category.IsDefault, &category.IsActive, &category.CreatedAt, &category.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	return category, nil
}

// FindCategoryByID retrieves one of the user's categories.
func (r *Repository) FindCategoryByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE category_id = $1 AND user_id = $2`
	return scanCategory(r.q.QueryRowContext(ctx, query, id, userID).Scan)
}

// FindCategoryByNameType retrieves a category by its unique
// (name, type) pair, case-insensitively on the name.
func (r *Repository) FindCategoryByNameType(ctx context.Context, userID int64, name, categoryType string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category
		WHERE user_id = $1 AND lower(category_name) = lower($2) AND category_type = $3`
	return scanCategory(r.q.QueryRowContext(ctx, query, userID, name, categoryType).Scan)
}

// ListCategories retrieves the user's categories ordered by type then name.
func (r *Repository) ListCategories(ctx context.Context, userID int64, filter CategoryFilter) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM category WHERE user_id = $1`
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND category_type = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	query += " ORDER BY category_type, category_name"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// UpdateCategory persists all mutable category fields.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE category
		SET category_name = $1, category_type = $2, is_default = $3, is_active = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE category_id = $5 AND user_id = $6`
	result, err := r.q.ExecContext(ctx, query,
		category.Name, category.Type, category.IsDefault, category.IsActive,
		category.ID, category.UserID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes one of the user's categories.
func (r *Repository) DeleteCategory(ctx context.Context, userID int64, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM category WHERE category_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CategoryNameInUse reports whether the user already has a category
// with this name and type, case-insensitively.
func (r *Repository) CategoryNameInUse(ctx context.Context, userID int64, name, categoryType string, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT COUNT(*) FROM category
		WHERE user_id = $1 AND lower(category_name) = lower($2)
			AND category_type = $3 AND category_id <> $4`
	var count int
	err := r.q.QueryRowContext(ctx, query, userID, name, categoryType, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return count > 0, nil
}

// CountCategoryTransactions counts ledger rows referencing the category.
func (r *Repository) CountCategoryTransactions(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count category transactions: %w", err)
	}
	return count, nil
}

// HasDefaultCategories reports whether the user already has any
// default categories.
func (r *Repository) HasDefaultCategories(ctx context.Context, userID int64) (bool, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM category WHERE user_id = $1 AND is_default`, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check default categories: %w", err)
	}
	return count > 0, nil
}

// ReassignTransactions moves every transaction from one category to
// another and returns how many moved.
func (r *Repository) ReassignTransactions(ctx context.Context, userID int64, fromCategory, toCategory uuid.UUID) (int64, error) {
	query := `
		UPDATE transactions
		SET category_id = $1, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $2 AND category_id = $3`
	result, err := r.q.ExecContext(ctx, query, toCategory, userID, fromCategory)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign transactions: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
