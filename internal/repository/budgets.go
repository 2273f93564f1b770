package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/budgetbox/backend/internal/models"
	"github.com/google/uuid"
)

const budgetColumns = `b.budget_id, b.user_id, b.category_id, b.budget_name, b.budget_amount,
	b.period_type, b.start_date, b.end_date, b.is_active, b.created_at, b.updated_at,
	c.category_name`

const budgetJoins = `
	FROM budget b
	JOIN category c ON c.category_id = b.category_id`

// CreateBudget persists a new budget.
func (r *Repository) CreateBudget(ctx context.Context, budget *models.Budget) error {
	budget.ID = uuid.New()
	query := `
		INSERT INTO budget (budget_id, user_id, category_id, budget_name, budget_amount,
			period_type, start_date, end_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query,
		budget.ID, budget.UserID, budget.CategoryID, budget.Name, budget.Amount,
		budget.PeriodType, budget.StartDate, budget.EndDate, budget.IsActive).
		Scan(&budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func scanBudget(scan func(dest ...any) error) (*models.Budget, error) {
	budget := &models.Budget{}
	err := scan(&budget.ID, &budget.UserID, &budget.CategoryID, &budget.Name,
		&budget.Amount, &budget.PeriodType, &budget.StartDate, &budget.EndDate,
		&budget.IsActive, &budget.CreatedAt, &budget.UpdatedAt, &budget.CategoryName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan budget: %w", err)
	}
	return budget, nil
}

// FindBudgetByID retrieves one of the user's budgets.
func (r *Repository) FindBudgetByID(ctx context.Context, userID int64, id uuid.UUID) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + budgetJoins + ` WHERE b.budget_id = $1 AND b.user_id = $2`
	return scanBudget(r.q.QueryRowContext(ctx, query, id, userID).Scan)
}

// ListBudgets retrieves the user's budgets, latest period first.
func (r *Repository) ListBudgets(ctx context.Context, userID int64, filter BudgetFilter) ([]*models.Budget, error) {
	query := `SELECT ` + budgetColumns + budgetJoins + ` WHERE b.user_id = $1`
	args := []any{userID}

	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += fmt.Sprintf(" AND b.is_active = $%d", len(args))
	}
	if filter.PeriodType != "" {
		args = append(args, filter.PeriodType)
		query += fmt.Sprintf(" AND b.period_type = $%d", len(args))
	}
	if filter.CategoryID != uuid.Nil {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND b.category_id = $%d", len(args))
	}
	if filter.CurrentOn != nil {
		args = append(args, *filter.CurrentOn)
		query += fmt.Sprintf(" AND b.start_date <= $%d AND b.end_date >= $%d", len(args), len(args))
	}
	query += " ORDER BY b.start_date DESC, b.budget_name"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		budget, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

// UpdateBudget persists all mutable budget fields.
func (r *Repository) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	query := `
		UPDATE budget
		SET category_id = $1, budget_name = $2, budget_amount = $3, period_type = $4,
			start_date = $5, end_date = $6, is_active = $7, updated_at = CURRENT_TIMESTAMP
		WHERE budget_id = $8 AND user_id = $9`
	result, err := r.q.ExecContext(ctx, query,
		budget.CategoryID, budget.Name, budget.Amount, budget.PeriodType,
		budget.StartDate, budget.EndDate, budget.IsActive, budget.ID, budget.UserID)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBudget removes one of the user's budgets.
func (r *Repository) DeleteBudget(ctx context.Context, userID int64, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM budget WHERE budget_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountOverlappingBudgets counts active budgets for the category whose
// period intersects [start, end], excluding excludeID when non-nil.
func (r *Repository) CountOverlappingBudgets(ctx context.Context, userID int64, categoryID uuid.UUID, start, end models.Date, excludeID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM budget
		WHERE user_id = $1 AND category_id = $2 AND is_active
			AND start_date <= $3 AND end_date >= $4
			AND budget_id <> $5`
	var count int
	err := r.q.QueryRowContext(ctx, query, userID, categoryID, end, start, excludeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping budgets: %w", err)
	}
	return count, nil
}
