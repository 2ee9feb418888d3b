package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/ledger/internal/models"
)

// UpsertBudget inserts the budget for (UserID, Category) or replaces its limit.
// The stored row is read back so budget carries the surviving ID and CreatedAt.
func (s *SQLiteStore) UpsertBudget(ctx context.Context, budget *models.Budget) error {
	now := time.Now()
	if budget.UpdatedAt.IsZero() {
		budget.UpdatedAt = now
	}

	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO budgets (id, user_id, category, limit_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, category) DO UPDATE SET
			limit_amount = excluded.limit_amount,
			updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at
	`,
		uuid.New().String(), budget.UserID, budget.Category, budget.Limit,
		toMillis(budget.UpdatedAt), toMillis(budget.UpdatedAt),
	).Scan(&budget.ID, &createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	budget.CreatedAt = fromMillis(createdAt)
	budget.UpdatedAt = fromMillis(updatedAt)
	return nil
}

// ListBudgets returns the user's budgets ordered by category.
func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	sc := ownerScope(userID)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, category, limit_amount, created_at, updated_at FROM budgets"+sc.where()+" ORDER BY category",
		sc.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		var createdAt, updatedAt int64
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		b.CreatedAt = fromMillis(createdAt)
		b.UpdatedAt = fromMillis(updatedAt)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// DeleteBudget removes a budget owned by userID.
func (s *SQLiteStore) DeleteBudget(ctx context.Context, userID, id string) error {
	sc := ownerScope(userID).and("id = ?", id)
	res, err := s.db.ExecContext(ctx, "DELETE FROM budgets"+sc.where(), sc.args...)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return checkAffected(res, "budget "+id)
}
