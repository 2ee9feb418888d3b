package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/ledger/internal/models"
	"github.com/mmynk/ledger/internal/storage"
)

const expenseSelect = `
	SELECT e.id, e.group_id, e.description, e.amount, e.date, e.created_at, e.updated_at,
	       u.id, u.name, u.email, u.profile_picture
	FROM group_expenses e
	JOIN users u ON u.id = e.paid_by
`

func scanExpense(row rowScanner) (*models.GroupExpense, error) {
	e := &models.GroupExpense{}
	var date, createdAt, updatedAt int64
	if err := row.Scan(
		&e.ID, &e.GroupID, &e.Description, &e.Amount, &date, &createdAt, &updatedAt,
		&e.PaidBy.ID, &e.PaidBy.Name, &e.PaidBy.Email, &e.PaidBy.ProfilePicture,
	); err != nil {
		return nil, err
	}
	e.Date = fromMillis(date)
	e.CreatedAt = fromMillis(createdAt)
	e.UpdatedAt = fromMillis(updatedAt)
	e.Splits = []models.Split{}
	return e, nil
}

// CreateExpense persists an expense and its splits in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.GroupExpense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now()
	}
	expense.UpdatedAt = expense.CreatedAt

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO group_expenses (id, group_id, description, amount, paid_by, date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			expense.ID, expense.GroupID, expense.Description, expense.Amount, expense.PaidBy.ID,
			toMillis(expense.Date), toMillis(expense.CreatedAt), toMillis(expense.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for i, split := range expense.Splits {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO expense_splits (expense_id, position, user_id, amount) VALUES (?, ?, ?, ?)",
				expense.ID, i, split.User.ID, split.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense split: %w", err)
			}
		}
		return nil
	})
}

// GetExpense retrieves an expense that belongs to groupID.
func (s *SQLiteStore) GetExpense(ctx context.Context, groupID, id string) (*models.GroupExpense, error) {
	row := s.db.QueryRowContext(ctx, expenseSelect+" WHERE e.group_id = ? AND e.id = ?", groupID, id)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	splits, err := s.loadSplits(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	expense.Splits = append(expense.Splits, splits[id]...)
	return expense, nil
}

// ListExpenses returns a group's expenses with splits, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string) ([]models.GroupExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		expenseSelect+" WHERE e.group_id = ? ORDER BY e.date DESC, e.created_at DESC",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.GroupExpense{}
	var ids []string
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	splits, err := s.loadSplits(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i].Splits = append(expenses[i].Splits, splits[expenses[i].ID]...)
	}
	return expenses, nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, expenseIDs []string) (map[string][]models.Split, error) {
	splits := make(map[string][]models.Split, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return splits, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT sp.expense_id, sp.amount, u.id, u.name, u.email, u.profile_picture
		FROM expense_splits sp
		JOIN users u ON u.id = sp.user_id
		WHERE sp.expense_id IN (`+repeatPlaceholder(len(expenseIDs))+`)
		ORDER BY sp.expense_id, sp.position
	`, stringArgs(expenseIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var split models.Split
		if err := rows.Scan(&expenseID, &split.Amount, &split.User.ID, &split.User.Name, &split.User.Email, &split.User.ProfilePicture); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		splits[expenseID] = append(splits[expenseID], split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return splits, nil
}

// UpdateExpense overwrites description, amount, payer and date. Splits are
// left as recorded at creation.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.GroupExpense) error {
	if expense.UpdatedAt.IsZero() {
		expense.UpdatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE group_expenses
		SET description = ?, amount = ?, paid_by = ?, date = ?, updated_at = ?
		WHERE group_id = ? AND id = ?
	`,
		expense.Description, expense.Amount, expense.PaidBy.ID, toMillis(expense.Date),
		toMillis(expense.UpdatedAt), expense.GroupID, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return checkAffected(res, "expense "+expense.ID)
}

// DeleteExpense removes an expense that belongs to groupID, splits included.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, groupID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM group_expenses WHERE group_id = ? AND id = ?", groupID, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return checkAffected(res, "expense "+id)
}
