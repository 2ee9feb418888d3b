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

const transactionColumns = "id, user_id, title, amount, category, type, date, icon, created_at, updated_at"

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var typ string
	var date, createdAt, updatedAt int64
	if err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Amount, &t.Category,
		&typ, &date, &t.Icon, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(typ)
	t.Date = fromMillis(date)
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return t, nil
}

// filterScope narrows sc by the non-zero fields of f.
func filterScope(sc *scope, f models.TransactionFilter) *scope {
	if f.Type != "" {
		sc.and("type = ?", string(f.Type))
	}
	if f.Category != "" {
		sc.and("category = ?", f.Category)
	}
	if !f.From.IsZero() {
		sc.and("date >= ?", toMillis(f.From))
	}
	if !f.To.IsZero() {
		sc.and("date < ?", toMillis(f.To))
	}
	return sc
}

// CreateTransaction persists a new transaction, assigning ID and timestamps if unset.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = t.CreatedAt

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions ("+transactionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.UserID, t.Title, t.Amount, t.Category, string(t.Type),
		toMillis(t.Date), t.Icon, toMillis(t.CreatedAt), toMillis(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction owned by userID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	sc := ownerScope(userID).and("id = ?", id)
	row := s.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions"+sc.where(), sc.args...)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// UpdateTransaction overwrites the mutable fields of a transaction owned by t.UserID.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now()
	}

	sc := ownerScope(t.UserID).and("id = ?", t.ID)
	args := append([]any{
		t.Title, t.Amount, t.Category, string(t.Type), toMillis(t.Date), t.Icon, toMillis(t.UpdatedAt),
	}, sc.args...)

	res, err := s.db.ExecContext(ctx,
		"UPDATE transactions SET title = ?, amount = ?, category = ?, type = ?, date = ?, icon = ?, updated_at = ?"+sc.where(),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return checkAffected(res, "transaction "+t.ID)
}

// DeleteTransaction removes a transaction owned by userID.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	sc := ownerScope(userID).and("id = ?", id)
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions"+sc.where(), sc.args...)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return checkAffected(res, "transaction "+id)
}

// ListTransactions returns the user's transactions matching filter, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error) {
	sc := filterScope(ownerScope(userID), filter)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions"+sc.where()+" ORDER BY date DESC, created_at DESC",
		sc.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

// SumTransactions totals the amounts of the user's transactions matching filter.
func (s *SQLiteStore) SumTransactions(ctx context.Context, userID string, filter models.TransactionFilter) (float64, error) {
	sc := filterScope(ownerScope(userID), filter)
	var total float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM transactions"+sc.where(),
		sc.args...,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}
