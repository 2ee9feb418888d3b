package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/ledger/internal/calculator"
	"github.com/mmynk/ledger/internal/models"
	"github.com/mmynk/ledger/internal/storage"
)

// TransactionService manages a user's own income and expense entries.
type TransactionService struct {
	store storage.Store
	options
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store storage.Store, opts ...Option) *TransactionService {
	return &TransactionService{store: store, options: buildOptions(opts)}
}

// TransactionInput is the payload for creating or patching a transaction.
// On update, nil fields are left unchanged.
type TransactionInput struct {
	Title    *string                 `json:"title"`
	Amount   *float64                `json:"amount"`
	Category *string                 `json:"category"`
	Type     *models.TransactionType `json:"type"`
	Date     *models.Date            `json:"date"`
	Icon     *string                 `json:"icon"`
}

// ListQuery holds the raw listing parameters accepted from clients.
type ListQuery struct {
	Type      string
	Category  string
	DateRange string
}

// CreateTransaction validates and stores a new transaction for userID.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	if in.Title == nil || in.Amount == nil || in.Category == nil || in.Type == nil {
		return nil, Errorf(CodeInvalidArgument, "Title, amount, category and type are required")
	}

	now := s.clock.Now()
	tx := &models.Transaction{UserID: userID, Date: now, CreatedAt: now}
	if err := applyTransactionInput(tx, in); err != nil {
		return nil, err
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		slog.ErrorContext(ctx, "CreateTransaction failed", "user_id", userID, "error", err)
		return nil, NewError(CodeInternal, err)
	}

	slog.InfoContext(ctx, "Transaction created", "user_id", userID, "transaction_id", tx.ID, "type", tx.Type)
	return tx, nil
}

// GetTransaction returns one of userID's transactions.
func (s *TransactionService) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, storeError(err, "Transaction not found")
	}
	return tx, nil
}

// UpdateTransaction applies a partial update to one of userID's transactions.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, id string, in TransactionInput) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, storeError(err, "Transaction not found")
	}

	if err := applyTransactionInput(tx, in); err != nil {
		return nil, err
	}
	tx.UpdatedAt = s.clock.Now()

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		slog.ErrorContext(ctx, "UpdateTransaction failed", "transaction_id", id, "error", err)
		return nil, storeError(err, "Transaction not found")
	}

	slog.InfoContext(ctx, "Transaction updated", "user_id", userID, "transaction_id", id)
	return tx, nil
}

// DeleteTransaction removes one of userID's transactions.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return storeError(err, "Transaction not found")
	}
	slog.InfoContext(ctx, "Transaction deleted", "user_id", userID, "transaction_id", id)
	return nil
}

// ListTransactions returns userID's transactions matching q, newest first.
// Category "all" disables the category filter. DateRange accepts "month"
// and "6months"; anything else is unbounded.
func (s *TransactionService) ListTransactions(ctx context.Context, userID string, q ListQuery) ([]models.Transaction, error) {
	filter := models.TransactionFilter{
		Type: models.TransactionType(q.Type),
		From: calculator.RangeStart(q.DateRange, s.clock.Now()),
	}
	if q.Category != "all" {
		filter.Category = q.Category
	}

	txs, err := s.store.ListTransactions(ctx, userID, filter)
	if err != nil {
		slog.ErrorContext(ctx, "ListTransactions failed", "user_id", userID, "error", err)
		return nil, NewError(CodeInternal, err)
	}
	return txs, nil
}

func applyTransactionInput(tx *models.Transaction, in TransactionInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Errorf(CodeInvalidArgument, "Title is required")
		}
		tx.Title = title
	}
	if in.Amount != nil {
		if *in.Amount < 0 {
			return Errorf(CodeInvalidArgument, "Amount must not be negative")
		}
		tx.Amount = *in.Amount
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			return Errorf(CodeInvalidArgument, "Category is required")
		}
		tx.Category = category
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return Errorf(CodeInvalidArgument, "Type must be income or expense")
		}
		tx.Type = *in.Type
	}
	if in.Date != nil && !in.Date.IsZero() {
		tx.Date = in.Date.Time
	}
	if in.Icon != nil {
		tx.Icon = *in.Icon
	}
	return nil
}
