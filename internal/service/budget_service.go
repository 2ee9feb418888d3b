package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledger/internal/calculator"
	"github.com/mmynk/ledger/internal/models"
	"github.com/mmynk/ledger/internal/storage"
)

// BudgetService manages per-category monthly budgets.
type BudgetService struct {
	store storage.Store
	options
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(store storage.Store, opts ...Option) *BudgetService {
	return &BudgetService{store: store, options: buildOptions(opts)}
}

// SetBudget creates or replaces the budget for category. The last write wins.
func (s *BudgetService) SetBudget(ctx context.Context, userID, category string, limit float64) (*models.Budget, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, Errorf(CodeInvalidArgument, "Category is required")
	}
	if limit < 0 {
		return nil, Errorf(CodeInvalidArgument, "Limit must not be negative")
	}

	budget := &models.Budget{
		UserID:    userID,
		Category:  category,
		Limit:     limit,
		UpdatedAt: s.clock.Now(),
	}
	if err := s.store.UpsertBudget(ctx, budget); err != nil {
		slog.ErrorContext(ctx, "SetBudget failed", "user_id", userID, "category", category, "error", err)
		return nil, NewError(CodeInternal, err)
	}

	slog.InfoContext(ctx, "Budget set", "user_id", userID, "category", category, "limit", limit)
	return budget, nil
}

// ListBudgets returns userID's budgets with Spent set to this calendar
// month's expense total in each budget's category.
func (s *BudgetService) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "ListBudgets failed", "user_id", userID, "error", err)
		return nil, NewError(CodeInternal, err)
	}

	start, end := calculator.MonthWindow(s.clock.Now())
	for i := range budgets {
		b := &budgets[i]
		spent, err := s.store.SumTransactions(ctx, userID, models.TransactionFilter{
			Type:     models.TransactionExpense,
			Category: b.Category,
			From:     start,
			To:       end,
		})
		if err != nil {
			slog.ErrorContext(ctx, "ListBudgets failed to sum spending", "category", b.Category, "error", err)
			return nil, NewError(CodeInternal, err)
		}
		b.Spent = spent
		b.Remaining = decimal.NewFromFloat(b.Limit).Sub(decimal.NewFromFloat(spent)).InexactFloat64()
	}
	return budgets, nil
}

// DeleteBudget removes one of userID's budgets.
func (s *BudgetService) DeleteBudget(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteBudget(ctx, userID, id); err != nil {
		return storeError(err, "Budget not found")
	}
	slog.InfoContext(ctx, "Budget deleted", "user_id", userID, "budget_id", id)
	return nil
}
