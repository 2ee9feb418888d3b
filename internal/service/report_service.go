package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/ledger/internal/calculator"
	"github.com/mmynk/ledger/internal/models"
	"github.com/mmynk/ledger/internal/storage"
)

// ReportService computes dashboard aggregates over a user's transactions.
type ReportService struct {
	store storage.Store
	options
}

// NewReportService creates a new ReportService.
func NewReportService(store storage.Store, opts ...Option) *ReportService {
	return &ReportService{store: store, options: buildOptions(opts)}
}

// DashboardSummary returns all-time income, expenses and balance.
func (s *ReportService) DashboardSummary(ctx context.Context, userID string) (*models.DashboardSummary, error) {
	txs, err := s.store.ListTransactions(ctx, userID, models.TransactionFilter{})
	if err != nil {
		slog.ErrorContext(ctx, "DashboardSummary failed", "user_id", userID, "error", err)
		return nil, NewError(CodeInternal, err)
	}
	summary := calculator.Summary(txs)
	return &summary, nil
}

// ThirtyDayExpenses returns daily expense totals for the last 30 days,
// keyed by UTC calendar day.
func (s *ReportService) ThirtyDayExpenses(ctx context.Context, userID string) ([]models.Bucket, error) {
	return s.daily(ctx, userID, models.TransactionExpense)
}

// ThirtyDayIncome returns daily income totals for the last 30 days.
func (s *ReportService) ThirtyDayIncome(ctx context.Context, userID string) ([]models.Bucket, error) {
	return s.daily(ctx, userID, models.TransactionIncome)
}

// SixtyDayIncomeByCategory returns income totals per category for the last 60 days.
func (s *ReportService) SixtyDayIncomeByCategory(ctx context.Context, userID string) ([]models.Bucket, error) {
	now := s.clock.Now()
	txs, err := s.store.ListTransactions(ctx, userID, models.TransactionFilter{
		Type: models.TransactionIncome,
		From: calculator.CategoryStart(now),
	})
	if err != nil {
		slog.ErrorContext(ctx, "SixtyDayIncome failed", "user_id", userID, "error", err)
		return nil, NewError(CodeInternal, err)
	}
	return calculator.CategoryTotals(txs), nil
}

func (s *ReportService) daily(ctx context.Context, userID string, typ models.TransactionType) ([]models.Bucket, error) {
	now := s.clock.Now()
	txs, err := s.store.ListTransactions(ctx, userID, models.TransactionFilter{
		Type: typ,
		From: calculator.RecentStart(now),
	})
	if err != nil {
		slog.ErrorContext(ctx, "Daily series failed", "user_id", userID, "type", typ, "error", err)
		return nil, NewError(CodeInternal, err)
	}
	return calculator.DailyTotals(txs, time.UTC), nil
}
