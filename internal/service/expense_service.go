package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/ledger/internal/calculator"
	"github.com/mmynk/ledger/internal/events"
	"github.com/mmynk/ledger/internal/models"
	"github.com/mmynk/ledger/internal/storage"
)

// ExpenseService records shared expenses inside a group.
type ExpenseService struct {
	store  storage.Store
	groups *GroupService
	options
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, opts ...Option) *ExpenseService {
	return &ExpenseService{
		store:   store,
		groups:  NewGroupService(store, opts...),
		options: buildOptions(opts),
	}
}

// ExpenseInput is the payload for creating an expense.
type ExpenseInput struct {
	Description string       `json:"description"`
	Amount      float64      `json:"amount"`
	PaidBy      string       `json:"paidBy"`
	Date        *models.Date `json:"date"`
}

// ExpensePatch holds editable expense fields. Nil fields are left unchanged.
type ExpensePatch struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
	PaidBy      *string  `json:"paidBy"`
}

// CreateExpense records an expense and splits it equally among the group's
// current members. The payer defaults to the requester.
func (s *ExpenseService) CreateExpense(ctx context.Context, groupID, requesterID string, in ExpenseInput) (*models.GroupExpense, error) {
	slog.InfoContext(ctx, "CreateExpense request received",
		"group_id", groupID,
		"user_id", requesterID,
		"amount", in.Amount,
	)

	group, err := s.groups.loadForMember(ctx, groupID, requesterID, "User not authorized to add expenses to this group")
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, Errorf(CodeInvalidArgument, "Description is required")
	}

	splits, err := calculator.EqualSplit(in.Amount, group.Members)
	if err != nil {
		return nil, NewError(CodeInvalidArgument, err)
	}

	payerID := in.PaidBy
	if payerID == "" {
		payerID = requesterID
	}
	payer, err := s.store.GetUserByID(ctx, payerID)
	if err != nil {
		return nil, storeError(err, "Payer not found")
	}

	now := s.clock.Now()
	expense := &models.GroupExpense{
		GroupID:     group.ID,
		Description: description,
		Amount:      in.Amount,
		PaidBy:      payer.Ref(),
		Date:        now,
		Splits:      splits,
		CreatedAt:   now,
	}
	if in.Date != nil && !in.Date.IsZero() {
		expense.Date = in.Date.Time
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.ErrorContext(ctx, "CreateExpense failed", "group_id", groupID, "error", err)
		return nil, NewError(CodeInternal, err)
	}

	publish(ctx, s.publisher, events.Event{
		Type:       events.ExpenseCreated,
		GroupID:    groupID,
		ActorID:    requesterID,
		SubjectID:  expense.ID,
		Amount:     expense.Amount,
		OccurredAt: now,
	})
	slog.InfoContext(ctx, "Expense created",
		"group_id", groupID,
		"expense_id", expense.ID,
		"splits", len(splits),
	)
	return expense, nil
}

// ListExpenses returns a group's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, groupID, requesterID string) ([]models.GroupExpense, error) {
	if _, err := s.groups.loadForMember(ctx, groupID, requesterID, "User not authorized to view this group"); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		slog.ErrorContext(ctx, "ListExpenses failed", "group_id", groupID, "error", err)
		return nil, NewError(CodeInternal, err)
	}
	return expenses, nil
}

// UpdateExpense edits description, amount or payer. The recorded
// splits are kept as they were, even when the amount changes.
func (s *ExpenseService) UpdateExpense(ctx context.Context, groupID, expenseID, requesterID string, patch ExpensePatch) (*models.GroupExpense, error) {
	slog.InfoContext(ctx, "UpdateExpense request received", "group_id", groupID, "expense_id", expenseID)

	if _, err := s.groups.loadForMember(ctx, groupID, requesterID, "User not authorized to edit expenses in this group"); err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, groupID, expenseID)
	if err != nil {
		return nil, storeError(err, "Expense not found")
	}

	if patch.Description != nil {
		if d := strings.TrimSpace(*patch.Description); d != "" {
			expense.Description = d
		}
	}
	if patch.Amount != nil {
		if *patch.Amount <= 0 {
			return nil, NewError(CodeInvalidArgument, calculator.ErrNonPositiveAmt)
		}
		expense.Amount = *patch.Amount
	}
	if patch.PaidBy != nil && *patch.PaidBy != "" {
		payer, err := s.store.GetUserByID(ctx, *patch.PaidBy)
		if err != nil {
			return nil, storeError(err, "Payer not found")
		}
		expense.PaidBy = payer.Ref()
	}
	expense.UpdatedAt = s.clock.Now()

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.ErrorContext(ctx, "UpdateExpense failed", "expense_id", expenseID, "error", err)
		return nil, storeError(err, "Expense not found")
	}

	slog.InfoContext(ctx, "Expense updated", "group_id", groupID, "expense_id", expenseID)
	return expense, nil
}

// DeleteExpense removes an expense and its splits.
func (s *ExpenseService) DeleteExpense(ctx context.Context, groupID, expenseID, requesterID string) error {
	slog.InfoContext(ctx, "DeleteExpense request received", "group_id", groupID, "expense_id", expenseID)

	if _, err := s.groups.loadForMember(ctx, groupID, requesterID, "User not authorized to delete expenses in this group"); err != nil {
		return err
	}

	if err := s.store.DeleteExpense(ctx, groupID, expenseID); err != nil {
		return storeError(err, "Expense not found")
	}

	publish(ctx, s.publisher, events.Event{
		Type:       events.ExpenseDeleted,
		GroupID:    groupID,
		ActorID:    requesterID,
		SubjectID:  expenseID,
		OccurredAt: s.clock.Now(),
	})
	slog.InfoContext(ctx, "Expense deleted", "group_id", groupID, "expense_id", expenseID)
	return nil
}
