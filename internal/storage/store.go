// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/ledger/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist or is not visible
	// to the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with existing state:
	// a duplicate key, an existing member, or a stale version.
	ErrConflict = errors.New("conflict")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfilePicture(ctx context.Context, userID, picture string) error
	// ProfilePictures lists every picture path currently referenced by a user.
	ProfilePictures(ctx context.Context) ([]string, error)
}

// TransactionStore persists transactions. Every method is scoped to the
// owning user; records owned by anyone else behave as if absent.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	// ListTransactions returns matching transactions sorted by date, newest first.
	ListTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error)
	// SumTransactions totals matching transaction amounts.
	SumTransactions(ctx context.Context, userID string, filter models.TransactionFilter) (float64, error)
}

// BudgetStore persists budgets, scoped to the owning user.
type BudgetStore interface {
	// UpsertBudget creates the budget for (UserID, Category) or replaces its
	// limit. budget is updated with the stored ID and timestamps.
	UpsertBudget(ctx context.Context, budget *models.Budget) error
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	// GetGroup returns the group with members populated in insertion order.
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	// ListGroupsForUser returns groups the user belongs to, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]models.Group, error)
	// UpdateGroup writes name and description if the stored version equals
	// group.Version, then increments it. A stale version yields ErrConflict.
	UpdateGroup(ctx context.Context, group *models.Group) error
	// DeleteGroup removes the group together with its expenses.
	DeleteGroup(ctx context.Context, id string) error
	// AddMember appends userID to the group unless already present, in which
	// case it returns ErrConflict. The check and insert are one statement.
	AddMember(ctx context.Context, groupID, userID string, at time.Time) error
	// RemoveMember deletes userID from the group. Removing a non-member is a no-op.
	RemoveMember(ctx context.Context, groupID, userID string, at time.Time) error
}

// ExpenseStore persists group expenses and their splits.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.GroupExpense) error
	GetExpense(ctx context.Context, groupID, id string) (*models.GroupExpense, error)
	// ListExpenses returns a group's expenses, newest first.
	ListExpenses(ctx context.Context, groupID string) ([]models.GroupExpense, error)
	// UpdateExpense writes description, amount, payer and date. Splits are not touched.
	UpdateExpense(ctx context.Context, expense *models.GroupExpense) error
	DeleteExpense(ctx context.Context, groupID, id string) error
}

// Store aggregates every storage concern.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	TransactionStore
	BudgetStore
	GroupStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}
