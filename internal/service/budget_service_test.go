package service

import (
	"context"
	"testing"
	"time"

	"github.com/mmynk/ledger/internal/models"
)

func TestSetBudgetUpserts(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewBudgetService(env.store, env.opts()...)
	ctx := context.Background()
	alice := env.user(t, "alice")

	if _, err := svc.SetBudget(ctx, alice.ID, "Food", 200); err != nil {
		t.Fatalf("SetBudget failed: %v", err)
	}
	if _, err := svc.SetBudget(ctx, alice.ID, " Food ", 350); err != nil {
		t.Fatalf("SetBudget (again) failed: %v", err)
	}

	budgets, err := svc.ListBudgets(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListBudgets failed: %v", err)
	}
	if len(budgets) != 1 || budgets[0].Limit != 350 {
		t.Errorf("budgets = %+v, want one Food budget with limit 350", budgets)
	}

	_, err = svc.SetBudget(ctx, alice.ID, "", 10)
	wantCode(t, err, CodeInvalidArgument)
	_, err = svc.SetBudget(ctx, alice.ID, "Fun", -1)
	wantCode(t, err, CodeInvalidArgument)
}

func TestBudgetSpentUsesCurrentMonth(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewBudgetService(env.store, env.opts()...)
	ctx := context.Background()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	// testNow is 2024-03-15.
	seed := []models.Transaction{
		{UserID: alice.ID, Title: "in month", Amount: 40, Category: "Food", Type: models.TransactionExpense, Date: time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC)},
		{UserID: alice.ID, Title: "first instant", Amount: 1, Category: "Food", Type: models.TransactionExpense, Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{UserID: alice.ID, Title: "last day evening", Amount: 9, Category: "Food", Type: models.TransactionExpense, Date: time.Date(2024, time.March, 31, 22, 30, 0, 0, time.UTC)},
		{UserID: alice.ID, Title: "previous month", Amount: 1000, Category: "Food", Type: models.TransactionExpense, Date: time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)},
		{UserID: alice.ID, Title: "next month", Amount: 1000, Category: "Food", Type: models.TransactionExpense, Date: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{UserID: alice.ID, Title: "income", Amount: 1000, Category: "Food", Type: models.TransactionIncome, Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{UserID: alice.ID, Title: "other category", Amount: 1000, Category: "Rent", Type: models.TransactionExpense, Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{UserID: bob.ID, Title: "someone else", Amount: 1000, Category: "Food", Type: models.TransactionExpense, Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
	}
	for i := range seed {
		if err := env.store.CreateTransaction(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	svc.SetBudget(ctx, alice.ID, "Food", 100)
	svc.SetBudget(ctx, alice.ID, "Travel", 500)

	budgets, err := svc.ListBudgets(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListBudgets failed: %v", err)
	}
	if len(budgets) != 2 {
		t.Fatalf("got %d budgets, want 2", len(budgets))
	}

	food, travel := budgets[0], budgets[1]
	if food.Spent != 50 {
		t.Errorf("Food spent = %v, want 50", food.Spent)
	}
	if food.Remaining != 50 {
		t.Errorf("Food remaining = %v, want 50", food.Remaining)
	}
	if travel.Spent != 0 {
		t.Errorf("Travel spent = %v, want 0", travel.Spent)
	}
}

func TestDeleteBudgetOwnership(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewBudgetService(env.store, env.opts()...)
	ctx := context.Background()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	b, _ := svc.SetBudget(ctx, alice.ID, "Food", 100)

	wantCode(t, svc.DeleteBudget(ctx, bob.ID, b.ID), CodeNotFound)
	if err := svc.DeleteBudget(ctx, alice.ID, b.ID); err != nil {
		t.Fatalf("DeleteBudget failed: %v", err)
	}
	wantCode(t, svc.DeleteBudget(ctx, alice.ID, b.ID), CodeNotFound)
}
