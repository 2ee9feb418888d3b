package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/mmynk/ledger/internal/models"
)

func seedTransactions(t *testing.T, env *testEnv, userID string, txs []models.Transaction) {
	t.Helper()
	for i := range txs {
		txs[i].UserID = userID
		if err := env.store.CreateTransaction(context.Background(), &txs[i]); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}
}

func TestDashboardSummary(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewReportService(env.store, env.opts()...)
	ctx := context.Background()
	alice, bob := env.user(t, "alice"), env.user(t, "bob")

	old := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	seedTransactions(t, env, alice.ID, []models.Transaction{
		{Title: "salary", Amount: 2000, Category: "Salary", Type: models.TransactionIncome, Date: testNow},
		{Title: "ancient bonus", Amount: 500, Category: "Bonus", Type: models.TransactionIncome, Date: old},
		{Title: "rent", Amount: 800.5, Category: "Rent", Type: models.TransactionExpense, Date: testNow},
	})
	seedTransactions(t, env, bob.ID, []models.Transaction{
		{Title: "bob salary", Amount: 99999, Category: "Salary", Type: models.TransactionIncome, Date: testNow},
	})

	got, err := svc.DashboardSummary(ctx, alice.ID)
	if err != nil {
		t.Fatalf("DashboardSummary failed: %v", err)
	}
	if got.TotalIncome != 2500 || got.TotalExpenses != 800.5 || math.Abs(got.TotalBalance-1699.5) > 0.001 {
		t.Errorf("summary = %+v", got)
	}

	empty, err := svc.DashboardSummary(ctx, env.user(t, "carol").ID)
	if err != nil {
		t.Fatalf("DashboardSummary failed: %v", err)
	}
	if *empty != (models.DashboardSummary{}) {
		t.Errorf("empty summary = %+v, want zeros", empty)
	}
}

func TestThirtyDaySeries(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewReportService(env.store, env.opts()...)
	ctx := context.Background()
	alice := env.user(t, "alice")

	day := func(m time.Month, d, h int) time.Time { return time.Date(2024, m, d, h, 0, 0, 0, time.UTC) }
	seedTransactions(t, env, alice.ID, []models.Transaction{
		{Title: "a", Amount: 10, Category: "Food", Type: models.TransactionExpense, Date: day(time.March, 14, 9)},
		{Title: "b", Amount: 5, Category: "Fun", Type: models.TransactionExpense, Date: day(time.March, 14, 20)},
		{Title: "c", Amount: 7, Category: "Food", Type: models.TransactionExpense, Date: day(time.February, 20, 9)},
		{Title: "too old", Amount: 100, Category: "Food", Type: models.TransactionExpense, Date: day(time.February, 10, 9)},
		{Title: "income", Amount: 50, Category: "Salary", Type: models.TransactionIncome, Date: day(time.March, 1, 9)},
	})

	expenses, err := svc.ThirtyDayExpenses(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ThirtyDayExpenses failed: %v", err)
	}
	want := []models.Bucket{{Key: "2024-02-20", Total: 7}, {Key: "2024-03-14", Total: 15}}
	if len(expenses) != len(want) {
		t.Fatalf("expenses = %+v, want %+v", expenses, want)
	}
	for i := range want {
		if expenses[i] != want[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, expenses[i], want[i])
		}
	}

	income, err := svc.ThirtyDayIncome(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ThirtyDayIncome failed: %v", err)
	}
	if len(income) != 1 || income[0].Key != "2024-03-01" || income[0].Total != 50 {
		t.Errorf("income = %+v", income)
	}
}

func TestSixtyDayIncomeByCategory(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewReportService(env.store, env.opts()...)
	ctx := context.Background()
	alice := env.user(t, "alice")

	seedTransactions(t, env, alice.ID, []models.Transaction{
		{Title: "jan pay", Amount: 1000, Category: "Salary", Type: models.TransactionIncome, Date: time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)},
		{Title: "mar pay", Amount: 1000, Category: "Salary", Type: models.TransactionIncome, Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "gig", Amount: 150, Category: "Freelance", Type: models.TransactionIncome, Date: time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC)},
		{Title: "dec pay", Amount: 1000, Category: "Salary", Type: models.TransactionIncome, Date: time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{Title: "spend", Amount: 70, Category: "Freelance", Type: models.TransactionExpense, Date: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)},
	})

	got, err := svc.SixtyDayIncomeByCategory(ctx, alice.ID)
	if err != nil {
		t.Fatalf("SixtyDayIncomeByCategory failed: %v", err)
	}
	want := map[string]float64{"Salary": 2000, "Freelance": 150}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %v", got, want)
	}
	for _, b := range got {
		if want[b.Key] != b.Total {
			t.Errorf("%s = %v, want %v", b.Key, b.Total, want[b.Key])
		}
	}
}
