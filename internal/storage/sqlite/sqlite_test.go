package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/ledger/internal/models"
	"github.com/mmynk/ledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, email, name string) *models.User {
	t.Helper()

	user := models.NewUser(email, name, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "Alice@Example.com ", "Alice")

	t.Run("GetUserByEmail uses normalized email", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != alice.ID || got.Name != "Alice" {
			t.Errorf("got %+v, want alice", got)
		}
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other", "hash")
		if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("CreateUser duplicate error = %v, want ErrConflict", err)
		}
	})

	t.Run("missing user is not found", func(t *testing.T) {
		if _, err := store.GetUserByID(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByID error = %v, want ErrNotFound", err)
		}
	})

	t.Run("profile pictures", func(t *testing.T) {
		if err := store.UpdateProfilePicture(ctx, alice.ID, "/uploads/profile-1.png"); err != nil {
			t.Fatalf("UpdateProfilePicture failed: %v", err)
		}
		pics, err := store.ProfilePictures(ctx)
		if err != nil {
			t.Fatalf("ProfilePictures failed: %v", err)
		}
		if len(pics) != 1 || pics[0] != "/uploads/profile-1.png" {
			t.Errorf("ProfilePictures = %v", pics)
		}
	})

}

func TestTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")

	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 12, 0, 0, 0, time.UTC) }
	seed := []models.Transaction{
		{UserID: alice.ID, Title: "Salary", Amount: 3000, Category: "Salary", Type: models.TransactionIncome, Date: day(time.May, 1)},
		{UserID: alice.ID, Title: "Lunch", Amount: 12.5, Category: "Food", Type: models.TransactionExpense, Date: day(time.May, 3)},
		{UserID: alice.ID, Title: "Dinner", Amount: 30, Category: "Food", Type: models.TransactionExpense, Date: day(time.April, 30)},
		{UserID: bob.ID, Title: "Bob food", Amount: 99, Category: "Food", Type: models.TransactionExpense, Date: day(time.May, 2)},
	}
	for i := range seed {
		if err := store.CreateTransaction(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	t.Run("list is scoped to owner and sorted newest first", func(t *testing.T) {
		txs, err := store.ListTransactions(ctx, alice.ID, models.TransactionFilter{})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 3 {
			t.Fatalf("got %d transactions, want 3", len(txs))
		}
		for i := 1; i < len(txs); i++ {
			if txs[i].Date.After(txs[i-1].Date) {
				t.Errorf("transactions not sorted by date desc: %v before %v", txs[i-1].Date, txs[i].Date)
			}
		}
	})

	t.Run("filters combine", func(t *testing.T) {
		txs, err := store.ListTransactions(ctx, alice.ID, models.TransactionFilter{
			Type:     models.TransactionExpense,
			Category: "Food",
			From:     day(time.May, 1),
		})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 1 || txs[0].Title != "Lunch" {
			t.Errorf("got %+v, want only Lunch", txs)
		}
	})

	t.Run("sum respects window", func(t *testing.T) {
		total, err := store.SumTransactions(ctx, alice.ID, models.TransactionFilter{
			Type: models.TransactionExpense,
			From: day(time.May, 1),
			To:   day(time.June, 1),
		})
		if err != nil {
			t.Fatalf("SumTransactions failed: %v", err)
		}
		if total != 12.5 {
			t.Errorf("sum = %v, want 12.5", total)
		}
	})

	t.Run("other users cannot read update or delete", func(t *testing.T) {
		id := seed[0].ID
		if _, err := store.GetTransaction(ctx, bob.ID, id); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetTransaction as bob error = %v, want ErrNotFound", err)
		}

		hijack := seed[0]
		hijack.UserID = bob.ID
		hijack.Amount = 1
		if err := store.UpdateTransaction(ctx, &hijack); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateTransaction as bob error = %v, want ErrNotFound", err)
		}
		if err := store.DeleteTransaction(ctx, bob.ID, id); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteTransaction as bob error = %v, want ErrNotFound", err)
		}

		got, err := store.GetTransaction(ctx, alice.ID, id)
		if err != nil {
			t.Fatalf("GetTransaction as owner failed: %v", err)
		}
		if got.Amount != 3000 {
			t.Errorf("amount changed to %v by non-owner", got.Amount)
		}
	})

	t.Run("owner can update and delete", func(t *testing.T) {
		tx := seed[1]
		tx.Title = "Big lunch"
		tx.UpdatedAt = time.Time{}
		if err := store.UpdateTransaction(ctx, &tx); err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}
		got, _ := store.GetTransaction(ctx, alice.ID, tx.ID)
		if got.Title != "Big lunch" {
			t.Errorf("title = %q, want Big lunch", got.Title)
		}

		if err := store.DeleteTransaction(ctx, alice.ID, tx.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		if _, err := store.GetTransaction(ctx, alice.ID, tx.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("deleted transaction still readable: %v", err)
		}
	})
}

func TestBudgets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")

	first := &models.Budget{UserID: alice.ID, Category: "Food", Limit: 500}
	if err := store.UpsertBudget(ctx, first); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}
	second := &models.Budget{UserID: alice.ID, Category: "Food", Limit: 750}
	if err := store.UpsertBudget(ctx, second); err != nil {
		t.Fatalf("UpsertBudget (overwrite) failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert created a new row: %s != %s", second.ID, first.ID)
	}

	budgets, err := store.ListBudgets(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListBudgets failed: %v", err)
	}
	if len(budgets) != 1 || budgets[0].Limit != 750 {
		t.Fatalf("budgets = %+v, want one Food budget with limit 750", budgets)
	}

	if err := store.DeleteBudget(ctx, bob.ID, first.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteBudget as bob error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteBudget(ctx, alice.ID, first.ID); err != nil {
		t.Errorf("DeleteBudget failed: %v", err)
	}
}

func TestGroupsAndExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice@example.com", "Alice")
	bob := createUser(t, store, "bob@example.com", "Bob")
	carol := createUser(t, store, "carol@example.com", "Carol")

	group := &models.Group{Name: "Trip", CreatedBy: alice.ID, Members: []models.UserRef{alice.Ref()}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("AddMember appends in order", func(t *testing.T) {
		for _, u := range []*models.User{bob, carol} {
			if err := store.AddMember(ctx, group.ID, u.ID, time.Now()); err != nil {
				t.Fatalf("AddMember(%s) failed: %v", u.Name, err)
			}
		}
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		ids := got.MemberIDs()
		want := []string{alice.ID, bob.ID, carol.ID}
		if len(ids) != len(want) {
			t.Fatalf("members = %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("member %d = %s, want %s", i, ids[i], want[i])
			}
		}
	})

	t.Run("AddMember twice is a conflict", func(t *testing.T) {
		if err := store.AddMember(ctx, group.ID, bob.ID, time.Now()); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("AddMember duplicate error = %v, want ErrConflict", err)
		}
	})

	t.Run("UpdateGroup rejects a stale version", func(t *testing.T) {
		current, _ := store.GetGroup(ctx, group.ID)
		stale := *current

		current.Name = "Road trip"
		if err := store.UpdateGroup(ctx, current); err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}
		stale.Name = "Lost update"
		if err := store.UpdateGroup(ctx, &stale); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("UpdateGroup stale error = %v, want ErrConflict", err)
		}
	})

	t.Run("ListGroupsForUser only returns memberships", func(t *testing.T) {
		solo := &models.Group{Name: "Solo", CreatedBy: bob.ID, Members: []models.UserRef{bob.Ref()}}
		if err := store.CreateGroup(ctx, solo); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		groups, err := store.ListGroupsForUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("groups = %+v, want only %s", groups, group.ID)
		}
		if len(groups[0].Members) != 3 {
			t.Errorf("members not populated: %+v", groups[0].Members)
		}
	})

	t.Run("expense splits survive member removal", func(t *testing.T) {
		expense := &models.GroupExpense{
			GroupID:     group.ID,
			Description: "Fuel",
			Amount:      300,
			PaidBy:      alice.Ref(),
			Date:        time.Now(),
			Splits: []models.Split{
				{User: alice.Ref(), Amount: 100},
				{User: bob.Ref(), Amount: 100},
				{User: carol.Ref(), Amount: 100},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if err := store.RemoveMember(ctx, group.ID, bob.ID, time.Now()); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}

		got, err := store.GetExpense(ctx, group.ID, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if len(got.Splits) != 3 || got.Splits[1].User.ID != bob.ID {
			t.Errorf("splits changed after removal: %+v", got.Splits)
		}
		if got.PaidBy.Name != "Alice" {
			t.Errorf("payer not populated: %+v", got.PaidBy)
		}
	})

	t.Run("expense lookup is scoped to its group", func(t *testing.T) {
		other := &models.Group{Name: "Other", CreatedBy: carol.ID, Members: []models.UserRef{carol.Ref()}}
		if err := store.CreateGroup(ctx, other); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		expenses, _ := store.ListExpenses(ctx, group.ID)
		if len(expenses) == 0 {
			t.Fatal("expected an expense in the trip group")
		}
		if _, err := store.GetExpense(ctx, other.ID, expenses[0].ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetExpense via other group error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteGroup cascades to expenses", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetGroup after delete error = %v, want ErrNotFound", err)
		}
		expenses, err := store.ListExpenses(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("expenses survived group deletion: %d", len(expenses))
		}
	})
}
