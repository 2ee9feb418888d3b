package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/ledger/internal/clock"
	"github.com/mmynk/ledger/internal/events"
	"github.com/mmynk/ledger/internal/models"
	"github.com/mmynk/ledger/internal/storage/sqlite"
)

// testNow is mid-month so month windows have room on both sides.
var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store  *sqlite.SQLiteStore
	clock  clock.Clock
	events *events.Memory
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &testEnv{
		store:  store,
		clock:  clock.Fixed{T: testNow},
		events: &events.Memory{},
	}
}

func (e *testEnv) opts() []Option {
	return []Option{WithClock(e.clock), WithPublisher(e.events)}
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := models.NewUser(name+"@example.com", name, "hash")
	if err := e.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return u
}

func wantCode(t *testing.T, err error, want Code) {
	t.Helper()
	if got := CodeOf(err); got != want {
		t.Fatalf("error code = %v (%v), want %v", got, err, want)
	}
}

func ptr[T any](v T) *T { return &v }

const time48h = 48 * time.Hour

func fixedAt(t time.Time) clock.Clock { return clock.Fixed{T: t} }
