package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/mmynk/ledger/internal/clock"
	"github.com/mmynk/ledger/internal/models"
)

func TestJWTManager(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	manager := NewJWTManager("test-secret-key-0123456789", time.Hour).WithClock(clock.Fixed{T: now})
	user := &models.User{ID: "user-1", Email: "alice@example.com"}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("valid token round-trips claims", func(t *testing.T) {
		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.UserID != "user-1" || claims.Email != "alice@example.com" {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		later := manager.WithClock(clock.Fixed{T: now.Add(2 * time.Hour)})
		if _, err := later.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate expired error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		other := NewJWTManager("another-secret-key-987654", time.Hour).WithClock(clock.Fixed{T: now})
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate with wrong secret error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("empty token is missing", func(t *testing.T) {
		if _, err := manager.Validate(""); !errors.Is(err, ErrMissingToken) {
			t.Errorf("Validate(\"\") error = %v, want ErrMissingToken", err)
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		if _, err := manager.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate garbage error = %v, want ErrInvalidToken", err)
		}
	})
}
