package auth

import (
	"context"

	"github.com/mmynk/ledger/internal/models"
)

// Authenticator verifies who a user is. Password login is the only
// implementation today; the interface keeps services independent of it.
type Authenticator interface {
	// Register creates a new account. The credential format depends on the
	// implementation.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate returns the user whose credentials match.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks a credential against the implementation's rules.
	ValidateCredential(credential string) error
}
