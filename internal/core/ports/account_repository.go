package ports

import (
	"context"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

// AccountRepository persists credential records for the identity backend.
type AccountRepository interface {
	// FindByEmail returns domain.ErrInvalidCredentials when no account is
	// registered for email, so callers cannot probe for accounts.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Create stores a new account. Returns domain.ErrEmailInUse when the
	// email is already registered.
	Create(ctx context.Context, account *domain.Account) error
}

// LoginLimiter throttles repeated failed sign-in attempts per email.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
