package ports

import (
	"context"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

// IdentityProvider is the client's view of the identity backend.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)
	SignOut(ctx context.Context) error
	// ObserveSession emits the current identity immediately and then every
	// change; nil means signed out. The channel closes when ctx is done.
	ObserveSession(ctx context.Context) <-chan *domain.Identity
}
