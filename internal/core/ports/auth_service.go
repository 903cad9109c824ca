package ports

import (
	"context"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

// Session is what the identity backend hands out after a successful
// sign-up or sign-in.
type Session struct {
	Identity domain.Identity
	Token    string
}

// AuthService is the server-side credential authority.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
}
