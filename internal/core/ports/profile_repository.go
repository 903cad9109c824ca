package ports

import (
	"context"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

// ProfileRepository reads and creates user profiles keyed by identity id.
type ProfileRepository interface {
	// Get returns domain.ErrProfileNotFound when no profile exists.
	Get(ctx context.Context, uid string) (*domain.UserProfile, error)
	// Create writes the profile once. Returns domain.ErrProfileExists when a
	// profile for the uid is already stored.
	Create(ctx context.Context, profile *domain.UserProfile) error
}

// AreaRepository reads the area reference data ordered by name.
type AreaRepository interface {
	List(ctx context.Context) ([]domain.Area, error)
}
