package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/ports"
)

// AccountService pairs identity operations with the profile record that
// belongs to each identity.
type AccountService struct {
	identity ports.IdentityProvider
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

func NewAccountService(identity ports.IdentityProvider, profiles ports.ProfileRepository, log zerolog.Logger) *AccountService {
	return &AccountService{identity: identity, profiles: profiles, log: log}
}

// Register creates the identity and then writes its profile. The profile is
// returned as stored.
func (s *AccountService) Register(ctx context.Context, email, password string, role domain.Role, areaID string) (*domain.UserProfile, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("register: unknown role %q", role)
	}

	id, err := s.identity.SignUp(ctx, email, password)
	if err != nil {
		s.logUnexpected(err, "sign up failed")
		return nil, err
	}

	profile := &domain.UserProfile{
		UID:    id.UID,
		Email:  id.Email,
		Role:   role,
		AreaID: areaID,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		s.log.Error().Err(err).Str("uid", id.UID).Msg("identity created but profile write failed")
		return nil, fmt.Errorf("write profile: %w", err)
	}
	return profile, nil
}

// Login signs in and loads the profile. A missing profile is not an error:
// the returned profile is nil and the caller routes as a resident.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	id, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		s.logUnexpected(err, "sign in failed")
		return nil, err
	}

	profile, err := s.profiles.Get(ctx, id.UID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		s.log.Warn().Str("uid", id.UID).Msg("signed in without a profile")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

func (s *AccountService) Logout(ctx context.Context) error {
	return s.identity.SignOut(ctx)
}

// logUnexpected records failures that are not user-facing credential errors.
func (s *AccountService) logUnexpected(err error, msg string) {
	if domain.IsAuthError(err) || errors.Is(err, context.Canceled) {
		return
	}
	s.log.Error().Err(err).Msg(msg)
}
