package app

import (
	"context"
	"errors"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/guard"
	"github.com/komunidad/bulletin-board/internal/core/service"
)

const msgFillAllFields = "Please fill in all fields"

// Login is the sign-in screen.
type Login struct {
	Email    string
	Password string
	Loading  bool

	d Deps
}

func NewLogin(d Deps) *Login { return &Login{d: d} }

// Submit signs in and returns the route to show next, or "" to stay.
func (s *Login) Submit(ctx context.Context) string {
	if s.Email == "" || s.Password == "" {
		s.d.Notifier.Notify(LevelWarning, msgFillAllFields)
		return ""
	}

	s.Loading = true
	profile, err := s.d.Accounts.Login(ctx, s.Email, s.Password)
	if done(ctx) {
		return ""
	}
	s.Loading = false

	if err != nil {
		s.d.Log.Warn().Err(err).Msg("login failed")
		s.d.Notifier.Notify(LevelDanger, loginMessage(err))
		return ""
	}

	s.d.Notifier.Notify(LevelSuccess, "Login successful!")
	if profile == nil {
		return guard.RouteHome
	}
	return guard.HomeFor(profile.Role)
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email format"
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many attempts. Please try again later"
	case errors.Is(err, domain.ErrProfileNotFound), errors.Is(err, domain.ErrForbidden):
		return "Error loading user profile."
	default:
		return "Login failed"
	}
}

// Register is the sign-up screen.
type Register struct {
	Email           string
	Password        string
	ConfirmPassword string
	Role            domain.Role
	AreaID          string

	Areas        []domain.Area
	LoadingAreas bool
	Loading      bool

	d Deps
}

func NewRegister(d Deps) *Register {
	return &Register{Role: domain.RoleResident, LoadingAreas: true, d: d}
}

// Load fetches the areas offered in the area picker.
func (s *Register) Load(ctx context.Context) {
	areas, err := s.d.Areas.List(ctx)
	if done(ctx) {
		return
	}
	s.LoadingAreas = false
	if err != nil {
		s.d.Log.Error().Err(err).Msg("load areas")
		s.d.Notifier.Notify(LevelDanger, "Failed to load barangays")
		return
	}
	s.Areas = areas
}

// Submit validates the form, creates the account and profile, and returns
// the role's home route, or "" to stay.
func (s *Register) Submit(ctx context.Context) string {
	if s.Email == "" || s.Password == "" || s.ConfirmPassword == "" || s.AreaID == "" {
		s.d.Notifier.Notify(LevelWarning, msgFillAllFields)
		return ""
	}
	if s.Password != s.ConfirmPassword {
		s.d.Notifier.Notify(LevelWarning, "Passwords do not match")
		return ""
	}
	if len(s.Password) < service.MinPasswordLength {
		s.d.Notifier.Notify(LevelWarning, "Password must be at least 6 characters")
		return ""
	}

	s.Loading = true
	_, err := s.d.Accounts.Register(ctx, s.Email, s.Password, s.Role, s.AreaID)
	if done(ctx) {
		return ""
	}
	s.Loading = false

	if err != nil {
		s.d.Log.Warn().Err(err).Msg("registration failed")
		s.d.Notifier.Notify(LevelDanger, registerMessage(err))
		return ""
	}

	s.d.Notifier.Notify(LevelSuccess, "Registration successful!")
	return guard.HomeFor(s.Role)
}

func registerMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailInUse):
		return "Email already in use"
	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email format"
	case errors.Is(err, domain.ErrWeakPassword):
		return "Password is too weak"
	default:
		return "Registration failed"
	}
}
