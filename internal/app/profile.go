package app

import (
	"context"
	"fmt"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/guard"
)

// Profile shows the signed-in user's account.
type Profile struct {
	User     *domain.UserProfile
	AreaName string

	d Deps
}

func NewProfile(d Deps) *Profile { return &Profile{d: d} }

func (s *Profile) Load(ctx context.Context, profile *domain.UserProfile) string {
	s.User = profile
	if profile == nil {
		return guard.RouteLogin
	}
	if profile.AreaID == "" {
		return ""
	}

	areas, err := s.d.Areas.List(ctx)
	if done(ctx) || err != nil {
		return ""
	}
	for _, a := range areas {
		if a.ID == profile.AreaID {
			s.AreaName = a.Name
		}
	}
	return ""
}

// AccountInfo is the text of the account information dialog.
func (s *Profile) AccountInfo() string {
	if s.User == nil {
		return ""
	}
	kind := "Resident"
	if s.User.Role == domain.RoleOfficial {
		kind = "Official"
	}
	return fmt.Sprintf("Email: %s\n\nBarangay: %s\n\nAccount Type: %s\n\nUser ID: %s",
		s.User.Email, s.AreaName, kind, s.User.UID)
}

func (s *Profile) Logout(ctx context.Context) string { return logout(ctx, s.d) }
