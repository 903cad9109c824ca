package app

import (
	"context"
	"errors"
	"slices"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/guard"
	"github.com/komunidad/bulletin-board/internal/core/search"
)

// Dashboard lists the announcements the signed-in official has authored.
type Dashboard struct {
	Profile       *domain.UserProfile
	Announcements []domain.Announcement
	Loading       bool

	d Deps
}

func NewDashboard(d Deps) *Dashboard { return &Dashboard{d: d} }

// Load fills the dashboard. It returns the route to leave for when the
// profile is missing or is not an official.
func (s *Dashboard) Load(ctx context.Context, profile *domain.UserProfile) string {
	if profile == nil {
		return guard.RouteLogin
	}
	if profile.Role != domain.RoleOfficial {
		return guard.HomeFor(profile.Role)
	}
	s.Profile = profile
	s.Loading = true

	list, err := s.d.Announcements.ListByAuthor(ctx, profile.UID)
	if done(ctx) {
		return ""
	}
	s.Loading = false
	if err != nil {
		s.d.Log.Error().Err(err).Msg("load dashboard")
		s.d.Notifier.Notify(LevelDanger, "Failed to load announcements")
		return ""
	}
	s.Announcements = list
	return ""
}

func (s *Dashboard) Refresh(ctx context.Context) {
	if s.Profile == nil {
		return
	}
	s.Loading = true
	list, err := s.d.Announcements.ListByAuthor(ctx, s.Profile.UID)
	if done(ctx) {
		return
	}
	s.Loading = false
	if err != nil {
		s.d.Notifier.Notify(LevelDanger, "Failed to refresh")
		return
	}
	s.Announcements = list
	s.d.Notifier.Notify(LevelSuccess, "Announcements refreshed")
}

// Delete removes the announcement and drops it from the list once the store
// confirms.
func (s *Dashboard) Delete(ctx context.Context, id string) {
	if s.Profile == nil || id == "" {
		return
	}
	err := s.d.Announcements.Delete(ctx, s.Profile.UID, id)
	if done(ctx) {
		return
	}
	if err != nil {
		s.d.Log.Error().Err(err).Str("id", id).Msg("delete announcement")
		s.d.Notifier.Notify(LevelDanger, "Failed to delete announcement")
		return
	}
	s.Announcements = slices.DeleteFunc(s.Announcements, func(a domain.Announcement) bool {
		return a.ID == id
	})
	s.d.Notifier.Notify(LevelSuccess, "Announcement deleted")
}

// CategoryCount is the number of listed announcements in category.
func (s *Dashboard) CategoryCount(category string) int {
	return search.CountByCategory(s.Announcements, category)
}

// RecentCount is the number of listed announcements from the last 7 days.
func (s *Dashboard) RecentCount() int {
	return search.CountSince(s.Announcements, s.d.now().AddDate(0, 0, -7))
}

func (s *Dashboard) Logout(ctx context.Context) string { return logout(ctx, s.d) }

// Form creates a new announcement or edits an existing one.
type Form struct {
	ID          string
	Title       string
	Description string
	Category    string
	Loading     bool

	d Deps
}

func NewForm(d Deps) *Form {
	return &Form{Category: domain.CategoryGeneral, d: d}
}

// Editing reports whether the form edits an existing announcement.
func (s *Form) Editing() bool { return s.ID != "" }

// Open prepares the form. A non-empty id switches to edit mode and loads the
// announcement's fields.
func (s *Form) Open(ctx context.Context, id string) {
	s.ID = id
	if id == "" {
		return
	}

	s.Loading = true
	a, err := s.d.Announcements.GetByID(ctx, id)
	if done(ctx) {
		return
	}
	s.Loading = false
	if err != nil {
		s.d.Log.Error().Err(err).Str("id", id).Msg("load announcement for edit")
		s.d.Notifier.Notify(LevelDanger, "Failed to load announcement")
		return
	}
	s.Title, s.Description, s.Category = a.Title, a.Description, a.Category
}

// Submit validates the fields and saves them for profile. It returns the
// dashboard route on success and "" to stay.
func (s *Form) Submit(ctx context.Context, profile *domain.UserProfile) string {
	if s.Title == "" || s.Description == "" || s.Category == "" {
		s.d.Notifier.Notify(LevelWarning, msgFillAllFields)
		return ""
	}
	if profile == nil {
		return guard.RouteLogin
	}

	s.Loading = true
	var err error
	if s.Editing() {
		err = s.d.Announcements.Update(ctx, profile.UID, s.ID, domain.AnnouncementPatch{
			Title:       &s.Title,
			Description: &s.Description,
			Category:    &s.Category,
		})
	} else {
		_, err = s.d.Announcements.Create(ctx, domain.AnnouncementDraft{
			Title:       s.Title,
			Description: s.Description,
			Category:    s.Category,
			AreaID:      profile.AreaID,
			AuthorID:    profile.UID,
		})
	}
	if done(ctx) {
		return ""
	}
	s.Loading = false

	action := "create"
	if s.Editing() {
		action = "update"
	}
	if err != nil {
		s.d.Log.Error().Err(err).Str("action", action).Msg("save announcement")
		if errors.Is(err, domain.ErrForbidden) {
			s.d.Notifier.Notify(LevelDanger, "You can only "+action+" your own announcements")
			return ""
		}
		s.d.Notifier.Notify(LevelDanger, "Failed to "+action+" announcement")
		return ""
	}

	s.d.Notifier.Notify(LevelSuccess, "Announcement "+action+"d")
	return guard.RouteDashboard
}
