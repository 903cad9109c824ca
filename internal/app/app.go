// Package app holds the view-state of each client screen. A screen keeps its
// form and list state, calls into the core services, and reports outcomes
// through a Notifier. Screens are driven by a single goroutine; the methods
// are not safe for concurrent use.
//
// Every method that waits on I/O takes a context. When that context is done
// by the time a result arrives, the result is dropped and the screen is left
// as it was.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/guard"
)

// Level is the severity of a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Notifier shows short dismissible messages.
type Notifier interface {
	Notify(level Level, message string)
}

// Accounts is the identity side used by the login, register and logout
// flows.
type Accounts interface {
	Register(ctx context.Context, email, password string, role domain.Role, areaID string) (*domain.UserProfile, error)
	Login(ctx context.Context, email, password string) (*domain.UserProfile, error)
	Logout(ctx context.Context) error
}

// Announcements is the announcement repository as the screens see it.
type Announcements interface {
	ListByArea(ctx context.Context, areaID string) ([]domain.Announcement, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Announcement, error)
	ListAll(ctx context.Context) ([]domain.Announcement, error)
	GetByID(ctx context.Context, id string) (*domain.Announcement, error)
	Create(ctx context.Context, draft domain.AnnouncementDraft) (string, error)
	Update(ctx context.Context, actorUID, id string, patch domain.AnnouncementPatch) error
	Delete(ctx context.Context, actorUID, id string) error
}

// Areas is the area directory.
type Areas interface {
	List(ctx context.Context) ([]domain.Area, error)
}

// Deps are the collaborators shared by all screens.
type Deps struct {
	Accounts      Accounts
	Announcements Announcements
	Areas         Areas
	Notifier      Notifier
	Log           zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// done reports whether the screen that started a call has gone away.
func done(ctx context.Context) bool {
	return ctx.Err() != nil
}

// logout signs out and always lands on the login route; a failed sign-out
// is only logged.
func logout(ctx context.Context, d Deps) string {
	if err := d.Accounts.Logout(ctx); err != nil {
		d.Log.Error().Err(err).Msg("logout failed")
	}
	return guard.RouteLogin
}

// Date formats used by the list and detail screens.
const (
	ListDateLayout   = "Jan 2, 2006"
	DetailDateLayout = "January 2, 2006 at 03:04 PM"
)
