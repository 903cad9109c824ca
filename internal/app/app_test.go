package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

type toast struct {
	level Level
	msg   string
}

type recordingNotifier struct {
	toasts []toast
}

func (n *recordingNotifier) Notify(level Level, msg string) {
	n.toasts = append(n.toasts, toast{level, msg})
}

func (n *recordingNotifier) last() toast {
	if len(n.toasts) == 0 {
		return toast{}
	}
	return n.toasts[len(n.toasts)-1]
}

type stubAccounts struct {
	profile   *domain.UserProfile
	err       error
	registers int
	logouts   int
}

func (a *stubAccounts) Register(_ context.Context, email, _ string, role domain.Role, areaID string) (*domain.UserProfile, error) {
	a.registers++
	if a.err != nil {
		return nil, a.err
	}
	return &domain.UserProfile{UID: "u1", Email: email, Role: role, AreaID: areaID}, nil
}

func (a *stubAccounts) Login(context.Context, string, string) (*domain.UserProfile, error) {
	return a.profile, a.err
}

func (a *stubAccounts) Logout(context.Context) error {
	a.logouts++
	return a.err
}

type stubAnnouncements struct {
	list    []domain.Announcement
	listErr error
	getErr  error
	saveErr error

	created []domain.AnnouncementDraft
	updated map[string]domain.AnnouncementPatch
	deleted []string
}

func (s *stubAnnouncements) ListByArea(_ context.Context, areaID string) ([]domain.Announcement, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.Announcement
	for _, a := range s.list {
		if a.AreaID == areaID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAnnouncements) ListByAuthor(_ context.Context, authorID string) ([]domain.Announcement, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.Announcement
	for _, a := range s.list {
		if a.AuthorID == authorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAnnouncements) ListAll(context.Context) ([]domain.Announcement, error) {
	return s.list, s.listErr
}

func (s *stubAnnouncements) GetByID(_ context.Context, id string) (*domain.Announcement, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, a := range s.list {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, domain.ErrAnnouncementNotFound
}

func (s *stubAnnouncements) Create(_ context.Context, d domain.AnnouncementDraft) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.created = append(s.created, d)
	return "new", nil
}

func (s *stubAnnouncements) Update(_ context.Context, _, id string, p domain.AnnouncementPatch) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.updated == nil {
		s.updated = make(map[string]domain.AnnouncementPatch)
	}
	s.updated[id] = p
	return nil
}

func (s *stubAnnouncements) Delete(_ context.Context, _, id string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubAreas struct {
	areas []domain.Area
	err   error
	// block, when set, holds List until ctx is done
	block bool
}

func (s *stubAreas) List(ctx context.Context) ([]domain.Area, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.areas, s.err
}

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	deps   Deps
	toasts *recordingNotifier
	acc    *stubAccounts
	ann    *stubAnnouncements
	areas  *stubAreas
}

func newFixture() *fixture {
	f := &fixture{
		toasts: &recordingNotifier{},
		acc:    &stubAccounts{},
		ann:    &stubAnnouncements{},
		areas:  &stubAreas{areas: []domain.Area{{ID: "a1", Name: "Poblacion"}, {ID: "a2", Name: "San Isidro"}}},
	}
	f.deps = Deps{
		Accounts:      f.acc,
		Announcements: f.ann,
		Areas:         f.areas,
		Notifier:      f.toasts,
		Log:           zerolog.Nop(),
		Now:           func() time.Time { return now },
	}
	return f
}

func post(id, title, category, area, author string, posted time.Time) domain.Announcement {
	return domain.Announcement{ID: id, Title: title, Description: title + " details", Category: category, AreaID: area, AuthorID: author, DatePosted: posted}
}

func cancelled() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

var errBoom = errors.New("boom")
