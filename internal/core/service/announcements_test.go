package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/ports"
	"github.com/komunidad/bulletin-board/internal/infrastructure/db/memory"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubAnnouncementStore struct {
	docs     map[string]domain.Announcement
	nextID   int
	queryErr error // if set, Query returns this error
	clock    time.Time
}

func newStubAnnouncementStore() *stubAnnouncementStore {
	return &stubAnnouncementStore{
		docs:  make(map[string]domain.Announcement),
		clock: time.Date(2025, 10, 16, 8, 0, 0, 0, time.UTC),
	}
}

func (s *stubAnnouncementStore) Query(_ context.Context, q ports.AnnouncementQuery) ([]domain.Announcement, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var out []domain.Announcement
	for _, a := range s.docs {
		if q.AreaID != "" && a.AreaID != q.AreaID {
			continue
		}
		if q.AuthorID != "" && a.AuthorID != q.AuthorID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DatePosted.After(out[j].DatePosted) })
	return out, nil
}

func (s *stubAnnouncementStore) Get(_ context.Context, id string) (*domain.Announcement, error) {
	a, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrAnnouncementNotFound
	}
	return &a, nil
}

func (s *stubAnnouncementStore) Add(_ context.Context, d domain.AnnouncementDraft) (string, error) {
	s.nextID++
	s.clock = s.clock.Add(time.Minute)
	id := fmt.Sprintf("a%d", s.nextID)
	s.docs[id] = domain.Announcement{
		ID: id, Title: d.Title, Description: d.Description, Category: d.Category,
		AreaID: d.AreaID, AuthorID: d.AuthorID, DatePosted: s.clock,
	}
	return id, nil
}

func (s *stubAnnouncementStore) Update(_ context.Context, id string, p domain.AnnouncementPatch) error {
	a, ok := s.docs[id]
	if !ok {
		return domain.ErrAnnouncementNotFound
	}
	s.docs[id] = p.Apply(a)
	return nil
}

func (s *stubAnnouncementStore) Delete(_ context.Context, id string) error {
	if _, ok := s.docs[id]; !ok {
		return domain.ErrAnnouncementNotFound
	}
	delete(s.docs, id)
	return nil
}

type stubSnapshotCache struct {
	entries map[string][]byte
}

func newStubSnapshotCache() *stubSnapshotCache {
	return &stubSnapshotCache{entries: make(map[string][]byte)}
}

func (c *stubSnapshotCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.entries[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (c *stubSnapshotCache) Set(_ context.Context, key string, value []byte) error {
	c.entries[key] = value
	return nil
}

func draft(title, area, author string) domain.AnnouncementDraft {
	return domain.AnnouncementDraft{
		Title: title, Description: "d", Category: domain.CategoryGeneral,
		AreaID: area, AuthorID: author,
	}
}

func newAnnouncements(store *stubAnnouncementStore, cache *stubSnapshotCache, opts ...AnnouncementsOption) *Announcements {
	return NewAnnouncements(store, cache, zerolog.Nop(), opts...)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAnnouncements_CreateAndListByArea(t *testing.T) {
	store := newStubAnnouncementStore()
	svc := newAnnouncements(store, newStubSnapshotCache())
	ctx := context.Background()

	first, _ := svc.Create(ctx, draft("first", "area1", "off1"))
	second, _ := svc.Create(ctx, draft("second", "area1", "off1"))
	_, _ = svc.Create(ctx, draft("elsewhere", "area2", "off2"))

	list, err := svc.ListByArea(ctx, "area1")
	if err != nil {
		t.Fatalf("ListByArea: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 announcements, got %d", len(list))
	}
	if list[0].ID != second || list[1].ID != first {
		t.Fatalf("expected newest first, got %s, %s", list[0].ID, list[1].ID)
	}
	if list[0].DatePosted.IsZero() {
		t.Fatalf("expected date posted to be assigned")
	}
}

func TestAnnouncements_CreateThenGetByID(t *testing.T) {
	svc := NewAnnouncements(memory.NewAnnouncementStore(), memory.NewSnapshotCache(), zerolog.Nop())
	ctx := context.Background()
	d := draft("Clean-up drive", "area1", "off1")

	before := time.Now()
	id, err := svc.Create(ctx, d)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if got.ID != id || got.Title != d.Title || got.Description != d.Description ||
		got.Category != d.Category || got.AreaID != d.AreaID || got.AuthorID != d.AuthorID {
		t.Fatalf("expected draft fields with id %s, got %+v", id, got)
	}
	if got.DatePosted.Before(before) {
		t.Fatalf("date posted %v is before the call at %v", got.DatePosted, before)
	}
}

func TestAnnouncements_FallbackIsPerArea(t *testing.T) {
	store := newStubAnnouncementStore()
	cache := newStubSnapshotCache()
	var fallbacks []string
	svc := newAnnouncements(store, cache, WithFallbackObserver(func(areaID string, hit bool) {
		fallbacks = append(fallbacks, fmt.Sprintf("%s:%t", areaID, hit))
	}))
	ctx := context.Background()

	_, _ = svc.Create(ctx, draft("one", "area1", "off1"))
	_, _ = svc.Create(ctx, draft("two", "area2", "off2"))

	if _, err := svc.ListByArea(ctx, "area1"); err != nil {
		t.Fatalf("ListByArea area1: %v", err)
	}
	if _, err := svc.ListByArea(ctx, "area2"); err != nil {
		t.Fatalf("ListByArea area2: %v", err)
	}

	store.queryErr = errors.New("network down")

	got, err := svc.ListByArea(ctx, "area1")
	if err != nil {
		t.Fatalf("expected silent fallback, got %v", err)
	}
	if len(got) != 1 || got[0].Title != "one" {
		t.Fatalf("expected area1 snapshot, got %+v", got)
	}

	got, err = svc.ListByArea(ctx, "area3")
	if err != nil {
		t.Fatalf("expected silent fallback, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list for area without snapshot, got %+v", got)
	}

	want := []string{"area1:true", "area3:false"}
	if fmt.Sprint(fallbacks) != fmt.Sprint(want) {
		t.Fatalf("expected fallbacks %v, got %v", want, fallbacks)
	}
}

func TestAnnouncements_CodedFailuresDoNotFallBack(t *testing.T) {
	store := newStubAnnouncementStore()
	cache := newStubSnapshotCache()
	svc := newAnnouncements(store, cache)
	ctx := context.Background()

	_, _ = svc.Create(ctx, draft("cached", "area1", "off1"))
	if _, err := svc.ListByArea(ctx, "area1"); err != nil {
		t.Fatalf("ListByArea: %v", err)
	}

	for _, want := range []error{domain.ErrUnauthenticated, domain.ErrForbidden} {
		store.queryErr = want
		list, err := svc.ListByArea(ctx, "area1")
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got list=%v err=%v", want, list, err)
		}
	}
}

func TestAnnouncements_OtherListsDoNotFallBack(t *testing.T) {
	store := newStubAnnouncementStore()
	store.queryErr = errors.New("network down")
	svc := newAnnouncements(store, newStubSnapshotCache())

	if _, err := svc.ListAll(context.Background()); err == nil {
		t.Fatalf("expected ListAll to fail")
	}
	if _, err := svc.ListByAuthor(context.Background(), "off1"); err == nil {
		t.Fatalf("expected ListByAuthor to fail")
	}
}

func TestAnnouncements_ListByAuthor(t *testing.T) {
	store := newStubAnnouncementStore()
	svc := newAnnouncements(store, newStubSnapshotCache())
	ctx := context.Background()

	_, _ = svc.Create(ctx, draft("mine", "area1", "off1"))
	_, _ = svc.Create(ctx, draft("theirs", "area1", "off2"))

	list, err := svc.ListByAuthor(ctx, "off1")
	if err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if len(list) != 1 || list[0].AuthorID != "off1" {
		t.Fatalf("expected only off1's announcement, got %+v", list)
	}
}

func TestAnnouncements_GetByID_NotFound(t *testing.T) {
	svc := newAnnouncements(newStubAnnouncementStore(), newStubSnapshotCache())

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrAnnouncementNotFound) {
		t.Fatalf("expected ErrAnnouncementNotFound, got %v", err)
	}
}

func TestAnnouncements_UpdateByAuthor(t *testing.T) {
	store := newStubAnnouncementStore()
	svc := newAnnouncements(store, newStubSnapshotCache())
	ctx := context.Background()

	id, _ := svc.Create(ctx, draft("old", "area1", "off1"))
	before := store.docs[id]

	title := "new"
	if err := svc.Update(ctx, "off1", id, domain.AnnouncementPatch{Title: &title}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	after := store.docs[id]
	if after.Title != "new" {
		t.Fatalf("expected title updated, got %s", after.Title)
	}
	if after.AreaID != before.AreaID || after.AuthorID != before.AuthorID || !after.DatePosted.Equal(before.DatePosted) {
		t.Fatalf("immutable fields changed: %+v", after)
	}
}

func TestAnnouncements_UpdateByOtherOfficialForbidden(t *testing.T) {
	store := newStubAnnouncementStore()
	svc := newAnnouncements(store, newStubSnapshotCache())
	ctx := context.Background()

	id, _ := svc.Create(ctx, draft("old", "area1", "off1"))
	title := "hijacked"
	if err := svc.Update(ctx, "off2", id, domain.AnnouncementPatch{Title: &title}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if store.docs[id].Title != "old" {
		t.Fatalf("announcement must not change")
	}
}

func TestAnnouncements_Delete(t *testing.T) {
	store := newStubAnnouncementStore()
	svc := newAnnouncements(store, newStubSnapshotCache())
	ctx := context.Background()

	id, _ := svc.Create(ctx, draft("gone", "area1", "off1"))

	if err := svc.Delete(ctx, "off2", id); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, "off1", id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, id); !errors.Is(err, domain.ErrAnnouncementNotFound) {
		t.Fatalf("expected deleted announcement to be gone, got %v", err)
	}
	if err := svc.Delete(ctx, "off1", id); !errors.Is(err, domain.ErrAnnouncementNotFound) {
		t.Fatalf("expected ErrAnnouncementNotFound on second delete, got %v", err)
	}
}
