// Package memory holds map-backed implementations of the storage ports for
// local development, the terminal client's snapshot cache, and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/ports"
)

// AnnouncementStore stores announcements in memory.
type AnnouncementStore struct {
	mu   sync.RWMutex
	docs map[string]domain.Announcement
	now  func() time.Time
}

func NewAnnouncementStore() *AnnouncementStore {
	return &AnnouncementStore{docs: make(map[string]domain.Announcement), now: time.Now}
}

// Query returns matching announcements, newest first.
func (s *AnnouncementStore) Query(_ context.Context, q ports.AnnouncementQuery) ([]domain.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Announcement{}
	for _, a := range s.docs {
		if q.AreaID != "" && a.AreaID != q.AreaID {
			continue
		}
		if q.AuthorID != "" && a.AuthorID != q.AuthorID {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DatePosted.After(out[j].DatePosted) })
	return out, nil
}

func (s *AnnouncementStore) Get(_ context.Context, id string) (*domain.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrAnnouncementNotFound
	}
	return &a, nil
}

func (s *AnnouncementStore) Add(_ context.Context, d domain.AnnouncementDraft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := domain.Announcement{
		ID:          uuid.NewString(),
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		AreaID:      d.AreaID,
		AuthorID:    d.AuthorID,
		DatePosted:  s.now().UTC(),
	}
	s.docs[a.ID] = a
	return a.ID, nil
}

func (s *AnnouncementStore) Update(_ context.Context, id string, p domain.AnnouncementPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.docs[id]
	if !ok {
		return domain.ErrAnnouncementNotFound
	}
	s.docs[id] = p.Apply(a)
	return nil
}

func (s *AnnouncementStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return domain.ErrAnnouncementNotFound
	}
	delete(s.docs, id)
	return nil
}
