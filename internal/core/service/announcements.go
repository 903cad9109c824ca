package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/ports"
)

// Announcements is the announcement repository used by the screens and the
// HTTP API. Area feeds fall back to the last snapshot stored for that area
// when the store cannot be reached.
type Announcements struct {
	store      ports.AnnouncementStore
	cache      ports.SnapshotCache
	log        zerolog.Logger
	onFallback func(areaID string, hit bool)
}

// AnnouncementsOption customises an Announcements repository.
type AnnouncementsOption func(*Announcements)

// WithFallbackObserver registers fn to be called every time an area feed is
// served from the snapshot cache. hit is false when no snapshot existed.
func WithFallbackObserver(fn func(areaID string, hit bool)) AnnouncementsOption {
	return func(a *Announcements) { a.onFallback = fn }
}

func NewAnnouncements(store ports.AnnouncementStore, cache ports.SnapshotCache, log zerolog.Logger, opts ...AnnouncementsOption) *Announcements {
	a := &Announcements{store: store, cache: cache, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SnapshotKey is the cache key holding the last good feed of an area.
func SnapshotKey(areaID string) string {
	return "announcements:area:" + areaID
}

// ListByArea returns the area's announcements, newest first. On a transient
// store failure it returns the area's cached snapshot, or an empty list when
// there is none; the failure itself is only logged. Failures with a wire code,
// such as an expired session, are returned as is.
func (s *Announcements) ListByArea(ctx context.Context, areaID string) ([]domain.Announcement, error) {
	list, err := s.store.Query(ctx, ports.AnnouncementQuery{AreaID: areaID})
	if err == nil {
		s.saveSnapshot(ctx, areaID, list)
		return nonNil(list), nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if domain.ErrorCode(err) != "" {
		return nil, fmt.Errorf("list by area: %w", err)
	}

	s.log.Warn().Err(err).Str("area_id", areaID).Msg("announcement query failed, serving snapshot")
	cached, hit := s.loadSnapshot(ctx, areaID)
	if s.onFallback != nil {
		s.onFallback(areaID, hit)
	}
	return cached, nil
}

// ListByAuthor returns the announcements written by authorID, newest first.
func (s *Announcements) ListByAuthor(ctx context.Context, authorID string) ([]domain.Announcement, error) {
	list, err := s.store.Query(ctx, ports.AnnouncementQuery{AuthorID: authorID})
	if err != nil {
		return nil, fmt.Errorf("list by author: %w", err)
	}
	return nonNil(list), nil
}

// ListAll returns every announcement, newest first.
func (s *Announcements) ListAll(ctx context.Context) ([]domain.Announcement, error) {
	list, err := s.store.Query(ctx, ports.AnnouncementQuery{})
	if err != nil {
		return nil, fmt.Errorf("list all: %w", err)
	}
	return nonNil(list), nil
}

// GetByID returns domain.ErrAnnouncementNotFound for unknown ids.
func (s *Announcements) GetByID(ctx context.Context, id string) (*domain.Announcement, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAnnouncementNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get announcement %s: %w", id, err)
	}
	return a, nil
}

// Create stores the draft and returns the new id.
func (s *Announcements) Create(ctx context.Context, draft domain.AnnouncementDraft) (string, error) {
	id, err := s.store.Add(ctx, draft)
	if err != nil {
		return "", fmt.Errorf("create announcement: %w", err)
	}
	s.log.Info().Str("id", id).Str("area_id", draft.AreaID).Str("author_id", draft.AuthorID).Msg("announcement created")
	return id, nil
}

// Update applies patch to the announcement when actorUID is its author.
func (s *Announcements) Update(ctx context.Context, actorUID, id string, patch domain.AnnouncementPatch) error {
	if _, err := s.owned(ctx, actorUID, id); err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		if errors.Is(err, domain.ErrAnnouncementNotFound) {
			return err
		}
		return fmt.Errorf("update announcement %s: %w", id, err)
	}
	s.log.Info().Str("id", id).Str("actor", actorUID).Msg("announcement updated")
	return nil
}

// Delete removes the announcement when actorUID is its author.
func (s *Announcements) Delete(ctx context.Context, actorUID, id string) error {
	if _, err := s.owned(ctx, actorUID, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrAnnouncementNotFound) {
			return err
		}
		return fmt.Errorf("delete announcement %s: %w", id, err)
	}
	s.log.Info().Str("id", id).Str("actor", actorUID).Msg("announcement deleted")
	return nil
}

func (s *Announcements) owned(ctx context.Context, actorUID, id string) (*domain.Announcement, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorUID == "" || a.AuthorID != actorUID {
		return nil, domain.ErrForbidden
	}
	return a, nil
}

func (s *Announcements) saveSnapshot(ctx context.Context, areaID string, list []domain.Announcement) {
	raw, err := json.Marshal(nonNil(list))
	if err != nil {
		s.log.Warn().Err(err).Msg("encode snapshot")
		return
	}
	if err := s.cache.Set(ctx, SnapshotKey(areaID), raw); err != nil {
		s.log.Warn().Err(err).Str("area_id", areaID).Msg("failed to store snapshot")
	}
}

func (s *Announcements) loadSnapshot(ctx context.Context, areaID string) ([]domain.Announcement, bool) {
	raw, err := s.cache.Get(ctx, SnapshotKey(areaID))
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.log.Warn().Err(err).Str("area_id", areaID).Msg("failed to read snapshot")
		}
		return []domain.Announcement{}, false
	}

	var list []domain.Announcement
	if err := json.Unmarshal(raw, &list); err != nil {
		s.log.Warn().Err(err).Str("area_id", areaID).Msg("discarding corrupt snapshot")
		return []domain.Announcement{}, false
	}
	return nonNil(list), true
}

func nonNil(list []domain.Announcement) []domain.Announcement {
	if list == nil {
		return []domain.Announcement{}
	}
	return list
}
