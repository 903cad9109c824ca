package ports

import (
	"context"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

// AnnouncementQuery narrows a collection query by equality. Empty fields do
// not filter. Results are always ordered by date posted, newest first.
type AnnouncementQuery struct {
	AreaID   string
	AuthorID string
}

// AnnouncementStore is the document store collection of announcements.
type AnnouncementStore interface {
	Query(ctx context.Context, q AnnouncementQuery) ([]domain.Announcement, error)
	// Get returns domain.ErrAnnouncementNotFound when the id is unknown.
	Get(ctx context.Context, id string) (*domain.Announcement, error)
	// Add stores the draft, assigning the id and date posted.
	Add(ctx context.Context, draft domain.AnnouncementDraft) (string, error)
	Update(ctx context.Context, id string, patch domain.AnnouncementPatch) error
	Delete(ctx context.Context, id string) error
}

// SnapshotCache is a small key-value store for last-known-good copies of
// query results. Get returns ErrCacheMiss when the key is absent.
type SnapshotCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
