package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/ports"
)

// UnknownAreaName is shown for ids missing from the directory.
const UnknownAreaName = "Unknown Barangay"

const areaFetchTimeout = 15 * time.Second

// AreaDirectory caches the area reference data after the first successful
// fetch. Concurrent first fetches share one store call.
type AreaDirectory struct {
	repo  ports.AreaRepository
	group singleflight.Group

	mu    sync.RWMutex
	areas []domain.Area
}

func NewAreaDirectory(repo ports.AreaRepository) *AreaDirectory {
	return &AreaDirectory{repo: repo}
}

// List returns all areas ordered by name. The shared fetch outlives any one
// caller's cancellation; each caller stops waiting when its own ctx is done.
func (d *AreaDirectory) List(ctx context.Context) ([]domain.Area, error) {
	d.mu.RLock()
	cached := d.areas
	d.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	ch := d.group.DoChan("areas", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), areaFetchTimeout)
		defer cancel()

		areas, err := d.repo.List(fetchCtx)
		if err != nil {
			return nil, err
		}
		if areas == nil {
			areas = []domain.Area{}
		}
		d.mu.Lock()
		d.areas = areas
		d.mu.Unlock()
		return areas, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]domain.Area), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Name resolves an area id to its display name. Unknown ids resolve to
// UnknownAreaName.
func (d *AreaDirectory) Name(ctx context.Context, id string) (string, error) {
	areas, err := d.List(ctx)
	if err != nil {
		return "", err
	}
	return NameOf(areas, id), nil
}

// Clear drops the cached set so the next List refetches.
func (d *AreaDirectory) Clear() {
	d.mu.Lock()
	d.areas = nil
	d.mu.Unlock()
}

// NameOf looks id up in areas.
func NameOf(areas []domain.Area, id string) string {
	for _, a := range areas {
		if a.ID == id {
			return a.Name
		}
	}
	return UnknownAreaName
}
