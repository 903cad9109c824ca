package memory

import (
	"context"
	"sync"

	"github.com/komunidad/bulletin-board/internal/core/ports"
)

// SnapshotCache is a process-local SnapshotCache.
type SnapshotCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{entries: make(map[string][]byte)}
}

func (c *SnapshotCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return append([]byte(nil), v...), nil
}

func (c *SnapshotCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), value...)
	return nil
}
