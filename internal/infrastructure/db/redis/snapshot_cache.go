package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/komunidad/bulletin-board/internal/core/ports"
)

const defaultSnapshotTTL = 7 * 24 * time.Hour

// SnapshotCache keeps last-known-good query results in Redis.
// Key format: komunidad:<key>
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache wraps client. A non-positive ttl uses the default of one
// week.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &SnapshotCache{client: client, ttl: ttl}
}

func (c *SnapshotCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot get: %w", err)
	}
	return b, nil
}

// Set overwrites the snapshot; the last writer wins.
func (c *SnapshotCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("snapshot set: %w", err)
	}
	return nil
}

func (c *SnapshotCache) key(k string) string {
	return "komunidad:" + k
}
