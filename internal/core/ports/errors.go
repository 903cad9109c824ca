package ports

import "errors"

// ErrCacheMiss is returned by SnapshotCache.Get for absent keys.
var ErrCacheMiss = errors.New("cache miss")
