// Package cache provides a small TTL cache abstraction used for geocoding
// results and aggregated job feeds.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values under string keys with a TTL.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
