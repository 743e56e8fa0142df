// Package cache provides the advisory TTL caches that sit in front of the
// weather and market-price providers.
package cache

import (
	"context"
	"time"
)

// Cache stores values of type T under string keys with a per-entry TTL.
//
// Get reports a miss when the key is absent or its entry has expired. Set
// always overwrites. Cached values are advisory: implementations report
// backend failures as misses rather than errors.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, value T, ttl time.Duration)
}

// Clock returns the current time. Tests substitute a controllable clock.
type Clock func() time.Time
