package cache

import (
	"context"
	"sync"
	"time"
)

// entry is owned by Memory; a stale entry stays in the map until the next
// Set for its key overwrites it.
type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Memory is a process-local Cache with passive expiry. Nothing is ever
// evicted; reads ignore expired entries and writes replace them.
//
// Concurrent Get/Set on the same key are last-write-wins. The mutex only keeps
// the map itself consistent; there is no request coalescing.
type Memory[T any] struct {
	mu   sync.RWMutex
	data map[string]entry[T]
	now  Clock
}

// NewMemory creates an empty Memory cache. A nil clock uses time.Now.
func NewMemory[T any](clock Clock) *Memory[T] {
	if clock == nil {
		clock = time.Now
	}
	return &Memory[T]{
		data: make(map[string]entry[T]),
		now:  clock,
	}
}

// Get returns the value stored under key while now < expiresAt.
func (m *Memory[T]) Get(_ context.Context, key string) (T, bool) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()

	if !ok || !m.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key until now+ttl, replacing any existing entry.
func (m *Memory[T]) Set(_ context.Context, key string, value T, ttl time.Duration) {
	e := entry[T]{value: value, expiresAt: m.now().Add(ttl)}

	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
}

// Len reports the number of entries held, including stale ones.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
