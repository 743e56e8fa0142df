package contact

import (
	"context"
	"sync"
)

// MemoryStore is a concurrency-safe in-memory Store. It keeps at most
// maxMessages records, dropping the oldest first.
type MemoryStore struct {
	mu sync.RWMutex

	// key: message id
	data map[string]Record
	// ids in insertion order, for retention
	order []string

	maxMessages int
}

// NewMemoryStore creates a MemoryStore. If maxMessages is <= 0, it is treated
// as unlimited.
func NewMemoryStore(maxMessages int) *MemoryStore {
	return &MemoryStore{
		data:        make(map[string]Record),
		maxMessages: maxMessages,
	}
}

func (s *MemoryStore) Save(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.data[r.ID] = r

	// Enforce retention by count.
	if s.maxMessages > 0 && len(s.order) > s.maxMessages {
		over := len(s.order) - s.maxMessages
		for _, id := range s.order[:over] {
			delete(s.data, id)
		}
		s.order = s.order[over:]
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

// Len returns the number of retained records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
