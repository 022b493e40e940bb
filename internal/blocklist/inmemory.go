package blocklist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process blocklist for local/dev use.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]Entry)}
}

func (s *InMemoryStore) Add(_ context.Context, entry Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now().UTC()
	}
	if prev, ok := s.entries[entry.Number]; ok {
		entry.ID = prev.ID
		entry.AddedAt = prev.AddedAt
	}
	s.entries[entry.Number] = entry
	return entry, nil
}

func (s *InMemoryStore) Remove(_ context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[number]; !ok {
		return ErrNotFound
	}
	delete(s.entries, number)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Snapshot(_ context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	numbers := make([]string, 0, len(s.entries))
	for n := range s.entries {
		numbers = append(numbers, n)
	}
	return NewSnapshot(numbers), nil
}

func (s *InMemoryStore) Close() error { return nil }
