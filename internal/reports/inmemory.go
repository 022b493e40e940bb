package reports

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore keeps reports in process memory for local/dev use.
type InMemoryStore struct {
	mu      sync.RWMutex
	reports []Report
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Save(_ context.Context, report Report) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	s.reports = append(s.reports, report)
	return report, nil
}

func (s *InMemoryStore) Recent(_ context.Context, limit int) ([]Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.reports) {
		limit = len(s.reports)
	}
	out := make([]Report, 0, limit)
	for i := len(s.reports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.reports[i])
	}
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
