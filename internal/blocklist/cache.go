package blocklist

import (
	"context"
	"sync"
	"time"
)

// Cache serves blocklist snapshots with a bounded staleness so the scorer's
// hot path does not hit the store on every call. Writes through the HTTP
// surface invalidate it immediately.
type Cache struct {
	store    Store
	interval time.Duration

	mu        sync.Mutex
	snap      *Snapshot
	fetchedAt time.Time
}

func NewCache(store Store, interval time.Duration) *Cache {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Cache{store: store, interval: interval}
}

// Snapshot returns the cached snapshot, refreshing it from the store when
// stale. On a refresh failure a previously cached snapshot is served so
// phone scoring degrades rather than fails.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap != nil && time.Since(c.fetchedAt) < c.interval {
		return c.snap, nil
	}

	snap, err := c.store.Snapshot(ctx)
	if err != nil {
		if c.snap != nil {
			return c.snap, nil
		}
		return nil, err
	}
	c.snap = snap
	c.fetchedAt = time.Now()
	return snap, nil
}

// Invalidate drops the cached snapshot after a blocklist mutation.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}
