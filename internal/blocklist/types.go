package blocklist

import (
	"context"
	"errors"
	"time"
)

// Entry is one community-blocklisted phone number. Number is stored
// normalized to its 10 NANP digits.
type Entry struct {
	ID      string    `json:"id"`
	Number  string    `json:"number"`
	Reason  string    `json:"reason,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// ErrNotFound is returned when removing a number that is not listed.
var ErrNotFound = errors.New("number not in blocklist")

// Store persists the phone-number blocklist. The scorer never sees the
// store directly; it consumes immutable snapshots.
type Store interface {
	Add(ctx context.Context, entry Entry) (Entry, error)
	Remove(ctx context.Context, number string) error
	List(ctx context.Context, limit int) ([]Entry, error)
	Snapshot(ctx context.Context) (*Snapshot, error)
	Close() error
}

// Snapshot is a read-only set of normalized numbers handed to the scorer.
// It is safe for concurrent use and never mutated after creation.
type Snapshot struct {
	numbers map[string]struct{}
}

func NewSnapshot(numbers []string) *Snapshot {
	set := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return &Snapshot{numbers: set}
}

// Contains implements scoring.Blocklist over normalized 10-digit strings.
func (s *Snapshot) Contains(digits string) bool {
	if s == nil {
		return false
	}
	_, ok := s.numbers[digits]
	return ok
}

// Len reports the snapshot size, used by readiness reporting.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.numbers)
}
