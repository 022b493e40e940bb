// Package reports stores community scam reports submitted through the web
// and mobile surfaces. Reports hold only already-scrubbed text: the HTTP
// layer refuses submissions whose content did not pass the scrubber.
package reports

import (
	"context"
	"strings"
	"time"
)

// Report is one community-submitted scam sighting.
type Report struct {
	ID        string    `json:"id"`
	Channel   string    `json:"channel"`
	Sender    string    `json:"sender,omitempty"`
	CleanText string    `json:"clean_text"`
	Label     string    `json:"label"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists community reports.
type Store interface {
	Save(ctx context.Context, report Report) (Report, error)
	Recent(ctx context.Context, limit int) ([]Report, error)
	Close() error
}

// NewStore creates a postgres-backed store when configured, otherwise in-memory.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryStore(), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}
