package blocklist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the blocklist in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS blocklist_numbers (
			id TEXT PRIMARY KEY,
			number TEXT NOT NULL UNIQUE,
			reason TEXT NOT NULL DEFAULT '',
			added_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_blocklist_numbers_added ON blocklist_numbers (added_at);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, entry Entry) (Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO blocklist_numbers (id, number, reason, added_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (number) DO UPDATE SET reason = EXCLUDED.reason`,
		entry.ID,
		entry.Number,
		entry.Reason,
		entry.AddedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("add blocklist entry: %w", err)
	}
	return entry, nil
}

func (s *PostgresStore) Remove(ctx context.Context, number string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM blocklist_numbers WHERE number = $1`, number)
	if err != nil {
		return fmt.Errorf("remove blocklist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, number, reason, added_at FROM blocklist_numbers
		 ORDER BY added_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query blocklist: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Number, &e.Reason, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan blocklist row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocklist rows: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := s.pool.Query(ctx, `SELECT number FROM blocklist_numbers`)
	if err != nil {
		return nil, fmt.Errorf("query blocklist snapshot: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return NewSnapshot(numbers), nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
