package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS room_snapshots (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_room_snapshots_expires_at ON room_snapshots(expires_at);
`

// Store persists room snapshots to Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the room_snapshots table
// exists. If databaseURL is empty, NewStore returns (nil, nil) and the
// caller should fall back to NoopStore.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

func (s *Store) Put(ctx context.Context, key, value string, ttlSeconds int) error {
	expiresAt := time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_snapshots (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = $2, expires_at = $3
	`, key, value, expiresAt)
	return err
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	var expiresAt time.Time
	err := s.pool.QueryRow(ctx, `SELECT value, expires_at FROM room_snapshots WHERE key = $1`, key).Scan(&value, &expiresAt)
	if err != nil {
		return "", false, nil // not found or scan error: treat as a miss, not a fatal error
	}
	if time.Now().After(expiresAt) {
		return "", false, nil
	}
	return value, true, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM room_snapshots WHERE key = $1`, key)
	return err
}

// SweepExpired deletes every snapshot past its TTL. Intended to be
// called periodically from a background goroutine.
func (s *Store) SweepExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM room_snapshots WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// NoopStore discards every snapshot. Used when SnapshotDatabaseURL is
// unset, matching the teacher's nil-store convention but satisfying
// the SnapshotStore interface explicitly so callers never nil-check.
type NoopStore struct{}

func (NoopStore) Put(context.Context, string, string, int) error        { return nil }
func (NoopStore) Get(context.Context, string) (string, bool, error)     { return "", false, nil }
func (NoopStore) Delete(context.Context, string) error                  { return nil }
func (NoopStore) Close()                                                {}
