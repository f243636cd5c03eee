package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

const driverLibsql = "libsql"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
	cache_key   TEXT PRIMARY KEY,
	data        BLOB NOT NULL,
	format      TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	expires_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_expires_at ON entries(expires_at);
`

// SQLite is a persistent store backed by a local database file. It survives
// process restarts and is safe for multiple processes sharing the same file:
// sqlite's own locking prevents corruption, and a stale overwrite race between
// processes is harmless because both writers hold the same response.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (or creates) the database at path and prepares the schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverLibsql, "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite cache schema: %w", err)
	}

	return &SQLite{
		db:  db,
		now: time.Now,
	}, nil
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, key Key) (*Entry, error) {
	k := key.String()

	var (
		entry     Entry
		createdAt int64
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT data, format, created_at, expires_at FROM entries WHERE cache_key = ?", k,
	).Scan(&entry.Data, &entry.Format, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		cacheMisses.Inc()
		return nil, ErrCacheMiss
	}
	if err != nil {
		cacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("sqlite get: %w", err)
	}

	entry.CreatedAt = time.Unix(0, createdAt)
	entry.ExpiresAt = time.Unix(0, expiresAt)

	if entry.ExpiredAt(s.now()) {
		_ = s.Delete(ctx, key)
		cacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	cacheHits.WithLabelValues(layerSQLite).Inc()
	return &entry, nil
}

// Set implements Store.
func (s *SQLite) Set(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return ErrInvalidEntry
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO entries (cache_key, data, format, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		key.String(), entry.Data, entry.Format,
		entry.CreatedAt.UnixNano(), entry.ExpiresAt.UnixNano(),
	)
	if err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("sqlite set: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, key Key) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE cache_key = ?", key.String()); err != nil {
		cacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("sqlite delete: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		cacheErrors.WithLabelValues("clear").Inc()
		return fmt.Errorf("sqlite clear: %w", err)
	}
	return nil
}

// ClearExpired removes entries whose TTL has elapsed and returns the number
// removed. Lookup already evicts lazily; this exists for housekeeping from
// the CLI.
func (s *SQLite) ClearExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM entries WHERE expires_at <= ?", s.now().UnixNano())
	if err != nil {
		cacheErrors.WithLabelValues("clear").Inc()
		return 0, fmt.Errorf("sqlite clear expired: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
