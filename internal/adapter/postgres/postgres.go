// Package postgres implements the key-value store using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"tracker/internal/adapter/kvcodec"
	"tracker/internal/domain"
)

// DB wraps a *sql.DB and implements domain.KeyValueStore.
type DB struct {
	kvcodec.Typed

	sql *sql.DB
}

var _ domain.KeyValueStore = (*DB)(nil)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(4)
	s.SetMaxIdleConns(2)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	d.Typed = kvcodec.Typed{Raw: d}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv_entries (
			"key" TEXT PRIMARY KEY,
			kind TEXT NOT NULL CHECK(kind IN ('string','int','bool','stringlist')),
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Load returns the entry stored under key.
func (d *DB) Load(ctx context.Context, key string) (kvcodec.Entry, bool, error) {
	e := kvcodec.Entry{Key: key}
	var kind string
	err := d.sql.QueryRowContext(ctx,
		`SELECT kind, value FROM kv_entries WHERE "key" = $1;`, key,
	).Scan(&kind, &e.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return kvcodec.Entry{}, false, nil
	}
	if err != nil {
		return kvcodec.Entry{}, false, err
	}
	e.Kind = domain.Kind(kind)
	return e, true, nil
}

// Save upserts an entry.
func (d *DB) Save(ctx context.Context, e kvcodec.Entry) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO kv_entries ("key", kind, value, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT ("key") DO UPDATE SET kind = EXCLUDED.kind, value = EXCLUDED.value, updated_at = EXCLUDED.updated_at;`,
		e.Key, string(e.Kind), e.Value, time.Now().UTC(),
	)
	return err
}

// Delete removes an entry by key.
func (d *DB) Delete(ctx context.Context, key string) error {
	_, err := d.sql.ExecContext(ctx, `DELETE FROM kv_entries WHERE "key" = $1;`, key)
	return err
}
