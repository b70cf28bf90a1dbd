package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Ensure Store implements store.Store at compile time.
var _ store.Store = (*Store)(nil)

// Store is a PostgreSQL implementation of store.Store using pgxpool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new PostgreSQL store from a connection string.
func New(ctx context.Context, connString string, opts ...Option) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("orderflow/postgres: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("orderflow/postgres: connect: %w", err)
	}

	return NewFromPool(pool, opts...), nil
}

// NewFromPool creates a new PostgreSQL store from an existing pgxpool.Pool.
func NewFromPool(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{
		pool:   pool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate runs all embedded SQL migration files in order.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS orderflow_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("orderflow/postgres: create migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("orderflow/postgres: read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		var applied bool
		err = s.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM orderflow_migrations WHERE filename = $1)`,
			entry.Name(),
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("orderflow/postgres: check migration %s: %w", entry.Name(), err)
		}
		if applied {
			continue
		}

		data, readErr := fs.ReadFile(migrationsFS, "migrations/"+entry.Name())
		if readErr != nil {
			return fmt.Errorf("orderflow/postgres: read migration %s: %w", entry.Name(), readErr)
		}
		if _, execErr := s.pool.Exec(ctx, string(data)); execErr != nil {
			return fmt.Errorf("orderflow/postgres: execute migration %s: %w", entry.Name(), execErr)
		}
		if _, recErr := s.pool.Exec(ctx,
			`INSERT INTO orderflow_migrations (filename) VALUES ($1)`, entry.Name(),
		); recErr != nil {
			return fmt.Errorf("orderflow/postgres: record migration %s: %w", entry.Name(), recErr)
		}

		s.logger.Info("applied migration", "file", entry.Name())
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Pool returns the underlying pgxpool.Pool for advanced usage.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Get returns the value under key. Expired rows read as missing.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `
		SELECT value FROM orderflow_kv
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())`, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, orderflow.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("orderflow/postgres: get %q: %w", key, err)
	}
	return value, nil
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expires *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expires = &t
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO orderflow_kv (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()`,
		key, value, expires,
	)
	if err != nil {
		return fmt.Errorf("orderflow/postgres: set %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM orderflow_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("orderflow/postgres: delete %q: %w", key, err)
	}
	return nil
}

// Keys lists live keys starting with prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT key FROM orderflow_kv
		WHERE starts_with(key, $1)
		  AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY key`, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("orderflow/postgres: keys %q: %w", prefix, err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("orderflow/postgres: keys %q: %w", prefix, err)
	}
	return keys, nil
}

// PurgeExpired deletes every expired row and returns how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM orderflow_kv WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("orderflow/postgres: purge expired: %w", err)
	}
	return tag.RowsAffected(), nil
}
