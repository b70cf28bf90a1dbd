package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	_ "github.com/xraph/grove/drivers/sqlitedriver/sqlitemigrate" // register sqlite migration executor
	"github.com/xraph/grove/migrate"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/store"
)

// Ensure Store implements store.Store at compile time.
var _ store.Store = (*Store)(nil)

// Store is a grove ORM implementation of store.Store using SQLite dialect.
type Store struct {
	db     *grove.DB
	sdb    *sqlitedriver.SqliteDB
	owned  bool
	now    func() time.Time
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

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a new grove store. The caller owns the db lifecycle; the
// Store will not close it on Close().
func New(db *grove.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		sdb:    sqlitedriver.Unwrap(db),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the database file at dsn. The returned store owns the
// connection and closes it on Close.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := grove.Open(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("orderflow/sqlite: open %q: %w", dsn, err)
	}
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("orderflow/sqlite: open %q: %w", dsn, err)
	}
	s := New(db, opts...)
	s.owned = true
	return s, nil
}

// DB returns the underlying *grove.DB for advanced usage.
func (s *Store) DB() *grove.DB {
	return s.db
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("orderflow/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("orderflow/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database when the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// ── key-value ────────────────────────────────────────────────────

// Get returns the value under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	m := new(kvModel)
	err := s.sdb.NewSelect(m).
		Where("key = ?", key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, orderflow.ErrEntryNotFound
		}
		return nil, fmt.Errorf("orderflow/sqlite: get %q: %w", key, err)
	}

	nowMs := s.now().UnixMilli()
	if m.expired(nowMs) {
		// Guard on expires_at so a concurrent Set of a fresh value survives.
		_, err := s.sdb.NewDelete((*kvModel)(nil)).
			Where("key = ?", key).
			Where("expires_at IS NOT NULL AND expires_at <= ?", nowMs).
			Exec(ctx)
		if err != nil {
			s.logger.Warn("sqlite: failed to delete expired key", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil, orderflow.ErrEntryNotFound
	}
	return m.Value, nil
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := s.now()
	m := &kvModel{
		Key:       key,
		Value:     value,
		UpdatedAt: now.UnixMilli(),
	}
	if ttl > 0 {
		exp := now.Add(ttl).UnixMilli()
		m.ExpiresAt = &exp
	}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("expires_at = EXCLUDED.expires_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("orderflow/sqlite: set %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.sdb.NewDelete((*kvModel)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("orderflow/sqlite: delete %q: %w", key, err)
	}
	return nil
}

// Keys lists live keys starting with prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var models []kvModel
	err := s.sdb.NewSelect(&models).
		Where(`key LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
		Where("(expires_at IS NULL OR expires_at > ?)", s.now().UnixMilli()).
		OrderExpr("key ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("orderflow/sqlite: keys %q: %w", prefix, err)
	}

	keys := make([]string, 0, len(models))
	for i := range models {
		keys = append(keys, models[i].Key)
	}
	return keys, nil
}

// PurgeExpired deletes every expired row and returns how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.sdb.NewDelete((*kvModel)(nil)).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UnixMilli()).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("orderflow/sqlite: purge expired: %w", err)
	}
	rows, _ := res.RowsAffected() //nolint:errcheck // driver always returns nil
	return rows, nil
}

// ── helpers ──────────────────────────────────────────────────────

// isNoRows returns true when err indicates no rows were found.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
