// Package redis implements store.Store on Redis. Keys are namespaced under
// a prefix and expire natively through Redis TTLs.
//
// Usage:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	s := redisstore.New(client)
//	if err := s.Ping(ctx); err != nil { ... }
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "orderflow:"

const scanBatch = 100

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithPrefix overrides the key namespace.
func WithPrefix(p string) Option {
	return func(s *Store) { s.prefix = p }
}

// Store implements store.Store backed by Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// New creates a new Redis-backed store. The caller owns the Redis client
// lifecycle.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Client returns the underlying Redis client.
func (s *Store) Client() redis.UniversalClient { return s.client }

// Migrate is a no-op for Redis (schemaless).
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("orderflow/redis: ping: %w", err)
	}
	return nil
}

// Close is a no-op; the caller owns the Redis client lifecycle.
func (s *Store) Close() error { return nil }

func (s *Store) key(k string) string { return s.prefix + k }

// Get returns the value under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, orderflow.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("orderflow/redis: get %q: %w", key, err)
	}
	return b, nil
}

// Set stores value under key with the given ttl.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("orderflow/redis: set %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("orderflow/redis: delete %q: %w", key, err)
	}
	return nil
}

// Keys scans for keys starting with prefix. Glob metacharacters in prefix
// are escaped.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	match := s.key(escapeGlob(prefix)) + "*"
	var (
		out    []string
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("orderflow/redis: scan %q: %w", prefix, err)
		}
		for _, k := range keys {
			out = append(out, strings.TrimPrefix(k, s.prefix))
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	sort.Strings(out)
	return out, nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
