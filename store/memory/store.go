// Package memory implements store.Store in process memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/store"
)

var _ store.Store = (*Store)(nil)

type item struct {
	value   []byte
	expires time.Time
}

func (it item) expired(now time.Time) bool {
	return !it.expires.IsZero() && !now.Before(it.expires)
}

// Option configures the Store.
type Option func(*Store)

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is a fully in-memory implementation of store.Store.
// Safe for concurrent access.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

// New returns a new empty Store.
func New(opts ...Option) *Store {
	s := &Store{items: make(map[string]item), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// Get returns a copy of the value under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, orderflow.ErrEntryNotFound
	}
	if it.expired(s.now()) {
		s.mu.Lock()
		defer s.mu.Unlock()
		// A Set may have replaced the entry since the read lock was dropped.
		it, ok = s.items[key]
		if !ok {
			return nil, orderflow.ErrEntryNotFound
		}
		if it.expired(s.now()) {
			delete(s.items, key)
			return nil, orderflow.ErrEntryNotFound
		}
	}
	return append([]byte(nil), it.value...), nil
}

// Set stores a copy of value under key.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	it := item{value: append([]byte(nil), value...)}
	if ttl > 0 {
		it.expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = it
	return nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Keys lists live keys with prefix.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for k, it := range s.items {
		if strings.HasPrefix(k, prefix) && !it.expired(now) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}
