package store

import (
	"context"
	"time"
)

// Store is the key-value persistence behind the resume manager. Values are
// opaque bytes. Backends may expire entries natively, but callers enforce
// their own freshness rules on top.
type Store interface {
	// Get returns the value stored under key, or orderflow.ErrEntryNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the live keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Migrate prepares the backend schema.
	Migrate(ctx context.Context) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases resources the store owns.
	Close() error
}
