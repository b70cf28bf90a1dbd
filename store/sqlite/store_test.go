package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xraph/grove"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/store/sqlite"
)

func openStore(t *testing.T, opts ...sqlite.Option) *sqlite.Store {
	t.Helper()
	ctx := context.Background()
	s, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "orderflow.db"), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestMigrateIdempotent(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestGetSetDelete(t *testing.T) {
	t.Parallel()
	s := openStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "deliveryAddress"); !errors.Is(err, orderflow.ErrEntryNotFound) {
		t.Fatalf("missing: got %v", err)
	}
	if err := s.Set(ctx, "deliveryAddress", []byte("v1"), 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "deliveryAddress", []byte("v2"), 0); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "deliveryAddress")
	if err != nil || string(got) != "v2" {
		t.Fatalf("get after upsert: %q %v", got, err)
	}
	if err := s.Delete(ctx, "deliveryAddress"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "deliveryAddress"); !errors.Is(err, orderflow.ErrEntryNotFound) {
		t.Fatalf("after delete: got %v", err)
	}
}

func TestExpiryAndKeys(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := openStore(t, sqlite.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_ = s.Set(ctx, "orderFormState_a", []byte("a"), time.Minute)
	_ = s.Set(ctx, "orderFormState_b", []byte("b"), 0)
	_ = s.Set(ctx, "orderFormState%x", []byte("c"), 0)
	_ = s.Set(ctx, "other", []byte("d"), 0)

	keys, err := s.Keys(ctx, "orderFormState_")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys before expiry: %v", keys)
	}

	now = now.Add(time.Minute)
	keys, _ = s.Keys(ctx, "orderFormState_")
	if len(keys) != 1 || keys[0] != "orderFormState_b" {
		t.Errorf("keys after expiry: %v", keys)
	}
	if _, err := s.Get(ctx, "orderFormState_a"); !errors.Is(err, orderflow.ErrEntryNotFound) {
		t.Errorf("expired get: got %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := openStore(t, sqlite.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_ = s.Set(ctx, "orderFormState_a", []byte("a"), time.Second)
	_ = s.Set(ctx, "orderFormState_b", []byte("b"), time.Hour)
	_ = s.Set(ctx, "deliveryAddress", []byte("c"), 0)

	now = now.Add(time.Minute)
	n, err := s.PurgeExpired(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("purged = %d, want 1", n)
	}
	keys, _ := s.Keys(ctx, "")
	if len(keys) != 2 {
		t.Errorf("keys after purge: %v", keys)
	}
}

func TestSet_RefreshClearsExpiry(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := openStore(t, sqlite.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_ = s.Set(ctx, "orderFormState_a", []byte("old"), time.Second)
	_ = s.Set(ctx, "orderFormState_a", []byte("new"), 0)

	now = now.Add(time.Hour)
	got, err := s.Get(ctx, "orderFormState_a")
	if err != nil || string(got) != "new" {
		t.Fatalf("get after refresh: %q %v", got, err)
	}
}

func TestNew_CallerOwnsDB(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := grove.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "shared.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := sqlite.New(db)
	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("db closed by store it does not own: %v", err)
	}
	if s.DB() != db {
		t.Error("DB() should return the wrapped handle")
	}
}
