package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/store/postgres"
)

// openStore connects to the database named by ORDERFLOW_POSTGRES_DSN and
// skips the test when it is unset.
func openStore(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := os.Getenv("ORDERFLOW_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ORDERFLOW_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := postgres.New(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Pool().Exec(ctx, `DELETE FROM orderflow_kv WHERE key LIKE 'pgtest_%'`); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "pgtest_a", []byte("v1"), 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "pgtest_a", []byte("v2"), 0); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "pgtest_a")
	if err != nil || string(got) != "v2" {
		t.Fatalf("get: %q %v", got, err)
	}
	keys, err := s.Keys(ctx, "pgtest_")
	if err != nil || len(keys) != 1 {
		t.Fatalf("keys: %v %v", keys, err)
	}
	if err := s.Delete(ctx, "pgtest_a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "pgtest_a"); !errors.Is(err, orderflow.ErrEntryNotFound) {
		t.Fatalf("after delete: %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "pgtest_short", []byte("x"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := s.Get(ctx, "pgtest_short"); !errors.Is(err, orderflow.ErrEntryNotFound) {
		t.Fatalf("expired get: %v", err)
	}
	n, err := s.PurgeExpired(ctx)
	if err != nil || n < 1 {
		t.Fatalf("purge: %d %v", n, err)
	}
}
