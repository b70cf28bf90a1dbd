package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/store/memory"
)

func TestLifecycle(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"Migrate", func() error { return s.Migrate(ctx) }},
		{"Ping", func() error { return s.Ping(ctx) }},
		{"Close", func() error { return s.Close() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); err != nil {
				t.Fatalf("%s returned error: %v", tt.name, err)
			}
		})
	}
}

func TestGetSetDelete(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, orderflow.ErrEntryNotFound) {
		t.Fatalf("missing key: got %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v1"), 0); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("get: %q %v", got, err)
	}
	got[0] = 'X'
	if again, _ := s.Get(ctx, "k"); string(again) != "v1" {
		t.Errorf("stored value aliased caller slice: %q", again)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, orderflow.ErrEntryNotFound) {
		t.Fatalf("after delete: got %v", err)
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := memory.New(memory.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_ = s.Set(ctx, "flag", []byte("1"), time.Minute)
	now = now.Add(59 * time.Second)
	if _, err := s.Get(ctx, "flag"); err != nil {
		t.Fatalf("before expiry: %v", err)
	}
	now = now.Add(time.Second)
	if _, err := s.Get(ctx, "flag"); !errors.Is(err, orderflow.ErrEntryNotFound) {
		t.Fatalf("at expiry: got %v", err)
	}
}

func TestKeys(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()
	for _, k := range []string{"orderFormState_b", "orderFormState_a", "deliveryAddress"} {
		_ = s.Set(ctx, k, []byte("x"), 0)
	}

	keys, err := s.Keys(ctx, "orderFormState_")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "orderFormState_a" || keys[1] != "orderFormState_b" {
		t.Errorf("keys: got %v", keys)
	}
}

func TestGet_ExpiredEntryReplacedConcurrently(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var s *memory.Store
	replaced := false
	s = memory.New(memory.WithClock(func() time.Time {
		// Simulate a writer landing between Get's read and write locks.
		if !replaced && now.After(time.Date(2026, 1, 1, 12, 30, 0, 0, time.UTC)) {
			replaced = true
			_ = s.Set(ctx, "k", []byte("fresh"), 0)
		}
		return now
	}))

	_ = s.Set(ctx, "k", []byte("stale"), time.Minute)
	now = now.Add(time.Hour)

	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "fresh" {
		t.Fatalf("get: %q %v", got, err)
	}
	if again, err := s.Get(ctx, "k"); err != nil || string(again) != "fresh" {
		t.Fatalf("fresh value deleted: %q %v", again, err)
	}
}
