package resume_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/attachment"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/resume"
	"github.com/wael7705/khawam-pro-sub000/store/memory"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type purgeRecorder struct {
	services []string
	reasons  []error
}

func (p *purgeRecorder) EmitCachePurged(_ context.Context, service string, reason error) {
	p.services = append(p.services, service)
	p.reasons = append(p.reasons, reason)
}

func sampleFields() form.Fields {
	return form.Fields{
		Quantity:   3,
		Dimensions: form.Dimensions{Width: "10", Height: "20", WidthUnit: "cm", HeightUnit: "cm"},
		Colors:     []string{"#ff0000", "#00ff00"},
		Pages:      4,
		Print:      form.PrintOptions{PaperSize: "A4", PrintColor: "color", Quality: "laser", Lamination: true},
		Customer:   form.Customer{Name: "Omar", Phone: "0911111111"},
		Delivery:   form.Delivery{Type: form.DeliveryDelivery, Address: "Mazzeh", Latitude: 33.5, Longitude: 36.2},
		Notes:      "matte",
		Extra:      map[string]any{"size": "XL"},
		FileHints:  []form.FileHint{{Name: "logo.png", Size: 1024, MimeType: "image/png", Source: attachment.SourceUploaded}},
	}
}

func newManager(c *clock, opts ...resume.Option) (*resume.Manager, *memory.Store) {
	s := memory.New()
	opts = append([]resume.Option{resume.WithClock(c.Now)}, opts...)
	return resume.NewManager(s, opts...), s
}

func TestRestore_RoundTrip(t *testing.T) {
	for _, codec := range []resume.Codec{resume.JSONCodec{}, resume.MsgpackCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			t.Parallel()
			c := &clock{now: t0}
			m, _ := newManager(c, resume.WithCodec(codec))
			ctx := context.Background()

			saved, err := m.Save(ctx, "Flex", 4, sampleFields())
			if err != nil {
				t.Fatal(err)
			}
			if err := m.MarkReopen(ctx, "Flex"); err != nil {
				t.Fatal(err)
			}

			c.now = t0.Add(9*time.Minute + 59*time.Second)
			e, err := m.Restore(ctx, "Flex")
			if err != nil {
				t.Fatal(err)
			}
			if e == nil {
				t.Fatal("expected entry")
			}
			if e.Step != 4 || e.ServiceName != "Flex" || !e.Timestamp.Equal(t0) {
				t.Errorf("entry header: %+v", e)
			}
			if e.ID.String() != saved.ID.String() {
				t.Errorf("id: got %s, want %s", e.ID, saved.ID)
			}
			if !reflect.DeepEqual(e.Fields, sampleFields()) {
				t.Errorf("fields:\n got %+v\nwant %+v", e.Fields, sampleFields())
			}

			if _, err := m.Peek(ctx, "Flex"); !errors.Is(err, orderflow.ErrEntryNotFound) {
				t.Errorf("entry not removed after restore: %v", err)
			}
			if sig, _ := m.ReadSignal(ctx); sig.Reopen {
				t.Error("signal not consumed")
			}
		})
	}
}

func TestRestore_ExpiryBoundary(t *testing.T) {
	t.Parallel()
	c := &clock{now: t0}
	rec := &purgeRecorder{}
	m, s := newManager(c, resume.WithEmitter(rec))
	ctx := context.Background()

	_, _ = m.Save(ctx, "Flex", 2, sampleFields())
	_ = m.MarkReopen(ctx, "Flex")

	c.now = t0.Add(resume.DefaultTTL)
	e, err := m.Restore(ctx, "Flex")
	if err != nil || e != nil {
		t.Fatalf("restore at TTL: %v %v", e, err)
	}
	if _, err := s.Get(ctx, resume.EntryKey("Flex")); !errors.Is(err, orderflow.ErrEntryNotFound) {
		t.Errorf("entry not purged: %v", err)
	}
	if len(rec.reasons) != 1 || !errors.Is(rec.reasons[0], orderflow.ErrCacheExpired) {
		t.Errorf("purge events: %v", rec.reasons)
	}
}

func TestRestore_SignalGate(t *testing.T) {
	tests := []struct {
		name   string
		signal func(ctx context.Context, m *resume.Manager)
	}{
		{"no signal", func(context.Context, *resume.Manager) {}},
		{"other service", func(ctx context.Context, m *resume.Manager) { _ = m.MarkReopen(ctx, "Clothing") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &clock{now: t0}
			m, _ := newManager(c)
			ctx := context.Background()
			_, _ = m.Save(ctx, "Flex", 2, sampleFields())
			tt.signal(ctx, m)

			e, err := m.Restore(ctx, "Flex")
			if err != nil || e != nil {
				t.Fatalf("got %v %v, want fresh open", e, err)
			}
			if _, err := m.Peek(ctx, "Flex"); !errors.Is(err, orderflow.ErrEntryNotFound) {
				t.Errorf("cache not purged on fresh open: %v", err)
			}
		})
	}
}

func TestLoad_Mismatch(t *testing.T) {
	t.Parallel()
	c := &clock{now: t0}
	m, s := newManager(c)
	ctx := context.Background()

	e, _ := m.Save(ctx, "Flex", 2, sampleFields())
	e.ServiceName = "Clothing"
	data, _ := resume.JSONCodec{}.Encode(e)
	_ = s.Set(ctx, resume.EntryKey("Flex"), data, 0)

	if _, err := m.Load(ctx, "Flex"); !errors.Is(err, orderflow.ErrCacheMismatch) {
		t.Fatalf("got %v, want mismatch", err)
	}
	if _, err := m.Peek(ctx, "Flex"); !errors.Is(err, orderflow.ErrEntryNotFound) {
		t.Errorf("mismatched entry not purged: %v", err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	t.Parallel()
	c := &clock{now: t0}
	m, s := newManager(c)
	ctx := context.Background()
	_ = s.Set(ctx, resume.EntryKey("Flex"), []byte("{not json"), 0)

	if _, err := m.Load(ctx, "Flex"); !errors.Is(err, orderflow.ErrCacheCorrupt) {
		t.Fatalf("got %v, want corrupt", err)
	}
	if orderflow.Kind(orderflow.ErrCacheCorrupt) != "cache_corrupt" {
		t.Error("corrupt kind")
	}
	if _, err := s.Get(ctx, resume.EntryKey("Flex")); !errors.Is(err, orderflow.ErrEntryNotFound) {
		t.Error("corrupt entry not purged")
	}
}

func TestSweep(t *testing.T) {
	t.Parallel()
	c := &clock{now: t0}
	m, s := newManager(c)
	ctx := context.Background()

	_, _ = m.Save(ctx, "Old", 1, form.Fields{})
	c.now = t0.Add(5 * time.Minute)
	_, _ = m.Save(ctx, "Fresh", 1, form.Fields{})
	_ = s.Set(ctx, resume.EntryKey("Broken"), []byte("garbage"), 0)
	_ = m.SaveDeliveryAddress(ctx, form.Delivery{Address: "x"})

	c.now = t0.Add(resume.DefaultTTL)
	removed, err := m.Sweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("removed: got %d, want 2", removed)
	}
	keys, _ := s.Keys(ctx, "")
	want := []string{resume.DeliveryAddressKey, resume.EntryKey("Fresh")}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("remaining keys: got %v, want %v", keys, want)
	}
}

func TestDeliveryAddress(t *testing.T) {
	t.Parallel()
	m, _ := newManager(&clock{now: t0})
	ctx := context.Background()

	if _, ok, err := m.LoadDeliveryAddress(ctx); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	want := form.Delivery{Type: form.DeliveryDelivery, Address: "Mazzeh", Latitude: 33.5, Longitude: 36.2}
	if err := m.SaveDeliveryAddress(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := m.LoadDeliveryAddress(ctx)
	if err != nil || !ok || got != want {
		t.Fatalf("got %+v ok=%v err=%v", got, ok, err)
	}
}

func TestRestore_ExtraNumbersKeepIntType(t *testing.T) {
	for _, codec := range []resume.Codec{resume.JSONCodec{}, resume.MsgpackCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			t.Parallel()
			c := &clock{now: t0}
			m, _ := newManager(c, resume.WithCodec(codec))
			ctx := context.Background()

			fields := sampleFields()
			fields.Extra = map[string]any{"sleeves": 2, "ratio": 1.5, "sizes": []any{1, 2}}
			if _, err := m.Save(ctx, "Flex", 1, fields); err != nil {
				t.Fatal(err)
			}
			e, err := m.Load(ctx, "Flex")
			if err != nil {
				t.Fatal(err)
			}

			st := form.NewStore()
			st.Restore(e.Fields)
			if v, _ := st.Extra("sleeves"); v != 2 {
				t.Errorf("sleeves = %T(%v), want int", v, v)
			}
			if v, _ := st.Extra("ratio"); v != 1.5 {
				t.Errorf("ratio = %T(%v)", v, v)
			}
			if v, _ := st.Extra("sizes"); !reflect.DeepEqual(v, []any{1, 2}) {
				t.Errorf("sizes = %#v", v)
			}
		})
	}
}
