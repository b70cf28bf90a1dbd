package resume

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/id"
	"github.com/wael7705/khawam-pro-sub000/store"
)

// DefaultTTL is how long a snapshot stays usable.
const DefaultTTL = 10 * time.Minute

// Emitter receives cache lifecycle events. ext.Registry satisfies it.
type Emitter interface {
	EmitCachePurged(ctx context.Context, service string, reason error)
}

// expiredPurger is implemented by backends that can drop expired rows in
// bulk.
type expiredPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets the snapshot lifetime.
func WithTTL(d time.Duration) Option {
	return func(m *Manager) { m.ttl = d }
}

// WithCodec sets the value codec.
func WithCodec(c Codec) Option {
	return func(m *Manager) { m.codec = c }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithEmitter sets the receiver of cache events.
func WithEmitter(e Emitter) Option {
	return func(m *Manager) { m.emitter = e }
}

// Manager reads and writes wizard snapshots, the remembered delivery
// address and the reopen signal.
type Manager struct {
	store   store.Store
	codec   Codec
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	emitter Emitter
}

// NewManager returns a Manager over s.
func NewManager(s store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  s,
		codec:  JSONCodec{},
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the snapshot lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Save snapshots step and fields for service. Binary files are never part
// of fields; only their display hints are.
func (m *Manager) Save(ctx context.Context, service string, step int, fields form.Fields) (*Entry, error) {
	e := &Entry{
		ID:          id.NewSnapshotID(),
		ServiceName: service,
		Step:        step,
		Fields:      fields,
		Timestamp:   m.now(),
	}
	data, err := m.codec.Encode(e)
	if err != nil {
		return nil, fmt.Errorf("orderflow/resume: encode %q: %w", service, err)
	}
	if err := m.store.Set(ctx, EntryKey(service), data, m.ttl); err != nil {
		return nil, fmt.Errorf("orderflow/resume: save %q: %w", service, err)
	}
	m.logger.Debug("snapshot saved",
		slog.String("service", service),
		slog.Int("step", step),
		slog.String("snapshot_id", e.ID.String()),
	)
	return e, nil
}

// Peek decodes the stored entry for service without checking or purging
// it. It returns orderflow.ErrEntryNotFound when there is none and an
// error wrapping orderflow.ErrCacheCorrupt when it cannot be decoded.
func (m *Manager) Peek(ctx context.Context, service string) (*Entry, error) {
	return m.peekKey(ctx, EntryKey(service))
}

func (m *Manager) peekKey(ctx context.Context, key string) (*Entry, error) {
	data, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := m.codec.Decode(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", orderflow.ErrCacheCorrupt, key, err)
	}
	return &e, nil
}

// Load returns the entry for service if it is usable now. A corrupt,
// expired or mismatched entry is purged and the reason returned.
func (m *Manager) Load(ctx context.Context, service string) (*Entry, error) {
	e, err := m.Peek(ctx, service)
	if err != nil {
		if errors.Is(err, orderflow.ErrCacheCorrupt) {
			m.purge(ctx, service, err)
		}
		return nil, err
	}
	if err := e.Check(service, m.now(), m.ttl); err != nil {
		m.purge(ctx, service, err)
		return nil, err
	}
	return e, nil
}

// Restore consumes the reopen signal and returns the snapshot to resume
// for service, or nil when the wizard should open fresh. The signal must
// be set and name service; otherwise any cached entry for service is
// purged. A restored entry is removed from the store. Errors are returned
// only for backend failures.
func (m *Manager) Restore(ctx context.Context, service string) (*Entry, error) {
	sig, err := m.ReadSignal(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.ClearSignal(ctx); err != nil {
		m.logger.Warn("resume: failed to clear reopen signal", slog.String("error", err.Error()))
	}

	if !sig.Matches(service) {
		if err := m.Purge(ctx, service); err != nil {
			return nil, err
		}
		return nil, nil
	}

	e, err := m.Load(ctx, service)
	switch {
	case err == nil:
	case errors.Is(err, orderflow.ErrEntryNotFound),
		errors.Is(err, orderflow.ErrCacheCorrupt),
		errors.Is(err, orderflow.ErrCacheExpired),
		errors.Is(err, orderflow.ErrCacheMismatch):
		return nil, nil
	default:
		return nil, err
	}

	if err := m.store.Delete(ctx, EntryKey(service)); err != nil {
		m.logger.Warn("resume: failed to remove restored entry",
			slog.String("service", service),
			slog.String("error", err.Error()),
		)
	}
	return e, nil
}

// Purge removes the entry for service.
func (m *Manager) Purge(ctx context.Context, service string) error {
	if err := m.store.Delete(ctx, EntryKey(service)); err != nil {
		return fmt.Errorf("orderflow/resume: purge %q: %w", service, err)
	}
	return nil
}

func (m *Manager) purge(ctx context.Context, service string, reason error) {
	if err := m.Purge(ctx, service); err != nil {
		m.logger.Warn("resume: purge failed", slog.String("service", service), slog.String("error", err.Error()))
		return
	}
	m.logger.Warn("resume: cache entry purged",
		slog.String("service", service),
		slog.String("reason", reason.Error()),
	)
	if m.emitter != nil {
		m.emitter.EmitCachePurged(ctx, service, reason)
	}
}

// Sweep removes every expired or undecodable entry regardless of service
// and returns how many were removed.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	keys, err := m.store.Keys(ctx, EntryKeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("orderflow/resume: sweep: %w", err)
	}
	now := m.now()
	removed := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		e, err := m.peekKey(ctx, key)
		var reason error
		switch {
		case errors.Is(err, orderflow.ErrEntryNotFound):
			continue
		case errors.Is(err, orderflow.ErrCacheCorrupt):
			reason = err
		case err != nil:
			return removed, fmt.Errorf("orderflow/resume: sweep %s: %w", key, err)
		case e.Expired(now, m.ttl):
			reason = orderflow.ErrCacheExpired
		default:
			continue
		}
		if err := m.store.Delete(ctx, key); err != nil {
			return removed, fmt.Errorf("orderflow/resume: sweep %s: %w", key, err)
		}
		removed++
		service := key[len(EntryKeyPrefix):]
		if m.emitter != nil {
			m.emitter.EmitCachePurged(ctx, service, reason)
		}
	}

	if p, ok := m.store.(expiredPurger); ok {
		if _, err := p.PurgeExpired(ctx); err != nil {
			m.logger.Warn("resume: backend purge failed", slog.String("error", err.Error()))
		}
	}
	if removed > 0 {
		m.logger.Info("resume: sweep removed entries", slog.Int("removed", removed))
	}
	return removed, nil
}

// ── Reopen signal ───────────────────────────────────

// MarkReopen records that the wizard for service should be reopened and
// resumed when the user returns.
func (m *Manager) MarkReopen(ctx context.Context, service string) error {
	if err := m.store.Set(ctx, ReopenFlagKey, []byte("true"), m.ttl); err != nil {
		return fmt.Errorf("orderflow/resume: mark reopen: %w", err)
	}
	if err := m.store.Set(ctx, ReopenServiceKey, []byte(service), m.ttl); err != nil {
		return fmt.Errorf("orderflow/resume: mark reopen: %w", err)
	}
	return nil
}

// ReadSignal reads the reopen signal without consuming it.
func (m *Manager) ReadSignal(ctx context.Context) (Signal, error) {
	var sig Signal
	flag, err := m.store.Get(ctx, ReopenFlagKey)
	switch {
	case errors.Is(err, orderflow.ErrEntryNotFound):
		return sig, nil
	case err != nil:
		return sig, fmt.Errorf("orderflow/resume: read signal: %w", err)
	}
	sig.Reopen = string(flag) == "true"

	svc, err := m.store.Get(ctx, ReopenServiceKey)
	switch {
	case errors.Is(err, orderflow.ErrEntryNotFound):
	case err != nil:
		return sig, fmt.Errorf("orderflow/resume: read signal: %w", err)
	default:
		sig.Service = string(svc)
	}
	return sig, nil
}

// ClearSignal removes both reopen flags.
func (m *Manager) ClearSignal(ctx context.Context) error {
	return errors.Join(
		m.store.Delete(ctx, ReopenFlagKey),
		m.store.Delete(ctx, ReopenServiceKey),
	)
}

// ── Delivery address ────────────────────────────────

// SaveDeliveryAddress remembers the last picked delivery location for all
// services. It does not expire.
func (m *Manager) SaveDeliveryAddress(ctx context.Context, d form.Delivery) error {
	data, err := m.codec.Encode(d)
	if err != nil {
		return fmt.Errorf("orderflow/resume: encode delivery address: %w", err)
	}
	if err := m.store.Set(ctx, DeliveryAddressKey, data, 0); err != nil {
		return fmt.Errorf("orderflow/resume: save delivery address: %w", err)
	}
	return nil
}

// LoadDeliveryAddress returns the remembered delivery location. ok is
// false when none is stored or it cannot be decoded.
func (m *Manager) LoadDeliveryAddress(ctx context.Context) (d form.Delivery, ok bool, err error) {
	data, err := m.store.Get(ctx, DeliveryAddressKey)
	if errors.Is(err, orderflow.ErrEntryNotFound) {
		return d, false, nil
	}
	if err != nil {
		return d, false, fmt.Errorf("orderflow/resume: load delivery address: %w", err)
	}
	if err := m.codec.Decode(data, &d); err != nil {
		m.logger.Warn("resume: dropping corrupt delivery address", slog.String("error", err.Error()))
		_ = m.store.Delete(ctx, DeliveryAddressKey)
		return form.Delivery{}, false, nil
	}
	return d, true, nil
}
