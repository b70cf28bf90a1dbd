package orderflow

import (
	"context"
	"log/slog"
	"time"
)

// Option configures an Orderflow handle.
type Option func(*Orderflow) error

// Storer is the minimal store interface held by the Orderflow handle. It
// covers lifecycle operations only; the key-value contract used by the
// resume manager lives in the store package, whose backends all satisfy
// Storer.
type Storer interface {
	Ping(ctx context.Context) error
	Close() error
}

// Orderflow carries configuration, logger and cache store shared by the
// wizards built on top of it.
//
// Create one with New() and functional options, then hand it to
// wizard.Build.
type Orderflow struct {
	config Config
	logger *slog.Logger
	store  Storer
}

// New creates a new Orderflow handle with the given options.
func New(opts ...Option) (*Orderflow, error) {
	of := &Orderflow{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(of); err != nil {
			return nil, err
		}
	}
	return of, nil
}

// Logger returns the handle's logger.
func (of *Orderflow) Logger() *slog.Logger { return of.logger }

// Store returns the handle's store.
func (of *Orderflow) Store() Storer { return of.store }

// Config returns a copy of the handle's configuration.
func (of *Orderflow) Config() Config { return of.config }

// Close releases the store.
func (of *Orderflow) Close() error {
	if of.store != nil {
		return of.store.Close()
	}
	return nil
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(of *Orderflow) error {
		of.config = cfg
		return nil
	}
}

// WithBaseURL sets the order API base URL.
func WithBaseURL(url string) Option {
	return func(of *Orderflow) error {
		of.config.BaseURL = url
		return nil
	}
}

// WithCacheTTL sets how long saved form snapshots stay resumable.
func WithCacheTTL(ttl time.Duration) Option {
	return func(of *Orderflow) error {
		of.config.CacheTTL = ttl
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(of *Orderflow) error {
		of.logger = l
		return nil
	}
}

// WithStore sets the cache backend. The store must implement Storer at
// minimum; typically it also implements store.Store.
func WithStore(s Storer) Option {
	return func(of *Orderflow) error {
		of.store = s
		return nil
	}
}
