package orderflow

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds configuration shared by every wizard opened through an
// Orderflow handle.
type Config struct {
	// BaseURL is the order API base URL used uniformly by all remote calls.
	BaseURL string `yaml:"base_url"`

	// CacheTTL is how long a saved form snapshot stays resumable.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// SweepSchedule is the cron expression for the expired-entry sweep.
	SweepSchedule string `yaml:"sweep_schedule"`

	// RequestTimeout bounds every remote call.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxRetries is the number of retries for idempotent remote reads.
	MaxRetries int `yaml:"max_retries"`

	// RequestsPerSecond limits outbound remote calls. Zero disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// SerializeConcurrency caps concurrent attachment encodes.
	SerializeConcurrency int `yaml:"serialize_concurrency"`

	// SnapshotCodec names the snapshot encoding: "json" (default) or
	// "msgpack". Frontends sharing a store must agree on it.
	SnapshotCodec string `yaml:"snapshot_codec"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:             10 * time.Minute,
		SweepSchedule:        "@every 1m",
		RequestTimeout:       30 * time.Second,
		MaxRetries:           2,
		RequestsPerSecond:    10,
		SerializeConcurrency: 4,
		SnapshotCodec:        "json",
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig. The
// ORDERFLOW_BASE_URL environment variable overrides base_url.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("orderflow: read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("orderflow: parse config: %w", err)
		}
	}
	if v := os.Getenv("ORDERFLOW_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	return cfg, nil
}
