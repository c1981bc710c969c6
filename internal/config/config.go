// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars.
// - External errors are wrapped via this package's sentinel errors.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Timezone is the fixed IANA zone used for calendar-day and heatmap
	// bucketing. Never the process-local zone; defaults to UTC.
	Timezone string `koanf:"timezone"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the in-memory event store.
	ShardCount int `koanf:"shard_count"`

	// DefaultTopN and MaxTopN bound the player subset tracked by the
	// volatility and progression series.
	DefaultTopN int `koanf:"default_top_n"`
	MaxTopN     int `koanf:"max_top_n"`

	// DefaultLimit and MaxLimit bound leaderboard and delta table sizes.
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// SnapshotCacheTTLMS is how long a fetched snapshot is served from the
	// read-through cache before the next read refetches. Zero disables the
	// cache and every report recomputes from a fresh snapshot.
	SnapshotCacheTTLMS int `koanf:"snapshot_cache_ttl_ms"`

	// DatabaseURL selects the Postgres-backed event store when non-empty;
	// otherwise events live in the in-memory store.
	DatabaseURL string `koanf:"database_url"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		Timezone:           "UTC",
		QueueSize:          100_000,
		WorkerCount:        runtime.NumCPU() * 2,
		DedupeSize:         500_000,
		ShardCount:         8,
		DefaultTopN:        5,
		MaxTopN:            50,
		DefaultLimit:       10,
		MaxLimit:           100,
		SnapshotCacheTTLMS: 2_000,
	}
}
