// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, reindex workers) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Tagraph API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// RedisURL backs the reindex retry ledger. Empty disables the ledger.
	RedisURL string `env:"REDIS_URL"`

	// SearchIndexPath is the directory holding the bleve index.
	SearchIndexPath string `env:"SEARCH_INDEX_PATH" envDefault:"./data/search"`

	// Reindex holds the background indexing pipeline settings.
	Reindex ReindexConfig `envPrefix:"REINDEX_"`

	// RateLimit caps /api/v1 requests per client IP.
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
}

// RateLimitConfig sizes the per-IP token buckets.
type RateLimitConfig struct {
	RPS   float64 `env:"RPS"   envDefault:"100"`
	Burst int     `env:"BURST" envDefault:"150"`
}

// ReindexConfig tunes the reindex worker pool and its retry behaviour.
type ReindexConfig struct {
	Workers      int           `env:"WORKERS"       envDefault:"4"`
	QueueSize    int           `env:"QUEUE_SIZE"    envDefault:"1024"`
	BatchSize    int           `env:"BATCH_SIZE"    envDefault:"250"`
	MaxAttempts  int           `env:"MAX_ATTEMPTS"  envDefault:"3"`
	RetryBackoff time.Duration `env:"RETRY_BACKOFF" envDefault:"500ms"`

	// SweepInterval is how often the retry ledger is drained back into the queue.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	// SweepRate caps resubmitted jobs per second.
	SweepRate float64 `env:"SWEEP_RATE" envDefault:"20"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects values the worker pool and rate limiter cannot run with.
func (c *Config) validate() error {
	if c.Reindex.Workers < 1 {
		return fmt.Errorf("config: REINDEX_WORKERS must be at least 1, got %d", c.Reindex.Workers)
	}
	if c.Reindex.QueueSize < 1 {
		return fmt.Errorf("config: REINDEX_QUEUE_SIZE must be at least 1, got %d", c.Reindex.QueueSize)
	}
	if c.Reindex.BatchSize < 1 {
		return fmt.Errorf("config: REINDEX_BATCH_SIZE must be at least 1, got %d", c.Reindex.BatchSize)
	}
	if c.Reindex.MaxAttempts < 1 {
		return fmt.Errorf("config: REINDEX_MAX_ATTEMPTS must be at least 1, got %d", c.Reindex.MaxAttempts)
	}
	if c.RateLimit.RPS <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPS must be positive, got %v", c.RateLimit.RPS)
	}
	if c.RateLimit.Burst < 1 {
		return fmt.Errorf("config: RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimit.Burst)
	}
	return nil
}
