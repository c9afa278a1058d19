// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: IP tracking TTLs. Rates and bursts come from config.
  - Tag Graph: Name limits and alias resolution depth.
  - Reindexing: Redis keys used by the retry ledger.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "tagraph-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Tag Graph

const (
	// TagNameMaxLength bounds the length of a single tag name in characters.
	TagNameMaxLength = 100

	// TagSlugMaxLength is the width of the slug column in bytes. Escaping can
	// grow one 4-byte rune to 12 bytes, so every valid name fits.
	TagSlugMaxLength = 12 * TagNameMaxLength

	// TagDescriptionMaxLength bounds the free-form tag description.
	TagDescriptionMaxLength = 600

	// TagCategoryMaxLength bounds the category label.
	TagCategoryMaxLength = 32

	// TagListMaxTokens bounds the number of names accepted in one tag list.
	TagListMaxTokens = 500

	// MaxAliasHops is the number of alias indirections followed when resolving
	// a name. Merges flatten chains so stored data never needs more.
	MaxAliasHops = 1
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisKeyReindexFailed is the list holding reindex jobs awaiting retry.
	RedisKeyReindexFailed = "reindex:failed"
)
