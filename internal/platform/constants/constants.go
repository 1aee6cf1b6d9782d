// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values shared across Mercado packages:
// server timing, per-IP limits, collection names, cache prefixes and header
// names.
package constants

import "time"

const (
	AppName    = "mercado-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// GlobalRequestTimeout bounds a request end to end, including SQL
	// statements on the postgres backend.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the drain budget for in-flight requests.
	ShutdownTimeout = 30 * time.Second
)

// # Per-IP Rate Limiting

const (
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	// Idle client buckets are swept every RateLimitCleanupInterval once unused
	// for RateLimitClientTTL.
	RateLimitCleanupInterval = 1 * time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Tokens

const (
	// TokenTypeBearer is the token_type returned with every token pair.
	TokenTypeBearer = "bearer"

	// BearerScheme is matched case-insensitively in the Authorization header.
	BearerScheme = "bearer"
)

// # Health Payload Keys

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Document Collections

const (
	CollectionUsers      = "users"
	CollectionBusinesses = "businesses"
	CollectionProducts   = "products"
)

// # Redis Keys

const (
	// RedisPrefixLoginAttempts is followed by the lowercased email.
	RedisPrefixLoginAttempts = "mercado:login_attempts:"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
	HeaderAuthenticate  = "WWW-Authenticate"
	HeaderRetryAfter    = "Retry-After"
)
