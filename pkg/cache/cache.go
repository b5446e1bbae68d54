// Package cache stores computed structures and rendered artifacts.
//
// # Overview
//
// Layout generation is a pure function of the input string and rendering a
// pure function of the structure and render options, so both stages can be
// memoized by key. This package provides the [Cache] interface, three
// backends and the [Keyer] that derives keys:
//
//   - [FileCache]: JSON entries on disk, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// # Keys
//
// Keys are the SHA-256 hash of their components, prefixed by kind:
//
//	k := cache.NewDefaultKeyer()
//	k.LayoutKey("c1ccccc1")                              // "layout:9f2c..."
//	k.ArtifactKey(hash, cache.ArtifactKeyOpts{Format: "svg"}) // "artifact:41ab..."
//
// Failures reading or writing a cache are never fatal to callers: a failed
// Get is treated as a miss.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired key returns
	// (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default entry lifetimes.
const (
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
