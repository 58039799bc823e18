// Package cache stores generated QR artifacts between runs.
//
// Rendering a branded QR code is cheap, but the CLI and the HTTP server
// regenerate the same vectors over and over (previews, re-exports, share
// pages). Entries are opaque byte slices keyed by content hashes produced by
// a [Keyer], so two requests with identical text, level and styling share a
// single entry.
//
// Backends:
//   - [FileCache]: JSON entry files under a directory, used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [MemoryCache]: in-process map, used by tests and the interactive preview
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss with (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero on Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs for the artifact kinds.
const (
	TTLVector   = 7 * 24 * time.Hour
	TTLRaster   = 24 * time.Hour
	TTLTemplate = time.Hour
)
