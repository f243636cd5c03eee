// Package cache provides TTL-bound response caching for E-utilities requests.
//
// Three backends satisfy the same Store contract: a bounded in-memory store
// (evicting the least-recently-inserted entry when full), a Redis store shared
// across processes, and a SQLite store persisted on local disk. Expired
// entries are evicted lazily on lookup; no backend runs a background sweeper.
//
// Cache failures never fail the surrounding request. The executor treats any
// Store error other than ErrCacheMiss as a degraded miss and reports it via
// its observer.
package cache

import (
	"context"
	"errors"
)

var (
	// ErrCacheMiss indicates the requested key was not found or has expired.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the stored entry is corrupted.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is the cache contract shared by all backends.
type Store interface {
	// Get returns the entry for key, or ErrCacheMiss if it is absent or
	// expired. Expired entries are removed as a side effect.
	Get(ctx context.Context, key Key) (*Entry, error)

	// Set stores an entry, overwriting any previous value for key.
	Set(ctx context.Context, key Key, entry *Entry) error

	// Delete removes the entry for key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key Key) error

	// Clear removes all entries written by this client.
	Clear(ctx context.Context) error
}
