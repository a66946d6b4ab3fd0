package store

import (
	"context"
	"time"
)

// CacheEntry is a persisted generated-content record. Payload carries the
// serialized scenario; interpretation (expiry, topic matching, corruption
// handling) belongs to the cache layer, not the store.
type CacheEntry struct {
	Key       string
	Topic     string
	Payload   []byte
	CreatedAt time.Time
}

// CacheStore defines the interface for persisted cache entries. The cache
// survives process restarts; the in-memory ContentCache is reconstructed
// from this store on demand.
type CacheStore interface {
	// Get retrieves the entry stored under key.
	// Returns ErrCacheEntryNotFound if no entry exists.
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Put stores an entry, replacing any prior entry for the same key.
	Put(ctx context.Context, entry *CacheEntry) error

	// Delete removes the entry stored under key. Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteAll removes every entry.
	DeleteAll(ctx context.Context) error
}
