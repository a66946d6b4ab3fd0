package mocks

import (
	"context"
	"sync"

	"github.com/vocadrill/vocadrill-api/internal/store"
)

// MemoryCacheStore is an in-memory store.CacheStore used in tests in place
// of the Postgres-backed implementation.
type MemoryCacheStore struct {
	// GetErr and PutErr inject store failures when set.
	GetErr error
	PutErr error

	mu      sync.Mutex
	entries map[string]store.CacheEntry
}

// NewMemoryCacheStore creates an empty in-memory cache store.
func NewMemoryCacheStore() *MemoryCacheStore {
	return &MemoryCacheStore{entries: make(map[string]store.CacheEntry)}
}

// Get implements store.CacheStore.
func (s *MemoryCacheStore) Get(ctx context.Context, key string) (*store.CacheEntry, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, store.ErrCacheEntryNotFound
	}
	return &entry, nil
}

// Put implements store.CacheStore.
func (s *MemoryCacheStore) Put(ctx context.Context, entry *store.CacheEntry) error {
	if s.PutErr != nil {
		return s.PutErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = *entry
	return nil
}

// Delete implements store.CacheStore.
func (s *MemoryCacheStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// DeleteAll implements store.CacheStore.
func (s *MemoryCacheStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]store.CacheEntry)
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryCacheStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Corrupt overwrites the payload stored under key with malformed bytes.
func (s *MemoryCacheStore) Corrupt(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok {
		entry.Payload = []byte("{not json")
		s.entries[key] = entry
	}
}
