// Package cache implements the generated-content cache: scenarios keyed by
// item set and topic, persisted across restarts, with a fixed expiry window.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/vocadrill/vocadrill-api/internal/domain"
	"github.com/vocadrill/vocadrill-api/internal/store"
)

// DefaultTTL is the lifetime of a cache entry.
const DefaultTTL = time.Hour

// ContentCache maps cache keys to generated scenarios. Entries are valid
// only while unexpired and only for the topic they were generated under;
// anything else — including entries that fail to deserialize — is a miss.
// Entries are never updated in place, always replaced.
type ContentCache struct {
	store  store.CacheStore
	clock  func() time.Time
	ttl    time.Duration
	logger *slog.Logger
}

// NewContentCache creates a content cache over the given persisted store.
// The clock is injectable for tests; nil means time.Now.
func NewContentCache(
	cacheStore store.CacheStore,
	ttl time.Duration,
	clock func() time.Time,
	logger *slog.Logger,
) *ContentCache {
	if cacheStore == nil {
		panic("cacheStore cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ContentCache{
		store:  cacheStore,
		clock:  clock,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "content_cache")),
	}
}

// Get returns the cached scenario for key if it matches the requested topic
// and has not expired. Stale, mismatched, and corrupt entries are evicted
// best-effort and reported as a miss; store failures are also a miss.
// Expected conditions never surface as errors.
func (c *ContentCache) Get(ctx context.Context, key, topic string) (*domain.Scenario, bool) {
	entry, err := c.store.Get(ctx, key)
	if err != nil {
		if !store.IsNotFoundError(err) {
			c.logger.WarnContext(ctx, "cache store read failed, treating as miss",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, false
	}

	now := c.clock()
	if entry.Topic != topic || now.Sub(entry.CreatedAt) >= c.ttl {
		c.evict(ctx, key)
		return nil, false
	}

	var scenario domain.Scenario
	if err := json.Unmarshal(entry.Payload, &scenario); err != nil {
		c.logger.DebugContext(ctx, "corrupt cache payload, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()))
		c.evict(ctx, key)
		return nil, false
	}

	if err := scenario.Validate(); err != nil {
		c.logger.DebugContext(ctx, "invalid cached scenario, treating as miss",
			slog.String("key", key),
			slog.String("error", err.Error()))
		c.evict(ctx, key)
		return nil, false
	}

	return &scenario, true
}

// Put stores a scenario under key, overwriting any prior entry.
// Persistence failures are logged and swallowed: the cache is an
// optimization, never a correctness dependency.
func (c *ContentCache) Put(ctx context.Context, key, topic string, scenario *domain.Scenario) {
	payload, err := json.Marshal(scenario)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to serialize scenario for cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return
	}

	entry := &store.CacheEntry{
		Key:       key,
		Topic:     topic,
		Payload:   payload,
		CreatedAt: c.clock(),
	}

	if err := c.store.Put(ctx, entry); err != nil {
		c.logger.WarnContext(ctx, "failed to persist cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// Invalidate removes the entry for key, if any. Used after a successful
// practice so future sessions regenerate fresh content.
func (c *ContentCache) Invalidate(ctx context.Context, key string) {
	c.evict(ctx, key)
}

// InvalidateAll removes every entry. Used on topic change and on
// user-requested restart.
func (c *ContentCache) InvalidateAll(ctx context.Context) {
	if err := c.store.DeleteAll(ctx); err != nil {
		c.logger.WarnContext(ctx, "failed to clear cache",
			slog.String("error", err.Error()))
	}
}

func (c *ContentCache) evict(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.DebugContext(ctx, "failed to evict cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
