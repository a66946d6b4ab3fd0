package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/vocadrill/vocadrill-api/internal/platform/logger"
	"github.com/vocadrill/vocadrill-api/internal/store"
)

// PostgresCacheStore implements the store.CacheStore interface using a
// PostgreSQL database, so generated content survives process restarts.
type PostgresCacheStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCacheStore creates a new PostgreSQL implementation of the
// CacheStore interface. If logger is nil, a default logger will be used.
func NewPostgresCacheStore(db store.DBTX, logger *slog.Logger) *PostgresCacheStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCacheStore{
		db:     db,
		logger: logger.With(slog.String("component", "cache_store")),
	}
}

// Ensure PostgresCacheStore implements store.CacheStore interface
var _ store.CacheStore = (*PostgresCacheStore)(nil)

// Get implements store.CacheStore.Get.
// Returns store.ErrCacheEntryNotFound if no entry exists for key.
func (s *PostgresCacheStore) Get(ctx context.Context, key string) (*store.CacheEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT key, topic, payload, created_at
		FROM content_cache
		WHERE key = $1
	`

	var entry store.CacheEntry
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&entry.Key,
		&entry.Topic,
		&entry.Payload,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCacheEntryNotFound
		}
		log.Error("failed to read cache entry",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return nil, MapError(err)
	}

	return &entry, nil
}

// Put implements store.CacheStore.Put.
// An upsert: any prior entry for the same key is replaced.
func (s *PostgresCacheStore) Put(ctx context.Context, entry *store.CacheEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO content_cache (key, topic, payload, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET topic = EXCLUDED.topic,
		    payload = EXCLUDED.payload,
		    created_at = EXCLUDED.created_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.Key,
		entry.Topic,
		entry.Payload,
		entry.CreatedAt,
	)
	if err != nil {
		log.Error("failed to write cache entry",
			slog.String("error", err.Error()),
			slog.String("key", entry.Key))
		return MapError(err)
	}

	return nil
}

// Delete implements store.CacheStore.Delete.
// Deleting a missing key is not an error.
func (s *PostgresCacheStore) Delete(ctx context.Context, key string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `DELETE FROM content_cache WHERE key = $1`, key)
	if err != nil {
		log.Error("failed to delete cache entry",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return MapError(err)
	}
	return nil
}

// DeleteAll implements store.CacheStore.DeleteAll.
func (s *PostgresCacheStore) DeleteAll(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `DELETE FROM content_cache`)
	if err != nil {
		log.Error("failed to clear content cache",
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}
