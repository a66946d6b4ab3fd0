package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocadrill/vocadrill-api/internal/domain"
	"github.com/vocadrill/vocadrill-api/internal/platform/postgres"
	"github.com/vocadrill/vocadrill-api/internal/store"
	"github.com/vocadrill/vocadrill-api/internal/testdb"
)

func createTestUser(t *testing.T, tx *sql.Tx) *domain.User {
	t.Helper()

	user, err := domain.NewUser(uuid.NewString()+"@example.com", "integration-test-password")
	require.NoError(t, err)
	user.HashedPassword = "not-a-real-hash"
	user.Password = ""

	require.NoError(t, postgres.NewPostgresUserStore(tx, nil).Create(context.Background(), user))
	return user
}

func TestCorpusStoreRoundTrip(t *testing.T) {
	db := testdb.GetTestDB(t)

	testdb.WithTx(t, db, func(tx *sql.Tx) {
		ctx := context.Background()
		corpusStore := postgres.NewPostgresCorpusStore(tx, nil)
		user := createTestUser(t, tx)

		item, err := domain.NewCorpusItem(user.ID, "break the ice", "打破僵局")
		require.NoError(t, err)
		require.NoError(t, corpusStore.Create(ctx, item))

		got, err := corpusStore.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.English, got.English)
		assert.Equal(t, 0, got.MasteryLevel)

		got.MasteryLevel = 1
		got.PracticeCount = 1
		got.NextReviewAt = time.Now().UTC().Add(24 * time.Hour)
		require.NoError(t, corpusStore.Update(ctx, got))

		items, err := corpusStore.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].MasteryLevel)

		require.NoError(t, corpusStore.Delete(ctx, item.ID))
		_, err = corpusStore.GetByID(ctx, item.ID)
		assert.ErrorIs(t, err, store.ErrItemNotFound)
	})
}

func TestCorpusStoreRejectsUnknownUser(t *testing.T) {
	db := testdb.GetTestDB(t)

	testdb.WithTx(t, db, func(tx *sql.Tx) {
		corpusStore := postgres.NewPostgresCorpusStore(tx, nil)

		item, err := domain.NewCorpusItem(uuid.New(), "hit the road", "上路")
		require.NoError(t, err)

		err = corpusStore.Create(context.Background(), item)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestCacheStoreUpsert(t *testing.T) {
	db := testdb.GetTestDB(t)

	testdb.WithTx(t, db, func(tx *sql.Tx) {
		ctx := context.Background()
		cacheStore := postgres.NewPostgresCacheStore(tx, nil)

		entry := &store.CacheEntry{
			Key:       "test-key-" + uuid.NewString(),
			Topic:     "travel",
			Payload:   []byte(`{"script":"one"}`),
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, cacheStore.Put(ctx, entry))

		entry.Payload = []byte(`{"script":"two"}`)
		require.NoError(t, cacheStore.Put(ctx, entry))

		got, err := cacheStore.Get(ctx, entry.Key)
		require.NoError(t, err)
		assert.JSONEq(t, `{"script":"two"}`, string(got.Payload))

		require.NoError(t, cacheStore.Delete(ctx, entry.Key))
		_, err = cacheStore.Get(ctx, entry.Key)
		assert.ErrorIs(t, err, store.ErrCacheEntryNotFound)
	})
}
