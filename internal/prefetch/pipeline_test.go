package prefetch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocadrill/vocadrill-api/internal/cache"
	"github.com/vocadrill/vocadrill-api/internal/domain"
	"github.com/vocadrill/vocadrill-api/internal/generation"
	"github.com/vocadrill/vocadrill-api/internal/mocks"
)

func newTestQueue(t *testing.T, n int) []*domain.CorpusItem {
	t.Helper()

	queue := make([]*domain.CorpusItem, 0, n)
	for i := 0; i < n; i++ {
		item, err := domain.NewCorpusItem(uuid.New(),
			fmt.Sprintf("phrase %d", i), fmt.Sprintf("短语 %d", i))
		require.NoError(t, err)
		queue = append(queue, item)
	}
	return queue
}

func newTestCache() *cache.ContentCache {
	return cache.NewContentCache(mocks.NewMemoryCacheStore(), time.Hour, nil, nil)
}

func TestEnsurePrefetchedFillsHorizon(t *testing.T) {
	t.Parallel()

	gen := &mocks.MockGenerator{}
	contentCache := newTestCache()
	p := New(gen, contentCache, 2, nil)

	queue := newTestQueue(t, 6)
	ctx := context.Background()

	launched := p.EnsurePrefetched(ctx, queue, 0, "travel", 3, 3)
	require.True(t, launched)
	p.Wait()

	// Items 1..3 are inside the horizon, item 0 is the current item and
	// items 4..5 are beyond it.
	for i := 1; i <= 3; i++ {
		key := cache.ItemKey(queue[i].ID, "travel")
		_, ok := contentCache.Get(ctx, key, "travel")
		assert.True(t, ok, "item %d should be prefetched", i)
	}
	_, ok := contentCache.Get(ctx, cache.ItemKey(queue[0].ID, "travel"), "travel")
	assert.False(t, ok, "current item is not prefetched")
	_, ok = contentCache.Get(ctx, cache.ItemKey(queue[4].ID, "travel"), "travel")
	assert.False(t, ok, "items beyond the horizon are not prefetched")

	assert.Equal(t, 3, gen.Calls())
}

func TestEnsurePrefetchedNoOpWhenCached(t *testing.T) {
	t.Parallel()

	gen := &mocks.MockGenerator{}
	contentCache := newTestCache()
	p := New(gen, contentCache, 2, nil)

	queue := newTestQueue(t, 3)
	ctx := context.Background()

	for i := 1; i < 3; i++ {
		contentCache.Put(ctx, cache.ItemKey(queue[i].ID, "travel"), "travel",
			&domain.Scenario{Script: "s", Reference: "r", Highlights: []string{"p"}})
	}

	launched := p.EnsurePrefetched(ctx, queue, 0, "travel", 2, 2)
	assert.False(t, launched)
	assert.Equal(t, 0, gen.Calls())
}

func TestEnsurePrefetchedSingleFlight(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	gen := &mocks.MockGenerator{
		GenerateScenarioFn: func(ctx context.Context, phrases []string, topic string) (*domain.Scenario, error) {
			<-release
			return &domain.Scenario{Script: "s", Reference: "r", Highlights: phrases}, nil
		},
	}
	contentCache := newTestCache()
	p := New(gen, contentCache, 4, nil)

	queue := newTestQueue(t, 4)
	ctx := context.Background()

	first := p.EnsurePrefetched(ctx, queue, 0, "travel", 3, 3)
	require.True(t, first)

	// While the first batch is in flight, further calls are no-ops.
	second := p.EnsurePrefetched(ctx, queue, 0, "travel", 3, 3)
	assert.False(t, second)

	close(release)
	p.Wait()

	// Exactly one generation per missing key, not two.
	assert.Equal(t, 3, gen.Calls())
	for i := 1; i <= 3; i++ {
		assert.Equal(t, 1, gen.CallsFor([]string{queue[i].English}, "travel"))
	}

	// After the batch settles the guard is released and everything is
	// cached, so the next call is an ordinary no-op.
	third := p.EnsurePrefetched(ctx, queue, 0, "travel", 3, 3)
	assert.False(t, third)
}

func TestEnsurePrefetchedRespectsBatchSize(t *testing.T) {
	t.Parallel()

	gen := &mocks.MockGenerator{}
	contentCache := newTestCache()
	p := New(gen, contentCache, 2, nil)

	queue := newTestQueue(t, 8)

	launched := p.EnsurePrefetched(context.Background(), queue, 0, "travel", 6, 2)
	require.True(t, launched)
	p.Wait()

	assert.Equal(t, 2, gen.Calls(), "batch is capped at batchSize even with a wider horizon")
}

func TestEnsurePrefetchedSwallowsFailures(t *testing.T) {
	t.Parallel()

	gen := &mocks.MockGenerator{
		Err: fmt.Errorf("%w: 503", generation.ErrTransientFailure),
	}
	contentCache := newTestCache()
	p := New(gen, contentCache, 2, nil)

	queue := newTestQueue(t, 3)
	ctx := context.Background()

	launched := p.EnsurePrefetched(ctx, queue, 0, "travel", 2, 2)
	require.True(t, launched)
	p.Wait()

	// Nothing cached, but the guard is released and a new batch can run.
	_, ok := contentCache.Get(ctx, cache.ItemKey(queue[1].ID, "travel"), "travel")
	assert.False(t, ok)

	gen.Err = nil
	relaunched := p.EnsurePrefetched(ctx, queue, 0, "travel", 2, 2)
	assert.True(t, relaunched, "guard must be released after a failed batch")
	p.Wait()
}

func TestEnsurePrefetchedCursorAtEnd(t *testing.T) {
	t.Parallel()

	gen := &mocks.MockGenerator{}
	p := New(gen, newTestCache(), 2, nil)

	queue := newTestQueue(t, 3)

	launched := p.EnsurePrefetched(context.Background(), queue, 2, "travel", 3, 3)
	assert.False(t, launched, "no items past the cursor means no batch")
	assert.Equal(t, 0, gen.Calls())
}
