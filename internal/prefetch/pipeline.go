// Package prefetch keeps a lookahead buffer of generated practice content
// ready before the user reaches it. It runs at most one background batch at
// a time and never blocks the foreground path.
package prefetch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vocadrill/vocadrill-api/internal/cache"
	"github.com/vocadrill/vocadrill-api/internal/domain"
	"github.com/vocadrill/vocadrill-api/internal/generation"
)

// DefaultConcurrency bounds how many generation calls a batch runs at once.
const DefaultConcurrency = 2

// Pipeline fills the content cache ahead of the session cursor.
//
// The in-flight guard is a batch-level single-flight: while one batch is
// running, further EnsurePrefetched calls are no-ops. Failed generations are
// logged and swallowed; the item simply stays a cache miss and the foreground
// path generates it synchronously when the user arrives.
type Pipeline struct {
	gen          generation.Generator
	contentCache *cache.ContentCache
	concurrency  int
	logger       *slog.Logger

	inFlight atomic.Bool
	wg       sync.WaitGroup
}

// New creates a prefetch pipeline over the given generator and cache.
func New(
	gen generation.Generator,
	contentCache *cache.ContentCache,
	concurrency int,
	logger *slog.Logger,
) *Pipeline {
	if gen == nil {
		panic("gen cannot be nil")
	}
	if contentCache == nil {
		panic("contentCache cannot be nil")
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		gen:          gen,
		contentCache: contentCache,
		concurrency:  concurrency,
		logger:       logger.With(slog.String("component", "prefetch_pipeline")),
	}
}

// EnsurePrefetched inspects the queue slots within horizon past the cursor
// and launches one background batch generating up to batchSize of the items
// whose content is missing or expired. Returns true if a batch was launched.
//
// The call itself never blocks on generation. Cancelling ctx stops the batch;
// results arriving after cancellation fail their cache writes and are
// dropped, so an abandoned session cannot be mutated by stragglers.
func (p *Pipeline) EnsurePrefetched(
	ctx context.Context,
	queue []*domain.CorpusItem,
	cursor int,
	topic string,
	horizon int,
	batchSize int,
) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		// A batch is already running; never issue overlapping batches.
		return false
	}

	missing := p.missingItems(ctx, queue, cursor, topic, horizon)
	if len(missing) == 0 {
		p.inFlight.Store(false)
		return false
	}

	if batchSize > 0 && len(missing) > batchSize {
		missing = missing[:batchSize]
	}

	p.wg.Add(1)
	go p.runBatch(ctx, missing, topic)
	return true
}

// Wait blocks until any running batch settles. Used on shutdown and in tests.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// missingItems returns the items in queue[cursor+1 .. cursor+horizon] whose
// content is absent from the cache.
func (p *Pipeline) missingItems(
	ctx context.Context,
	queue []*domain.CorpusItem,
	cursor int,
	topic string,
	horizon int,
) []*domain.CorpusItem {
	start := cursor + 1
	end := cursor + horizon + 1
	if start < 0 {
		start = 0
	}
	if end > len(queue) {
		end = len(queue)
	}
	if start >= end {
		return nil
	}

	var missing []*domain.CorpusItem
	for _, item := range queue[start:end] {
		key := cache.ItemKey(item.ID, topic)
		if _, ok := p.contentCache.Get(ctx, key, topic); !ok {
			missing = append(missing, item)
		}
	}
	return missing
}

// runBatch generates content for the batch concurrently and releases the
// in-flight guard when every request has settled.
func (p *Pipeline) runBatch(ctx context.Context, batch []*domain.CorpusItem, topic string) {
	defer p.wg.Done()
	defer p.inFlight.Store(false)

	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)

	for _, item := range batch {
		g.Go(func() error {
			scenario, err := p.gen.GenerateScenario(ctx, []string{item.English}, topic)
			if err != nil {
				// Prefetch failures are non-fatal: the item degrades to
				// a cache miss and the foreground path retries it.
				p.logger.WarnContext(ctx, "prefetch generation failed",
					slog.String("item_id", item.ID.String()),
					slog.String("topic", topic),
					slog.String("error", err.Error()))
				return nil
			}

			p.contentCache.Put(ctx, cache.ItemKey(item.ID, topic), topic, scenario)
			return nil
		})
	}

	// Errors are swallowed above; Wait only synchronizes the batch.
	_ = g.Wait()

	p.logger.DebugContext(ctx, "prefetch batch settled",
		slog.Int("batch_size", len(batch)),
		slog.String("topic", topic))
}
