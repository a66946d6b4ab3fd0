package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vocadrill/vocadrill-api/internal/cache"
	"github.com/vocadrill/vocadrill-api/internal/domain"
	"github.com/vocadrill/vocadrill-api/internal/domain/srs"
	"github.com/vocadrill/vocadrill-api/internal/generation"
	"github.com/vocadrill/vocadrill-api/internal/platform/logger"
	"github.com/vocadrill/vocadrill-api/internal/prefetch"
	"github.com/vocadrill/vocadrill-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*reviewService)(nil)

// Config tunes session shape and lookahead behavior.
type Config struct {
	// SessionSize is the number of items selected per session.
	SessionSize int

	// WarmupCount is how many items at the front of the queue are
	// generated synchronously at session start to shorten
	// time-to-interactive. The rest go through the prefetch pipeline.
	WarmupCount int

	// PrefetchHorizon is how far past the cursor the prefetch pipeline
	// looks for missing content.
	PrefetchHorizon int

	// PrefetchBatchSize caps how many items one prefetch batch generates.
	PrefetchBatchSize int
}

// DefaultConfig returns the session tuning defaults.
func DefaultConfig() Config {
	return Config{
		SessionSize:       srs.DefaultSessionSize,
		WarmupCount:       2,
		PrefetchHorizon:   3,
		PrefetchBatchSize: 2,
	}
}

// reviewService implements the Service interface. Sessions live in memory
// for the lifetime of the process; mastery updates and cache entries are
// persisted through the injected stores.
type reviewService struct {
	corpusStore  store.CorpusStore
	srsService   srs.Service
	contentCache *cache.ContentCache
	generator    generation.Generator
	retry        *generation.RetryPolicy
	prefetcher   *prefetch.Pipeline
	cfg          Config
	logger       *slog.Logger
	clock        func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewService creates a review service.
func NewService(
	corpusStore store.CorpusStore,
	srsService srs.Service,
	contentCache *cache.ContentCache,
	generator generation.Generator,
	retry *generation.RetryPolicy,
	prefetcher *prefetch.Pipeline,
	cfg Config,
	log *slog.Logger,
) Service {
	if corpusStore == nil {
		panic("corpusStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if contentCache == nil {
		panic("contentCache cannot be nil")
	}
	if generator == nil {
		panic("generator cannot be nil")
	}
	if retry == nil {
		panic("retry cannot be nil")
	}
	if prefetcher == nil {
		panic("prefetcher cannot be nil")
	}
	if cfg.SessionSize <= 0 {
		cfg.SessionSize = srs.DefaultSessionSize
	}
	if cfg.WarmupCount <= 0 {
		cfg.WarmupCount = DefaultConfig().WarmupCount
	}
	if cfg.PrefetchHorizon <= 0 {
		cfg.PrefetchHorizon = DefaultConfig().PrefetchHorizon
	}
	if cfg.PrefetchBatchSize <= 0 {
		cfg.PrefetchBatchSize = DefaultConfig().PrefetchBatchSize
	}
	if log == nil {
		log = slog.Default()
	}

	return &reviewService{
		corpusStore:  corpusStore,
		srsService:   srsService,
		contentCache: contentCache,
		generator:    generator,
		retry:        retry,
		prefetcher:   prefetcher,
		cfg:          cfg,
		logger:       log.With(slog.String("component", "review_service")),
		clock:        time.Now,
		sessions:     make(map[uuid.UUID]*Session),
	}
}

// StartSession implements Service.StartSession.
func (s *reviewService) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	topic string,
	target int,
) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if target < 0 {
		return nil, ErrSessionTargetInvalid
	}

	corpus, err := s.corpusStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to load corpus for session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	now := s.clock().UTC()
	queue, err := s.srsService.SelectItems(corpus, s.cfg.SessionSize, now)
	if err != nil {
		if errors.Is(err, srs.ErrEmptyCorpus) {
			return nil, ErrEmptyCorpus
		}
		return nil, fmt.Errorf("failed to select session items: %w", err)
	}

	// The session context outlives the request: background prefetch keeps
	// running between requests, until the session completes or is abandoned.
	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Topic:     topic,
		Target:    target,
		StartedAt: now,
		state:     StateInitializing,
		queue:     queue,
		ctx:       sessionCtx,
		cancel:    cancel,
	}

	if s.fullyCached(ctx, session) {
		log.Debug("session content fully cached, skipping generation",
			slog.String("session_id", session.ID.String()),
			slog.Int("queue_size", len(queue)))
	} else if err := s.warmup(ctx, session); err != nil {
		session.state = StateFailed
		cancel()
		log.Error("session initialization failed",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to prepare session content: %w", err)
	} else {
		s.prefetcher.EnsurePrefetched(sessionCtx, queue, 0, topic,
			s.cfg.PrefetchHorizon, s.cfg.PrefetchBatchSize)
	}

	session.state = StateActive

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	log.Debug("session started",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("topic", topic),
		slog.Int("queue_size", len(queue)),
		slog.Int("target", target))
	return session, nil
}

// GetSession implements Service.GetSession.
func (s *reviewService) GetSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*Session, error) {
	return s.getOwned(userID, sessionID)
}

// CurrentContent implements Service.CurrentContent.
func (s *reviewService) CurrentContent(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*CurrentItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.getOwned(userID, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := s.serveableLocked(session); err != nil {
		return nil, err
	}

	item := session.queue[session.cursor]
	key := cache.ItemKey(item.ID, session.Topic)

	scenario, ok := s.contentCache.Get(ctx, key, session.Topic)
	if !ok {
		// Foreground miss: generate synchronously under the retry policy.
		scenario, err = s.generate(ctx, item, session.Topic)
		if err != nil {
			log.Warn("foreground generation failed",
				slog.String("error", err.Error()),
				slog.String("session_id", session.ID.String()),
				slog.String("item_id", item.ID.String()))
			return nil, err
		}
		s.contentCache.Put(ctx, key, session.Topic, scenario)
	}

	s.prefetcher.EnsurePrefetched(session.ctx, session.queue, session.cursor,
		session.Topic, s.cfg.PrefetchHorizon, s.cfg.PrefetchBatchSize)

	itemCopy := *item
	return &CurrentItem{Item: &itemCopy, Scenario: scenario}, nil
}

// SubmitResult implements Service.SubmitResult.
func (s *reviewService) SubmitResult(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	success bool,
) (*SubmitOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.getOwned(userID, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := s.serveableLocked(session); err != nil {
		return nil, err
	}

	session.state = StateReviewing

	item := session.queue[session.cursor]
	updated, err := s.srsService.ApplyResult(item, success, s.clock().UTC())
	if err != nil {
		session.state = StateActive
		return nil, fmt.Errorf("failed to apply review result: %w", err)
	}

	if err := s.corpusStore.Update(ctx, updated); err != nil {
		session.state = StateActive
		log.Error("failed to persist mastery update",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("item_id", item.ID.String()))
		return nil, fmt.Errorf("failed to persist mastery update: %w", err)
	}
	session.queue[session.cursor] = updated

	// Invalidate on both paths: after a success so future sessions see
	// fresh content, after a failure so the immediate retry is not a
	// verbatim repeat of the same scenario.
	s.contentCache.Invalidate(ctx, cache.ItemKey(item.ID, session.Topic))

	if success {
		session.progress++
		session.cursor++
	}

	if session.completeLocked() {
		session.state = StateComplete
		session.cancel()
		log.Debug("session complete",
			slog.String("session_id", session.ID.String()),
			slog.Int("progress", session.progress),
			slog.Int("cursor", session.cursor))
	} else {
		session.state = StateActive
		s.prefetcher.EnsurePrefetched(session.ctx, session.queue, session.cursor,
			session.Topic, s.cfg.PrefetchHorizon, s.cfg.PrefetchBatchSize)
	}

	log.Debug("review result recorded",
		slog.String("session_id", session.ID.String()),
		slog.String("item_id", item.ID.String()),
		slog.Bool("success", success),
		slog.Int("mastery_level", updated.MasteryLevel))

	updatedCopy := *updated
	return &SubmitOutcome{
		Item:    &updatedCopy,
		Session: session.snapshotLocked(),
	}, nil
}

// Abandon implements Service.Abandon.
func (s *reviewService) Abandon(ctx context.Context, userID, sessionID uuid.UUID) error {
	session, err := s.getOwned(userID, sessionID)
	if err != nil {
		return err
	}

	session.cancel()

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	logger.FromContextOrDefault(ctx, s.logger).Debug("session abandoned",
		slog.String("session_id", sessionID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// getOwned looks up a session and verifies ownership.
func (s *reviewService) getOwned(userID, sessionID uuid.UUID) (*Session, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, ErrSessionNotOwned
	}
	return session, nil
}

// serveableLocked rejects operations on sessions that can no longer serve
// content. Callers must hold session.mu.
func (s *reviewService) serveableLocked(session *Session) error {
	switch session.state {
	case StateComplete:
		return ErrSessionComplete
	case StateFailed:
		return ErrSessionFailed
	default:
		return nil
	}
}

// fullyCached reports whether every queued item already has valid cached
// content for the session topic. When it does, session start skips
// generation entirely.
func (s *reviewService) fullyCached(ctx context.Context, session *Session) bool {
	for _, item := range session.queue {
		key := cache.ItemKey(item.ID, session.Topic)
		if _, ok := s.contentCache.Get(ctx, key, session.Topic); !ok {
			return false
		}
	}
	return true
}

// warmup generates content for the first items of the queue in parallel so
// the session is interactive after one round of generation latency. A
// failure on the first item is fatal to session start; failures further in
// degrade to cache misses handled by the foreground path.
func (s *reviewService) warmup(ctx context.Context, session *Session) error {
	count := s.cfg.WarmupCount
	if count > len(session.queue) {
		count = len(session.queue)
	}

	failures := make([]error, count)
	g := new(errgroup.Group)
	g.SetLimit(count)

	for i := 0; i < count; i++ {
		item := session.queue[i]
		key := cache.ItemKey(item.ID, session.Topic)
		if _, ok := s.contentCache.Get(ctx, key, session.Topic); ok {
			continue
		}

		idx := i
		g.Go(func() error {
			scenario, err := s.generate(ctx, item, session.Topic)
			if err != nil {
				failures[idx] = err
				return nil
			}
			s.contentCache.Put(ctx, key, session.Topic, scenario)
			return nil
		})
	}

	// Failures are collected per slot; Wait only synchronizes the batch.
	_ = g.Wait()

	for i, err := range failures {
		if err == nil {
			continue
		}
		if i == 0 {
			return err
		}
		s.logger.Warn("warmup generation failed, item degrades to cache miss",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("item_id", session.queue[i].ID.String()))
	}
	return nil
}

// generate runs one generation call for a single item under the retry
// policy.
func (s *reviewService) generate(
	ctx context.Context,
	item *domain.CorpusItem,
	topic string,
) (*domain.Scenario, error) {
	var scenario *domain.Scenario
	err := s.retry.Do(ctx, s.logger, func(ctx context.Context) error {
		var genErr error
		scenario, genErr = s.generator.GenerateScenario(ctx, []string{item.English}, topic)
		return genErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate practice content: %w", err)
	}
	return scenario, nil
}
