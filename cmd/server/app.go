package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vocadrill/vocadrill-api/internal/cache"
	"github.com/vocadrill/vocadrill-api/internal/config"
	"github.com/vocadrill/vocadrill-api/internal/domain/srs"
	"github.com/vocadrill/vocadrill-api/internal/generation"
	"github.com/vocadrill/vocadrill-api/internal/platform/gemini"
	"github.com/vocadrill/vocadrill-api/internal/platform/logger"
	"github.com/vocadrill/vocadrill-api/internal/platform/postgres"
	"github.com/vocadrill/vocadrill-api/internal/prefetch"
	"github.com/vocadrill/vocadrill-api/internal/service/auth"
	"github.com/vocadrill/vocadrill-api/internal/service/review"
	"github.com/vocadrill/vocadrill-api/internal/store"
)

// application holds the composed dependency graph for the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	corpusStore   store.CorpusStore
	jwtService    auth.JWTService
	passwords     auth.PasswordManager
	reviewService review.Service
	prefetcher    *prefetch.Pipeline
}

// newApplication loads configuration and wires every service the server
// needs. Construction fails fast: a bad config, unreachable database, or
// rejected LLM credentials stop the process before it accepts traffic.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	corpusStore := postgres.NewPostgresCorpusStore(db, log)
	cacheStore := postgres.NewPostgresCacheStore(db, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	generator, err := gemini.NewScenarioGenerator(ctx, log, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario generator: %w", err)
	}
	// Deduplicate concurrent requests for the same item before they reach
	// the Gemini API.
	deduped := generation.NewDedupingGenerator(generator)
	retry := generation.NewRetryPolicy(
		cfg.LLM.MaxRetries,
		time.Duration(cfg.LLM.RetryDelaySeconds)*time.Second,
	)

	contentCache := cache.NewContentCache(
		cacheStore,
		time.Duration(cfg.Review.CacheTTLSeconds)*time.Second,
		nil,
		log,
	)
	prefetcher := prefetch.New(deduped, contentCache, 0, log)

	reviewService := review.NewService(
		corpusStore,
		srs.NewDefaultService(),
		contentCache,
		deduped,
		retry,
		prefetcher,
		review.Config{
			SessionSize:       cfg.Review.SessionSize,
			WarmupCount:       cfg.Review.WarmupCount,
			PrefetchHorizon:   cfg.Review.PrefetchHorizon,
			PrefetchBatchSize: cfg.Review.PrefetchBatchSize,
		},
		log,
	)

	return &application{
		config:        cfg,
		logger:        log,
		db:            db,
		userStore:     userStore,
		corpusStore:   corpusStore,
		jwtService:    jwtService,
		passwords:     auth.NewBcryptVerifier(),
		reviewService: reviewService,
		prefetcher:    prefetcher,
	}, nil
}

// cleanup releases application resources in reverse dependency order.
// Outstanding prefetch batches are drained before the database closes
// underneath them.
func (app *application) cleanup() {
	if app.prefetcher != nil {
		app.prefetcher.Wait()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}

// openDatabase opens the connection pool and verifies connectivity.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}
