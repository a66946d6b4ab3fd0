package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vocadrill/vocadrill-api/internal/domain"
	"github.com/vocadrill/vocadrill-api/internal/platform/logger"
	"github.com/vocadrill/vocadrill-api/internal/store"
)

// PostgresCorpusStore implements the store.CorpusStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCorpusStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCorpusStore creates a new PostgreSQL implementation of the
// CorpusStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresCorpusStore(db store.DBTX, logger *slog.Logger) *PostgresCorpusStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCorpusStore{
		db:     db,
		logger: logger.With(slog.String("component", "corpus_store")),
	}
}

// Ensure PostgresCorpusStore implements store.CorpusStore interface
var _ store.CorpusStore = (*PostgresCorpusStore)(nil)

// Create implements store.CorpusStore.Create.
// Returns validation errors from the domain item if data is invalid, and
// store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresCorpusStore) Create(ctx context.Context, item *domain.CorpusItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("corpus item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	query := `
		INSERT INTO corpus_items
			(id, user_id, english, chinese, mastery_level, next_review_at,
			 practice_count, added_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.UserID,
		item.English,
		item.Chinese,
		item.MasteryLevel,
		item.NextReviewAt,
		item.PracticeCount,
		item.AddedAt,
		item.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during corpus item creation",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()),
				slog.String("user_id", item.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, item.UserID)
		}

		log.Error("failed to create corpus item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()),
			slog.String("user_id", item.UserID.String()))
		return MapError(err)
	}

	log.Debug("corpus item created",
		slog.String("item_id", item.ID.String()),
		slog.String("user_id", item.UserID.String()))
	return nil
}

// GetByID implements store.CorpusStore.GetByID.
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresCorpusStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CorpusItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, english, chinese, mastery_level, next_review_at,
		       practice_count, added_at, updated_at
		FROM corpus_items
		WHERE id = $1
	`

	var item domain.CorpusItem
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.UserID,
		&item.English,
		&item.Chinese,
		&item.MasteryLevel,
		&item.NextReviewAt,
		&item.PracticeCount,
		&item.AddedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("corpus item not found", slog.String("item_id", id.String()))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get corpus item by ID",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, MapError(err)
	}

	return &item, nil
}

// ListByUser implements store.CorpusStore.ListByUser.
// An empty corpus yields an empty slice, not an error.
func (s *PostgresCorpusStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.CorpusItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, english, chinese, mastery_level, next_review_at,
		       practice_count, added_at, updated_at
		FROM corpus_items
		WHERE user_id = $1
		ORDER BY added_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query corpus items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var items []*domain.CorpusItem
	for rows.Next() {
		var item domain.CorpusItem
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.English,
			&item.Chinese,
			&item.MasteryLevel,
			&item.NextReviewAt,
			&item.PracticeCount,
			&item.AddedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan corpus item row",
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if items == nil {
		items = []*domain.CorpusItem{}
	}

	log.Debug("listed corpus items",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(items)))
	return items, nil
}

// Update implements store.CorpusStore.Update.
// It persists the item's mastery state after a practice result.
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresCorpusStore) Update(ctx context.Context, item *domain.CorpusItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("corpus item validation failed during update",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	updatedAt := time.Now().UTC()

	query := `
		UPDATE corpus_items
		SET english = $1, chinese = $2, mastery_level = $3,
		    next_review_at = $4, practice_count = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		item.English,
		item.Chinese,
		item.MasteryLevel,
		item.NextReviewAt,
		item.PracticeCount,
		updatedAt,
		item.ID,
	)
	if err != nil {
		log.Error("failed to update corpus item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "corpus item"); err != nil {
		log.Debug("corpus item not found for update",
			slog.String("item_id", item.ID.String()))
		return store.ErrItemNotFound
	}

	log.Debug("corpus item updated",
		slog.String("item_id", item.ID.String()),
		slog.Int("mastery_level", item.MasteryLevel))
	return nil
}

// Delete implements store.CorpusStore.Delete.
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresCorpusStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM corpus_items WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete corpus item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "corpus item"); err != nil {
		return store.ErrItemNotFound
	}

	log.Debug("corpus item deleted", slog.String("item_id", id.String()))
	return nil
}

// WithTx implements store.CorpusStore.WithTx.
// It returns a new store instance bound to the given transaction.
func (s *PostgresCorpusStore) WithTx(tx *sql.Tx) store.CorpusStore {
	return &PostgresCorpusStore{
		db:     tx,
		logger: s.logger,
	}
}
