package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/vocadrill/vocadrill-api/internal/domain"
)

// CorpusStore defines the interface for corpus item persistence.
type CorpusStore interface {
	// Create saves a new corpus item.
	// Returns validation errors if the item data is invalid.
	Create(ctx context.Context, item *domain.CorpusItem) error

	// GetByID retrieves a corpus item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CorpusItem, error)

	// ListByUser retrieves all corpus items owned by a user,
	// ordered by AddedAt ascending. An empty corpus yields an empty slice,
	// not an error.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CorpusItem, error)

	// Update persists an item's mastery state after a practice result.
	// Returns ErrItemNotFound if the item does not exist.
	Update(ctx context.Context, item *domain.CorpusItem) error

	// Delete removes a corpus item. Explicit user action only; the
	// scheduler never deletes items.
	// Returns ErrItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CorpusStore bound to the given transaction.
	WithTx(tx *sql.Tx) CorpusStore
}
