package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vocadrill/vocadrill-api/internal/domain"
	"github.com/vocadrill/vocadrill-api/internal/store"
)

// MemoryCorpusStore is an in-memory store.CorpusStore used in tests.
type MemoryCorpusStore struct {
	// ListErr injects a load failure when set.
	ListErr error

	mu    sync.Mutex
	items map[uuid.UUID]domain.CorpusItem
}

// NewMemoryCorpusStore creates an in-memory corpus store seeded with the
// given items.
func NewMemoryCorpusStore(items ...*domain.CorpusItem) *MemoryCorpusStore {
	s := &MemoryCorpusStore{items: make(map[uuid.UUID]domain.CorpusItem)}
	for _, item := range items {
		s.items[item.ID] = *item
	}
	return s
}

// Create implements store.CorpusStore.
func (s *MemoryCorpusStore) Create(ctx context.Context, item *domain.CorpusItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; ok {
		return store.ErrDuplicate
	}
	s.items[item.ID] = *item
	return nil
}

// GetByID implements store.CorpusStore.
func (s *MemoryCorpusStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CorpusItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, store.ErrItemNotFound
	}
	return &item, nil
}

// ListByUser implements store.CorpusStore.
func (s *MemoryCorpusStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CorpusItem, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*domain.CorpusItem
	for id := range s.items {
		item := s.items[id]
		if item.UserID == userID {
			items = append(items, &item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].AddedAt.Before(items[j].AddedAt)
	})
	return items, nil
}

// Update implements store.CorpusStore.
func (s *MemoryCorpusStore) Update(ctx context.Context, item *domain.CorpusItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return store.ErrItemNotFound
	}
	s.items[item.ID] = *item
	return nil
}

// Delete implements store.CorpusStore.
func (s *MemoryCorpusStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return store.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}

// WithTx implements store.CorpusStore. The in-memory store has no
// transactions; it returns itself.
func (s *MemoryCorpusStore) WithTx(tx *sql.Tx) store.CorpusStore {
	return s
}
