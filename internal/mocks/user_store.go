package mocks

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vocadrill/vocadrill-api/internal/domain"
	"github.com/vocadrill/vocadrill-api/internal/store"
)

// MemoryUserStore is an in-memory store.UserStore used in tests.
type MemoryUserStore struct {
	// CreateErr injects a creation failure when set.
	CreateErr error

	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

// NewMemoryUserStore creates an in-memory user store seeded with the
// given users.
func NewMemoryUserStore(users ...*domain.User) *MemoryUserStore {
	s := &MemoryUserStore{users: make(map[uuid.UUID]domain.User)}
	for _, user := range users {
		s.users[user.ID] = *user
	}
	return s
}

// Create implements store.UserStore.
func (s *MemoryUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return store.ErrEmailExists
		}
	}
	s.users[user.ID] = *user
	return nil
}

// GetByID implements store.UserStore.
func (s *MemoryUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// GetByEmail implements store.UserStore.
func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.users {
		user := s.users[id]
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// WithTx implements store.UserStore. The in-memory store has no
// transactions; it returns itself.
func (s *MemoryUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return s
}
