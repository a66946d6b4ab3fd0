// Package srs implements the spaced-repetition scheduler: selecting which
// corpus items are due for a practice session and updating mastery state
// after each attempt.
package srs

import (
	"errors"
	"math/rand"
	"time"

	"github.com/vocadrill/vocadrill-api/internal/domain"
)

// Common errors
var (
	ErrEmptyCorpus = errors.New("corpus has no items to schedule")
	ErrNilItem     = errors.New("corpus item cannot be nil")
)

// Service defines the interface for review scheduling operations.
type Service interface {
	// SelectItems picks up to count items for a practice session.
	// Due items always rank before not-due items; within each partition
	// the least-mastered items are favored, with randomized tie-breaking.
	// Returns ErrEmptyCorpus if the corpus is empty.
	SelectItems(corpus []*domain.CorpusItem, count int, now time.Time) ([]*domain.CorpusItem, error)

	// ApplyResult computes the item's new mastery state after a practice
	// attempt. The returned item is a new copy; the input is unchanged.
	ApplyResult(item *domain.CorpusItem, success bool, now time.Time) (*domain.CorpusItem, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
	rng    *rand.Rand
}

// NewDefaultService creates a scheduler with default parameters and a
// time-seeded random source.
func NewDefaultService() Service {
	return NewService(NewDefaultParams(), rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewService creates a scheduler with custom parameters and random source.
// The injectable source keeps selection deterministic under test.
func NewService(params *Params, rng *rand.Rand) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &defaultService{
		params: params,
		rng:    rng,
	}
}

// SelectItems implements the Service interface for session selection.
func (s *defaultService) SelectItems(
	corpus []*domain.CorpusItem,
	count int,
	now time.Time,
) ([]*domain.CorpusItem, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	return selectItems(corpus, count, now, s.rng, s.params), nil
}

// ApplyResult implements the Service interface for mastery updates.
func (s *defaultService) ApplyResult(
	item *domain.CorpusItem,
	success bool,
	now time.Time,
) (*domain.CorpusItem, error) {
	if item == nil {
		return nil, ErrNilItem
	}

	return applyResult(item, success, now, s.params), nil
}
