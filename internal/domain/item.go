package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Mastery level bounds. Level 0 is a freshly added item, level 5 is fully
// mastered and reviewed on the longest interval.
const (
	MinMasteryLevel = 0
	MaxMasteryLevel = 5
)

// Common validation errors for CorpusItem
var (
	ErrItemIDEmpty        = errors.New("corpus item ID cannot be empty")
	ErrItemUserIDEmpty    = errors.New("corpus item user ID cannot be empty")
	ErrItemEnglishEmpty   = errors.New("corpus item english phrase cannot be empty")
	ErrItemChineseEmpty   = errors.New("corpus item chinese translation cannot be empty")
	ErrInvalidMasteryLevel = errors.New("mastery level must be between 0 and 5")
)

// CorpusItem is a single vocabulary entry: an English phrase, its Chinese
// translation, and the spaced-repetition state tracking how well the user
// knows it. Mastery state is mutated only through srs.Service.ApplyResult.
type CorpusItem struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	English       string    `json:"english"`
	Chinese       string    `json:"chinese"`
	MasteryLevel  int       `json:"mastery_level"`
	NextReviewAt  time.Time `json:"next_review_at"`
	PracticeCount int       `json:"practice_count"`
	AddedAt       time.Time `json:"added_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewCorpusItem creates a corpus item for the given user and phrase pair.
// New items start at mastery level 0 and are due for review immediately.
func NewCorpusItem(userID uuid.UUID, english, chinese string) (*CorpusItem, error) {
	now := time.Now().UTC()
	item := &CorpusItem{
		ID:            uuid.New(),
		UserID:        userID,
		English:       english,
		Chinese:       chinese,
		MasteryLevel:  MinMasteryLevel,
		NextReviewAt:  now,
		PracticeCount: 0,
		AddedAt:       now,
		UpdatedAt:     now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the CorpusItem has valid data.
// Returns an error if any field fails validation.
func (i *CorpusItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if i.UserID == uuid.Nil {
		return ErrItemUserIDEmpty
	}

	if i.English == "" {
		return ErrItemEnglishEmpty
	}

	if i.Chinese == "" {
		return ErrItemChineseEmpty
	}

	if i.MasteryLevel < MinMasteryLevel || i.MasteryLevel > MaxMasteryLevel {
		return ErrInvalidMasteryLevel
	}

	return nil
}

// Due reports whether the item is due for review at the given time.
func (i *CorpusItem) Due(now time.Time) bool {
	return !i.NextReviewAt.After(now)
}
