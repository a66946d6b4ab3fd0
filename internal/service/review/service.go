// Package review implements the practice-session state machine: queue
// selection, content lookup with synchronous generation fallback, mastery
// updates on submitted results, and completion detection.
package review

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vocadrill/vocadrill-api/internal/domain"
)

// Common error types for the review service.
var (
	// ErrEmptyCorpus indicates the user has no corpus items to schedule.
	// Fatal to session start.
	ErrEmptyCorpus = errors.New("corpus is empty, nothing to practice")

	// ErrSessionNotFound indicates no session exists for the given ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotOwned indicates the session belongs to another user.
	ErrSessionNotOwned = errors.New("unauthorized access: session not owned by user")

	// ErrSessionComplete indicates the session already reached its end
	// condition; further submissions are rejected until a new session starts.
	ErrSessionComplete = errors.New("session is complete")

	// ErrSessionFailed indicates the session failed during initialization
	// and cannot serve content.
	ErrSessionFailed = errors.New("session is in a failed state")

	// ErrSessionTargetInvalid indicates a negative success target.
	ErrSessionTargetInvalid = errors.New("session target cannot be negative")
)

// CurrentItem pairs the item at the session cursor with its practice content.
type CurrentItem struct {
	Item     *domain.CorpusItem `json:"item"`
	Scenario *domain.Scenario   `json:"scenario"`
}

// SubmitOutcome reports the effect of one submitted result.
type SubmitOutcome struct {
	// Item is the corpus item after the mastery update.
	Item *domain.CorpusItem `json:"item"`

	// Session is the session snapshot after the cursor and progress moved.
	Session Snapshot `json:"session"`
}

// Service drives practice sessions over a user's corpus.
type Service interface {
	// StartSession selects a queue of items for the user via the scheduling
	// policy and prepares content for the start of the queue. When every
	// queued item already has valid cached content for the topic, no
	// generation is performed. Otherwise the first items are generated
	// synchronously and the rest are handed to the prefetch pipeline.
	//
	// A target of 0 means the session runs until the queue is exhausted;
	// target > 0 completes the session after that many successes.
	//
	// Returns ErrEmptyCorpus when the user has no items, and a wrapped
	// generation error when not even the first item's content could be
	// produced.
	StartSession(ctx context.Context, userID uuid.UUID, topic string, target int) (*Session, error)

	// GetSession returns the session with the given ID.
	// Returns ErrSessionNotFound when it does not exist and
	// ErrSessionNotOwned when it belongs to a different user.
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*Session, error)

	// CurrentContent returns the item at the session cursor together with
	// its practice scenario: a cache hit when possible, otherwise a
	// synchronous generation call under the retry policy. Serving content
	// also tops up the prefetch buffer for upcoming items.
	//
	// Returns ErrSessionComplete for finished sessions. A generation
	// failure is returned as-is; the session stays active and recorded
	// progress is kept.
	CurrentContent(ctx context.Context, userID, sessionID uuid.UUID) (*CurrentItem, error)

	// SubmitResult records the outcome for the item at the cursor and
	// persists the mastery update.
	//
	// On success the cursor advances, session progress increments, and the
	// item's cache entry is invalidated so future sessions regenerate
	// fresh content. On failure the cursor stays put, the item becomes due
	// immediately, and its cache entry is invalidated so the retry is not
	// a verbatim repeat of the same scenario.
	//
	// Returns ErrSessionComplete once the session has finished; the
	// submission that triggers completion still succeeds.
	SubmitResult(ctx context.Context, userID, sessionID uuid.UUID, success bool) (*SubmitOutcome, error)

	// Abandon discards the session. In-flight background work scoped to
	// the session is cancelled; persisted cache entries for individual
	// items remain until their own expiry.
	Abandon(ctx context.Context, userID, sessionID uuid.UUID) error
}
