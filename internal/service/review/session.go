package review

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vocadrill/vocadrill-api/internal/domain"
)

// State is the lifecycle state of a practice session.
type State string

// Session lifecycle: initializing → active → reviewing → active … → complete.
// A generation failure during initialization with nothing cached to fall back
// on moves the session to failed instead of active.
const (
	StateInitializing State = "initializing"
	StateActive       State = "active"
	StateReviewing    State = "reviewing"
	StateComplete     State = "complete"
	StateFailed       State = "failed"
)

// Session is one practice run over a fixed queue of corpus items. The queue
// is selected once at session start and never reordered; the cursor only
// moves forward. All mutation goes through the review service, which holds
// the session lock for the duration of each operation, so submissions are
// processed strictly in the order they arrive.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Topic     string
	Target    int
	StartedAt time.Time

	mu       sync.Mutex
	state    State
	queue    []*domain.CorpusItem
	cursor   int
	progress int

	// ctx scopes background work spawned for this session. Abandoning or
	// completing the session cancels it so in-flight prefetch callbacks
	// cannot outlive the session they were started for.
	ctx    context.Context
	cancel context.CancelFunc
}

// Snapshot is a point-in-time, immutable view of a session's progress.
type Snapshot struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Topic     string    `json:"topic"`
	Target    int       `json:"target"`
	State     State     `json:"state"`
	QueueSize int       `json:"queue_size"`
	Cursor    int       `json:"cursor"`
	Progress  int       `json:"progress"`
	StartedAt time.Time `json:"started_at"`
}

// Snapshot returns a consistent view of the session for API responses.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:        s.ID,
		UserID:    s.UserID,
		Topic:     s.Topic,
		Target:    s.Target,
		State:     s.state,
		QueueSize: len(s.queue),
		Cursor:    s.cursor,
		Progress:  s.progress,
		StartedAt: s.StartedAt,
	}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// completeLocked reports whether the session has reached its end condition:
// either the success target is met or the queue is exhausted.
// Callers must hold s.mu.
func (s *Session) completeLocked() bool {
	if s.Target > 0 && s.progress >= s.Target {
		return true
	}
	return s.cursor >= len(s.queue)
}
