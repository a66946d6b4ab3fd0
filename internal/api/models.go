package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/vocadrill/vocadrill-api/internal/domain"
	"github.com/vocadrill/vocadrill-api/internal/service/review"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateItemRequest defines the payload for adding a vocabulary item.
type CreateItemRequest struct {
	English string `json:"english" validate:"required,max=200"`
	Chinese string `json:"chinese" validate:"required,max=200"`
}

// ItemResponse is the API representation of a corpus item.
type ItemResponse struct {
	ID            uuid.UUID `json:"id"`
	English       string    `json:"english"`
	Chinese       string    `json:"chinese"`
	MasteryLevel  int       `json:"mastery_level"`
	NextReviewAt  time.Time `json:"next_review_at"`
	PracticeCount int       `json:"practice_count"`
	AddedAt       time.Time `json:"added_at"`
}

// newItemResponse converts a domain corpus item for API responses. The
// owning user ID is implied by the authenticated request and omitted.
func newItemResponse(item *domain.CorpusItem) ItemResponse {
	return ItemResponse{
		ID:            item.ID,
		English:       item.English,
		Chinese:       item.Chinese,
		MasteryLevel:  item.MasteryLevel,
		NextReviewAt:  item.NextReviewAt,
		PracticeCount: item.PracticeCount,
		AddedAt:       item.AddedAt,
	}
}

// ItemListResponse defines the response for the corpus listing endpoint.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

// StartSessionRequest defines the payload for starting a practice session.
// Target is the number of successful reviews that completes the session;
// zero means the session runs until the queue is exhausted.
type StartSessionRequest struct {
	Topic  string `json:"topic"  validate:"max=200"`
	Target int    `json:"target" validate:"gte=0"`
}

// ScenarioResponse defines the response for the current-content endpoint:
// the item under review together with its generated practice scenario.
type ScenarioResponse struct {
	Item       ItemResponse `json:"item"`
	Script     string       `json:"script"`
	Reference  string       `json:"reference"`
	Highlights []string     `json:"highlights"`
}

// SubmitResultRequest defines the payload for submitting a review outcome.
// Success is a pointer so that an absent field fails validation instead of
// defaulting to a failed review.
type SubmitResultRequest struct {
	Success *bool `json:"success" validate:"required"`
}

// SubmitResultResponse defines the response for the submit endpoint.
type SubmitResultResponse struct {
	Item    ItemResponse    `json:"item"`
	Session review.Snapshot `json:"session"`
}
