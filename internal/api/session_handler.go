package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/vocadrill/vocadrill-api/internal/api/shared"
	"github.com/vocadrill/vocadrill-api/internal/service/review"
)

// SessionHandler handles practice session API requests.
type SessionHandler struct {
	reviewService review.Service
	validator     *validator.Validate
	logger        *slog.Logger
}

// NewSessionHandler creates a new SessionHandler with the given dependencies.
func NewSessionHandler(reviewService review.Service, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		reviewService: reviewService,
		validator:     validator.New(),
		logger:        logger.With(slog.String("component", "session_handler")),
	}
}

// Start handles POST /sessions, creating a practice session for the
// authenticated user. The response includes the session ID used by all
// other session endpoints.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	session, err := h.reviewService.StartSession(r.Context(), userID, req.Topic, req.Target)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start practice session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, session.Snapshot())
}

// Get handles GET /sessions/{id}, returning the session's current progress.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	session, err := h.reviewService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session.Snapshot())
}

// CurrentContent handles GET /sessions/{id}/current, returning the item
// under review together with its practice scenario. Serving this endpoint
// may trigger synchronous generation on a cache miss.
func (h *SessionHandler) CurrentContent(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	current, err := h.reviewService.CurrentContent(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch practice content")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ScenarioResponse{
		Item:       newItemResponse(current.Item),
		Script:     current.Scenario.Script,
		Reference:  current.Scenario.Reference,
		Highlights: current.Scenario.Highlights,
	})
}

// SubmitResult handles POST /sessions/{id}/results, recording the outcome
// of reviewing the current item and advancing the session.
func (h *SessionHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req SubmitResultRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	outcome, err := h.reviewService.SubmitResult(r.Context(), userID, sessionID, *req.Success)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review result")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SubmitResultResponse{
		Item:    newItemResponse(outcome.Item),
		Session: outcome.Session,
	})
}

// Abandon handles DELETE /sessions/{id}, discarding the session without
// touching mastery state.
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.reviewService.Abandon(r.Context(), userID, sessionID); err != nil {
		HandleAPIError(w, r, err, "Failed to abandon session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
