package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/vocadrill/vocadrill-api/internal/api/shared"
	"github.com/vocadrill/vocadrill-api/internal/domain"
	"github.com/vocadrill/vocadrill-api/internal/store"
)

// CorpusHandler handles vocabulary corpus management API requests.
type CorpusHandler struct {
	corpusStore store.CorpusStore
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewCorpusHandler creates a new CorpusHandler with the given dependencies.
func NewCorpusHandler(corpusStore store.CorpusStore, logger *slog.Logger) *CorpusHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CorpusHandler{
		corpusStore: corpusStore,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "corpus_handler")),
	}
}

// List handles GET /corpus, returning all items owned by the
// authenticated user in the order they were added.
func (h *CorpusHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	items, err := h.corpusStore.ListByUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list corpus items")
		return
	}

	resp := ItemListResponse{Items: make([]ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, newItemResponse(item))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Create handles POST /corpus, adding a new vocabulary item for the
// authenticated user. New items start at mastery level 0 and are due for
// review immediately.
func (h *CorpusHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	item, err := domain.NewCorpusItem(userID, req.English, req.Chinese)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item data: "+err.Error())
		return
	}

	if err := h.corpusStore.Create(r.Context(), item); err != nil {
		HandleAPIError(w, r, err, "Failed to create corpus item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newItemResponse(item))
}

// Get handles GET /corpus/{id}.
func (h *CorpusHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	item, ok := h.getOwnedItem(w, r, userID, itemID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newItemResponse(item))
}

// Delete handles DELETE /corpus/{id}, removing an item the authenticated
// user owns.
func (h *CorpusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if _, ok := h.getOwnedItem(w, r, userID, itemID); !ok {
		return
	}

	if err := h.corpusStore.Delete(r.Context(), itemID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete corpus item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getOwnedItem fetches an item and checks ownership, writing the error
// response on failure. Items owned by other users are reported as not
// found so the endpoint does not reveal which IDs exist.
func (h *CorpusHandler) getOwnedItem(
	w http.ResponseWriter,
	r *http.Request,
	userID, itemID uuid.UUID,
) (*domain.CorpusItem, bool) {
	item, err := h.corpusStore.GetByID(r.Context(), itemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch corpus item")
		return nil, false
	}
	if item.UserID != userID {
		shared.RespondWithError(w, r, http.StatusNotFound, "Corpus item not found")
		return nil, false
	}
	return item, true
}
