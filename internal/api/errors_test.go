package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vocadrill/vocadrill-api/internal/api"
	"github.com/vocadrill/vocadrill-api/internal/generation"
	"github.com/vocadrill/vocadrill-api/internal/service/auth"
	"github.com/vocadrill/vocadrill-api/internal/service/review"
	"github.com/vocadrill/vocadrill-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{err: auth.ErrExpiredRefreshToken, want: http.StatusUnauthorized},
		{err: review.ErrSessionNotOwned, want: http.StatusForbidden},
		{err: review.ErrSessionNotFound, want: http.StatusNotFound},
		{err: store.ErrItemNotFound, want: http.StatusNotFound},
		{err: store.ErrUserNotFound, want: http.StatusNotFound},
		{err: store.ErrEmailExists, want: http.StatusConflict},
		{err: review.ErrSessionComplete, want: http.StatusConflict},
		{err: review.ErrSessionFailed, want: http.StatusConflict},
		{err: review.ErrSessionTargetInvalid, want: http.StatusBadRequest},
		{err: store.ErrInvalidEntity, want: http.StatusBadRequest},
		{err: review.ErrEmptyCorpus, want: http.StatusUnprocessableEntity},
		{err: generation.ErrTransientFailure, want: http.StatusServiceUnavailable},
		{err: generation.ErrContentBlocked, want: http.StatusBadGateway},
		{err: generation.ErrGenerationFailed, want: http.StatusBadGateway},
		{err: errors.New("anything else"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.err.Error(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, api.MapErrorToStatusCode(tc.err))
			// Wrapped errors map the same way.
			assert.Equal(t, tc.want, api.MapErrorToStatusCode(fmt.Errorf("context: %w", tc.err)))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "An unexpected error occurred", api.GetSafeErrorMessage(nil))

	// Internal details never leak into safe messages.
	err := fmt.Errorf("pq: duplicate key on users_email_key: %w", store.ErrEmailExists)
	msg := api.GetSafeErrorMessage(err)
	assert.Equal(t, "Email already exists", msg)
	assert.NotContains(t, msg, "users_email_key")

	msg = api.GetSafeErrorMessage(errors.New("dial tcp 10.0.0.3:5432: connection refused"))
	assert.Equal(t, "An unexpected error occurred", msg)
}
