package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocadrill/vocadrill-api/internal/api/middleware"
	"github.com/vocadrill/vocadrill-api/internal/api/shared"
	"github.com/vocadrill/vocadrill-api/internal/service/auth"
)

// stubJWTService returns canned results for token validation.
type stubJWTService struct {
	userID uuid.UUID
	err    error
}

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "access-token", nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Claims{UserID: s.userID}, nil
}

func (s *stubJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "refresh-token", nil
}

func (s *stubJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return s.ValidateToken(ctx, tokenString)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name        string
		authHeader  string
		validateErr error
		wantStatus  int
		wantNext    bool
	}{
		{
			name:       "valid bearer token",
			authHeader: "Bearer good-token",
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "good-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic good-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "expired token",
			authHeader:  "Bearer stale-token",
			validateErr: auth.ErrExpiredToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "invalid token",
			authHeader:  "Bearer bad-token",
			validateErr: auth.ErrInvalidToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "refresh token used as access token",
			authHeader:  "Bearer refresh-token",
			validateErr: auth.ErrWrongTokenType,
			wantStatus:  http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := middleware.NewAuthMiddleware(&stubJWTService{userID: userID, err: tc.validateErr})

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				got, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
				require.True(t, ok, "user ID should be in context")
				assert.Equal(t, userID, got)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			m.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantNext, nextCalled)
		})
	}
}

func TestGetUserID(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := middleware.GetUserID(req)
	assert.False(t, ok, "no user ID without authentication")

	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	got, ok := middleware.GetUserID(req.WithContext(ctx))
	require.True(t, ok)
	assert.Equal(t, userID, got)
}
