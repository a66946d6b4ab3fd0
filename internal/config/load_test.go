package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the env vars without which Load must fail.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("VOCADRILL_DATABASE_URL", "postgres://localhost:5432/vocadrill_test")
	t.Setenv("VOCADRILL_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("VOCADRILL_LLM_GEMINI_API_KEY", "test-api-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, 30, cfg.LLM.RequestTimeoutSeconds)
	assert.Equal(t, 5, cfg.Review.SessionSize)
	assert.Equal(t, 3600, cfg.Review.CacheTTLSeconds)
	assert.Equal(t, 3, cfg.Review.PrefetchHorizon)
	assert.Equal(t, 2, cfg.Review.PrefetchBatchSize)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("VOCADRILL_SERVER_PORT", "9090")
	t.Setenv("VOCADRILL_SERVER_LOG_LEVEL", "debug")
	t.Setenv("VOCADRILL_REVIEW_PREFETCH_HORIZON", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 5, cfg.Review.PrefetchHorizon)
}

func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{
			name: "missing database url",
			setup: func(t *testing.T) {
				t.Setenv("VOCADRILL_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
				t.Setenv("VOCADRILL_LLM_GEMINI_API_KEY", "test-api-key")
			},
		},
		{
			name: "jwt secret too short",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("VOCADRILL_AUTH_JWT_SECRET", "short")
			},
		},
		{
			name: "invalid log level",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("VOCADRILL_SERVER_LOG_LEVEL", "verbose")
			},
		},
		{
			name: "non-positive cache ttl",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("VOCADRILL_REVIEW_CACHE_TTL_SECONDS", "0")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup(t)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
