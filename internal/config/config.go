package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Review   ReviewConfig   `mapstructure:"review" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all settings for the content generation service.
type LLMConfig struct {
	GeminiAPIKey          string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName             string `mapstructure:"model_name" validate:"required"`
	MaxRetries            int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds     int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gt=0"`
}

// ReviewConfig tunes the review session pipeline.
type ReviewConfig struct {
	// SessionSize is the default number of items per session.
	SessionSize int `mapstructure:"session_size" validate:"gt=0"`

	// WarmupCount is how many items are generated synchronously at
	// session start before the prefetcher takes over.
	WarmupCount int `mapstructure:"warmup_count" validate:"gt=0"`

	// CacheTTLSeconds is the lifetime of a generated-content cache entry.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"gt=0"`

	// PrefetchHorizon is how many upcoming items the prefetcher keeps warm.
	PrefetchHorizon int `mapstructure:"prefetch_horizon" validate:"gt=0"`

	// PrefetchBatchSize is the maximum items generated per prefetch batch.
	PrefetchBatchSize int `mapstructure:"prefetch_batch_size" validate:"gt=0"`
}
