package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups and is immutable for the
// process lifetime once loaded.
type Config struct {
	Server   ServerConfig        `mapstructure:"server" validate:"required"`
	Database DatabaseConfig      `mapstructure:"database" validate:"required"`
	Queue    QueueConfig         `mapstructure:"queue" validate:"required"`
	Readwise ReadwiseConfig      `mapstructure:"readwise" validate:"required"`
	LLM      LLMConfig           `mapstructure:"llm" validate:"required"`
	Prompts  []PromptGroupConfig `mapstructure:"prompts" validate:"required,min=1,dive"`
	Admin    AdminConfig         `mapstructure:"admin"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// WebhookSecret is the opaque path segment of the ingress endpoint.
	// Requests to any other path get an empty 404.
	WebhookSecret string `mapstructure:"webhook_secret" validate:"required,min=16"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// QueueConfig controls the processing cadence and retry policy.
type QueueConfig struct {
	// MaxRetries is how many times a failed item is returned to the
	// queue before being dead-lettered.
	MaxRetries int `mapstructure:"max_retries" validate:"required,gte=1"`

	// ProcessIntervalSeconds is the scheduler cadence. The 60 second
	// floor keeps a misconfigured instance from hammering LLM providers.
	ProcessIntervalSeconds int `mapstructure:"process_interval_seconds" validate:"required,gte=60"`

	// PurgeAfterDays is the age at which stale pending items are swept.
	PurgeAfterDays int `mapstructure:"purge_after_days" validate:"required,gte=1"`
}

// ProcessInterval returns the scheduler cadence as a duration.
func (q QueueConfig) ProcessInterval() time.Duration {
	return time.Duration(q.ProcessIntervalSeconds) * time.Second
}

// PurgeAge returns the stale-item sweep threshold as a duration.
func (q QueueConfig) PurgeAge() time.Duration {
	return time.Duration(q.PurgeAfterDays) * 24 * time.Hour
}

// ReadwiseConfig contains the downstream read-later service settings.
type ReadwiseConfig struct {
	Token   string `mapstructure:"token" validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Endpoints []LLMEndpointConfig `mapstructure:"endpoints" validate:"required,min=1,dive"`
}

// LLMEndpointConfig describes one classification endpoint. The client
// rotates across all enabled endpoints to spread load between providers.
type LLMEndpointConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Provider string `mapstructure:"provider" validate:"required,oneof=openai openrouter gemini custom"`
	APIKey   string `mapstructure:"api_key" validate:"required"`
	// BaseURL is required for OpenAI-compatible providers; the gemini
	// provider uses the SDK's own endpoint.
	BaseURL        string  `mapstructure:"base_url" validate:"required_unless=Provider gemini,omitempty,url"`
	Model          string  `mapstructure:"model" validate:"required"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gte=1"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	Temperature    float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens      int     `mapstructure:"max_tokens" validate:"required,gte=1"`
	Enabled        bool    `mapstructure:"enabled"`
}

// Timeout returns the per-call timeout as a duration.
func (e LLMEndpointConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// PromptGroupConfig binds source URL patterns to one prompt template.
type PromptGroupConfig struct {
	Sites          []string `mapstructure:"sites" validate:"required,min=1"`
	RefetchContent bool     `mapstructure:"refetch_content"`
	Prompt         string   `mapstructure:"prompt" validate:"required"`
}

// AdminConfig protects the records query API. When Username is empty
// the records API is not registered at all.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	// PasswordHash is a bcrypt hash of the admin password.
	PasswordHash string `mapstructure:"password_hash" validate:"required_with=Username"`
}
