// Package config loads application configuration from environment variables.
// All variables use the WS_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Cache          CacheConfig
	AI             AIConfig
	Generation     GenerationConfig
	Log            LogConfig
	CurriculumPath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int
	Host        string
	CORSOrigins []string
}

// DatabaseConfig holds PostgreSQL connection settings.
// An empty URL selects the in-memory worksheet store.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
	Migrate  bool
}

// CacheConfig holds Redis connection settings for the generation cache.
// An empty URL keeps the cache in process.
type CacheConfig struct {
	URL      string
	TTLHours int
}

// AIConfig holds configuration for the AI providers and the authoring retry loop.
type AIConfig struct {
	Anthropic    AnthropicConfig
	Google       GoogleConfig
	Attempts     int
	RetryDelayMS int
}

// AnthropicConfig holds Anthropic provider settings.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// GoogleConfig holds Google Gemini provider settings.
type GoogleConfig struct {
	APIKey     string
	Model      string
	ImageModel string
}

// GenerationConfig controls the deterministic math generator.
type GenerationConfig struct {
	Seed               int64 // 0 means seed from the clock
	MaxRetries         int
	UniquenessAttempts int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with WS_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        envInt("WS_SERVER_PORT", 8080),
			Host:        envStr("WS_SERVER_HOST", "0.0.0.0"),
			CORSOrigins: envList("WS_SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			URL:      envStr("WS_DATABASE_URL", ""),
			MaxConns: envInt("WS_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("WS_DATABASE_MIN_CONNS", 2),
			Migrate:  envBool("WS_DATABASE_MIGRATE", true),
		},
		Cache: CacheConfig{
			URL:      envStr("WS_CACHE_URL", ""),
			TTLHours: envInt("WS_CACHE_TTL_HOURS", 24),
		},
		AI: AIConfig{
			Anthropic: AnthropicConfig{
				APIKey: envStr("WS_AI_ANTHROPIC_API_KEY", ""),
				Model:  envStr("WS_AI_ANTHROPIC_MODEL", "claude-sonnet-4-6"),
			},
			Google: GoogleConfig{
				APIKey:     envStr("WS_AI_GOOGLE_API_KEY", ""),
				Model:      envStr("WS_AI_GOOGLE_MODEL", "gemini-2.5-flash"),
				ImageModel: envStr("WS_AI_GOOGLE_IMAGE_MODEL", "gemini-2.5-flash-image"),
			},
			Attempts:     envInt("WS_AI_ATTEMPTS", 3),
			RetryDelayMS: envInt("WS_AI_RETRY_DELAY_MS", 2000),
		},
		Generation: GenerationConfig{
			Seed:               int64(envInt("WS_GENERATION_SEED", 0)),
			MaxRetries:         envInt("WS_GENERATION_MAX_RETRIES", 10),
			UniquenessAttempts: envInt("WS_GENERATION_UNIQUENESS_ATTEMPTS", 5),
		},
		Log: LogConfig{
			Level:  envStr("WS_LOG_LEVEL", "info"),
			Format: envStr("WS_LOG_FORMAT", "json"),
		},
		CurriculumPath: envStr("WS_CURRICULUM_PATH", "./standards"),
	}

	return cfg, nil
}

// Validate checks that configuration values are in range.
// Missing AI credentials are not an error: math worksheets never call a provider.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("WS_SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("WS_DATABASE_MIN_CONNS (%d) exceeds WS_DATABASE_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if c.AI.Attempts < 1 {
		return fmt.Errorf("WS_AI_ATTEMPTS must be at least 1, got %d", c.AI.Attempts)
	}

	if c.AI.RetryDelayMS < 0 {
		return fmt.Errorf("WS_AI_RETRY_DELAY_MS must not be negative, got %d", c.AI.RetryDelayMS)
	}

	if c.Generation.MaxRetries < 1 {
		return fmt.Errorf("WS_GENERATION_MAX_RETRIES must be at least 1, got %d", c.Generation.MaxRetries)
	}

	if c.Generation.UniquenessAttempts < 1 {
		return fmt.Errorf("WS_GENERATION_UNIQUENESS_ATTEMPTS must be at least 1, got %d", c.Generation.UniquenessAttempts)
	}

	if c.Cache.TTLHours < 1 {
		return fmt.Errorf("WS_CACHE_TTL_HOURS must be at least 1, got %d", c.Cache.TTLHours)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("WS_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	return nil
}

// HasAIProvider returns true if at least one AI provider is configured.
func (c *Config) HasAIProvider() bool {
	return c.AI.Anthropic.APIKey != "" || c.AI.Google.APIKey != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
