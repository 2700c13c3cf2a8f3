package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Database. SQLitePath is the default local store; DatabaseURL, when
	// set, switches the event store to PostgreSQL.
	SQLitePath  string
	DatabaseURL string

	// Redis. Empty disables the classification cache.
	RedisURL string

	// RabbitMQ. Empty keeps events on the in-process bus.
	RabbitMQURL string

	// Remote classifier
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAITimeout time.Duration

	// Scheduling preference defaults, overridable per invocation.
	BusinessHoursStart   string
	BusinessHoursEnd     string
	BufferMinutes        int
	MaxSuggestionsPerDay int
	BusinessDurationMin  int
	HobbyDurationMin     int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SQLitePath:  getEnv("FLOWGENIUS_DB_PATH", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("FLOWGENIUS_OPENAI_MODEL", ""),
		OpenAITimeout: getDurationEnv("FLOWGENIUS_OPENAI_TIMEOUT", 8*time.Second),

		BusinessHoursStart:   getEnv("FLOWGENIUS_BUSINESS_START", "09:00"),
		BusinessHoursEnd:     getEnv("FLOWGENIUS_BUSINESS_END", "17:00"),
		BufferMinutes:        getIntEnv("FLOWGENIUS_BUFFER_MINUTES", 15),
		MaxSuggestionsPerDay: getIntEnv("FLOWGENIUS_MAX_PER_DAY", 3),
		BusinessDurationMin:  getIntEnv("FLOWGENIUS_BUSINESS_DURATION", 60),
		HobbyDurationMin:     getIntEnv("FLOWGENIUS_HOBBY_DURATION", 90),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// RemoteClassifierEnabled reports whether an OpenAI-backed classifier
// can be constructed from this configuration.
func (c *Config) RemoteClassifierEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
