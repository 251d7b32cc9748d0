package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server      ServerConfig
	Storage     StorageConfig
	Auth        AuthConfig
	Notify      NotifyConfig
	Reminder    ReminderConfig
	RateLimit   RateLimitConfig
	Logging     LoggingConfig
	Environment string
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	// Backend selects the store implementation: "dynamodb" or "memory".
	// The memory backend is for local development and tests only.
	Backend     string
	UsersTable  string
	EventsTable string
	Region      string
	// Endpoint overrides the AWS endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
	Issuer    string
}

type NotifyConfig struct {
	// Backend selects the delivery adapter: "sns" or "email".
	Backend   string
	TopicARN  string
	ResendKey string
	EmailFrom string
}

type ReminderConfig struct {
	// Enabled starts the in-process daily schedule alongside the HTTP server.
	Enabled bool
	// HourUTC is the hour of day (UTC) the sweep fires.
	HourUTC int
	// MaxConcurrency bounds the per-owner notification fan-out.
	MaxConcurrency int
}

type RateLimitConfig struct {
	PublicPerMinute   int
	LoginPer15Minutes int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Storage: StorageConfig{
			Backend:     getEnv("STORAGE_BACKEND", "dynamodb"),
			UsersTable:  getEnv("USERS_TABLE", ""),
			EventsTable: getEnv("EVENTS_TABLE", ""),
			Region:      getEnv("AWS_REGION", "us-east-1"),
			Endpoint:    getEnv("AWS_ENDPOINT_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 1)) * time.Hour,
			Issuer:    getEnv("JWT_ISSUER", "planora"),
		},
		Notify: NotifyConfig{
			Backend:   getEnv("NOTIFY_BACKEND", "sns"),
			TopicARN:  getEnv("SNS_TOPIC_ARN", ""),
			ResendKey: getEnv("RESEND_API_KEY", ""),
			EmailFrom: getEnv("NOTIFY_EMAIL_FROM", "reminders@planora.local"),
		},
		Reminder: ReminderConfig{
			Enabled:        getEnvBool("REMINDER_ENABLED", true),
			HourUTC:        getEnvInt("REMINDER_HOUR_UTC", 8),
			MaxConcurrency: getEnvInt("REMINDER_MAX_CONCURRENCY", 4),
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute:   getEnvInt("RATE_LIMIT_PUBLIC", 120),
			LoginPer15Minutes: getEnvInt("RATE_LIMIT_LOGIN", 10),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Storage.Backend == "dynamodb" {
		if cfg.Storage.UsersTable == "" {
			return Config{}, fmt.Errorf("USERS_TABLE is required")
		}
		if cfg.Storage.EventsTable == "" {
			return Config{}, fmt.Errorf("EVENTS_TABLE is required")
		}
	}
	if cfg.Reminder.HourUTC < 0 || cfg.Reminder.HourUTC > 23 {
		return Config{}, fmt.Errorf("REMINDER_HOUR_UTC must be between 0 and 23")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
