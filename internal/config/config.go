package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// JWTConfig holds the shared secret and expected claims of admin tokens.
type JWTConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// Enabled reports whether admin endpoints should be mounted.
func (c JWTConfig) Enabled() bool {
	return len(c.Secret) > 0
}

// OpenAIConfig configures the report generator.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// EmailConfig configures Resend and the sender addresses.
type EmailConfig struct {
	APIKey        string
	BaseURL       string
	From          string
	BookingFrom   string
	TeamAddress   string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                         string
	MongoURI                     string
	MongoDatabase                string
	AuditCollection              string
	BookingCollection            string
	FailedNotificationCollection string
	Timeout                      time.Duration
	Timezone                     string
	ServerLog                    *log.Logger
	AllowedOrigins               []string
	StaticDir                    string
	AdminJWT                     JWTConfig
	OpenAI                       OpenAIConfig
	Email                        EmailConfig
}

// Load reads a .env file when present, then the environment, and returns a
// fully populated Config. Missing provider keys are allowed: the calls that
// need them fail at request time.
func Load() Config {
	logger := log.New(os.Stdout, "[resyne-api] ", log.LstdFlags|log.Lshortfile)

	if err := godotenv.Load(envOrDefault("ENV_FILE", ".env")); err != nil && !os.IsNotExist(err) {
		logger.Printf("failed to read env file: %v", err)
	}

	cfg := Config{
		Addr:                         envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:                     envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:                envOrDefault("MONGO_DB", "resyne"),
		AuditCollection:              envOrDefault("AUDIT_COLLECTION", "audits"),
		BookingCollection:            envOrDefault("BOOKING_COLLECTION", "bookings"),
		FailedNotificationCollection: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
		Timeout:                      durationOrDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		Timezone:                     envOrDefault("TIMEZONE", "Europe/Rome"),
		ServerLog:                    logger,
		AllowedOrigins:               parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		StaticDir:                    strings.TrimSpace(os.Getenv("STATIC_DIR")),
		AdminJWT: JWTConfig{
			Secret:   []byte(strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET"))),
			Issuer:   strings.TrimSpace(os.Getenv("ADMIN_JWT_ISSUER")),
			Audience: strings.TrimSpace(os.Getenv("ADMIN_JWT_AUDIENCE")),
		},
		OpenAI: OpenAIConfig{
			APIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			BaseURL:     strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
			Model:       envOrDefault("OPENAI_MODEL", "gpt-4o"),
			MaxTokens:   intOrDefault("OPENAI_MAX_TOKENS", 3000),
			Temperature: floatOrDefault("OPENAI_TEMPERATURE", 0.7),
			Timeout:     durationOrDefault("OPENAI_TIMEOUT", 90*time.Second),
		},
		Email: EmailConfig{
			APIKey:        strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
			BaseURL:       strings.TrimSpace(os.Getenv("RESEND_BASE_URL")),
			From:          envOrDefault("EMAIL_FROM", "Resyne <contact@re-syne.com>"),
			BookingFrom:   envOrDefault("EMAIL_BOOKING_FROM", "Resyne Bookings <contact@re-syne.com>"),
			TeamAddress:   envOrDefault("EMAIL_TEAM_ADDRESS", "contact@re-syne.com"),
			Timeout:       durationOrDefault("EMAIL_TIMEOUT", 10*time.Second),
			RetryAttempts: intOrDefault("NOTIFY_RETRY_ATTEMPTS", 3),
			RetryDelay:    durationOrDefault("NOTIFY_RETRY_DELAY", 500*time.Millisecond),
		},
	}

	if cfg.OpenAI.APIKey == "" {
		logger.Printf("OPENAI_API_KEY is not set; audit reports will fail until it is configured")
	}
	if cfg.Email.APIKey == "" {
		logger.Printf("RESEND_API_KEY is not set; booking emails will fail until it is configured")
	}
	logger.Printf("loaded config: addr=%q db=%q timezone=%q admin=%t static=%q",
		cfg.Addr, cfg.MongoDatabase, cfg.Timezone, cfg.AdminJWT.Enabled(), cfg.StaticDir)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			return parsed
		}
	}
	return fallback
}

func intOrDefault(key string, fallback int) int {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			return parsed
		}
	}
	return fallback
}

func floatOrDefault(key string, fallback float64) float64 {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
