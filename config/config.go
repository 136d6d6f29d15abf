package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	HTTPAddr      string
	PublicBaseURL string
	CORSOrigins   []string
	LogLevel      slog.Level

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPass     string
	DBName     string
	DBPort     string
	SQLitePath string

	JWTSecret string
	TokenTTL  time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	BuilderIdleTimeout time.Duration
}

// LoadEnv loads variables from a .env file when one exists.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		slog.Warn("⚠️ .env file not found, using system environment variables")
	}
}

// Load builds a Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		PublicBaseURL: strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		CORSOrigins:   parseCommaSeparated(getenv("CORS_ORIGINS", "http://localhost:5173")),
		DBDriver:      strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        os.Getenv("DB_PORT"),
		SQLitePath:    getenv("SQLITE_PATH", "eventforms.db"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if cfg.TokenTTL, err = parseDuration("TOKEN_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout, err = parseDuration("HTTP_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = parseDuration("HTTP_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.BuilderIdleTimeout, err = parseDuration("BUILDER_IDLE_TIMEOUT", "30m"); err != nil {
		return nil, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBPass == "" || cfg.DBName == "" || cfg.DBPort == "" {
			return nil, fmt.Errorf("database env missing: DB_HOST, DB_USER, DB_PASS, DB_NAME and DB_PORT are required for postgres")
		}
	case "sqlite":
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: use postgres or sqlite", cfg.DBDriver)
	}

	return cfg, nil
}

// PostgresDSN returns the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}

// ParticipantFormURL is the public page where participants register for an event.
func (c *Config) ParticipantFormURL(eventID uint) string {
	return fmt.Sprintf("%s/participant-form/%d", c.PublicBaseURL, eventID)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getenv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
