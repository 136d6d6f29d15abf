package config_test

import (
	"log/slog"
	"testing"
	"time"

	"eventforms/config"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "sqlite")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoadSQLiteDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("PUBLIC_BASE_URL", "https://events.example.com/")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %s", cfg.TokenTTL)
	}
	if cfg.BuilderIdleTimeout != 30*time.Minute {
		t.Fatalf("expected 30m builder idle timeout, got %s", cfg.BuilderIdleTimeout)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSOrigins)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("expected debug level, got %s", cfg.LogLevel)
	}
	if got := cfg.ParticipantFormURL(7); got != "https://events.example.com/participant-form/7" {
		t.Fatalf("unexpected participant url %s", got)
	}
}

func TestLoadPostgresNeedsConnectionVars(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for missing postgres settings")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "mongo")
	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TOKEN_TTL", "forever")
	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for bad TOKEN_TTL")
	}
}
