package auth_test

import (
	"errors"
	"testing"
	"time"

	"eventforms/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)

	signed, err := tokens.Generate(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	userID, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestTokenRejectsOtherSecret(t *testing.T) {
	signed, err := auth.NewTokens("secret", time.Hour).Generate(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := auth.NewTokens("other", time.Hour).Parse(signed); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpires(t *testing.T) {
	tokens := auth.NewTokens("secret", -time.Minute)

	signed, err := tokens.Generate(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tokens.Parse(signed); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !auth.CheckPassword(hash, "hunter2") {
		t.Fatalf("expected password to match")
	}
	if auth.CheckPassword(hash, "hunter3") {
		t.Fatalf("expected wrong password to fail")
	}
}
