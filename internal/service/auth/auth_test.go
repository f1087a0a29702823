package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/distordia/nexgo/pkg/logger"
)

func newTestTokenService(ttl time.Duration) *TokenService {
	return NewTokenService("operator-secret", "signing-secret", "driver-genesis", ttl, logger.InitLogger("test", logger.LevelError))
}

func TestLogin_WrongSecret(t *testing.T) {
	svc := newTestTokenService(15 * time.Minute)

	if _, err := svc.Login(context.Background(), "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty secret must be rejected, got %v", err)
	}
}

func TestLogin_ValidateRoundTrip(t *testing.T) {
	svc := newTestTokenService(15 * time.Minute)

	token, err := svc.Login(context.Background(), "operator-secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token.AccessToken == "" {
		t.Fatal("empty access token")
	}
	if remaining := time.Until(token.ExpiresAt); remaining < 14*time.Minute {
		t.Fatalf("ttl not applied, expires in %v", remaining)
	}

	claims, err := svc.Validate(token.AccessToken)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Genesis != "driver-genesis" {
		t.Fatalf("wrong genesis claim: %q", claims.Genesis)
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	svc := newTestTokenService(15 * time.Minute)

	token, err := svc.Login(context.Background(), "operator-secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	parts := strings.Split(token.AccessToken, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	if _, err := svc.Validate(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_ForeignSigningKey(t *testing.T) {
	svc := newTestTokenService(15 * time.Minute)
	other := NewTokenService("operator-secret", "other-signing-secret", "driver-genesis", 15*time.Minute, logger.InitLogger("test", logger.LevelError))

	token, err := other.Login(context.Background(), "operator-secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := svc.Validate(token.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	svc := newTestTokenService(-time.Minute)

	token, err := svc.Login(context.Background(), "operator-secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := svc.Validate(token.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
