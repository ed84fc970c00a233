package service

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vasthra/saree-works/internal/config"
)

func newTestJWTConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "saree-works", Version: "test"},
		JWT: config.JWTConfig{Secret: "test-secret-key", AccessTokenTTL: time.Hour},
	}
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService(newTestJWTConfig(), zap.NewNop())

	token, err := svc.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("expected username admin, got %s", claims.Username)
	}
	if claims.Issuer != "saree-works" {
		t.Errorf("expected issuer saree-works, got %s", claims.Issuer)
	}
}

func TestJWTService_ValidateToken_Invalid(t *testing.T) {
	svc := NewJWTService(newTestJWTConfig(), zap.NewNop())

	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	// token signed with a different secret
	otherCfg := newTestJWTConfig()
	otherCfg.JWT.Secret = "other-secret"
	other := NewJWTService(otherCfg, zap.NewNop())
	token, err := other.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	cfg := newTestJWTConfig()
	cfg.JWT.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg, zap.NewNop())

	token, err := svc.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_ValidateToken_IssuerMismatch(t *testing.T) {
	cfg := newTestJWTConfig()
	cfg.App.Name = "other-app"
	issuer := NewJWTService(cfg, zap.NewNop())
	token, err := issuer.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	svc := NewJWTService(newTestJWTConfig(), zap.NewNop())
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for issuer mismatch, got %v", err)
	}
}
