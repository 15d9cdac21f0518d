package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/playtesters/community-backend/internal/config"
	"github.com/playtesters/community-backend/internal/models"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTAccessExpiry: time.Hour,
	}
	svc := &AuthService{cfg: cfg}

	user := &models.User{
		ID:    uuid.New(),
		Email: "tester@example.com",
	}

	signed, err := svc.generateAccessToken(user)
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token is not valid")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not MapClaims")
	}
	if claims["sub"] != user.ID.String() {
		t.Errorf("sub = %v, want %s", claims["sub"], user.ID)
	}
	if claims["email"] != user.Email {
		t.Errorf("email = %v, want %s", claims["email"], user.Email)
	}
}

func TestGenerateAccessToken_WrongSecretRejected(t *testing.T) {
	svc := &AuthService{cfg: &config.Config{JWTSecret: "right", JWTAccessExpiry: time.Hour}}

	signed, err := svc.generateAccessToken(&models.User{ID: uuid.New(), Email: "a@b.c"})
	if err != nil {
		t.Fatalf("generateAccessToken: %v", err)
	}

	if _, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong"), nil
	}); err == nil {
		t.Error("expected parse error with wrong secret")
	}
}

func TestHashToken(t *testing.T) {
	a := hashToken("refresh-token-value")
	b := hashToken("refresh-token-value")
	if a != b {
		t.Error("hashToken is not deterministic")
	}
	if a == hashToken("other-value") {
		t.Error("different tokens hash equal")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
	if a == "refresh-token-value" {
		t.Error("hash must not be the raw token")
	}
}

func TestPurgeAccount_RevocationFailureAborts(t *testing.T) {
	boom := errors.New("deadlock detected")
	err := purgeAccount(
		func() error { return boom },
		func() error {
			t.Fatal("profile removal must not run after a failed revocation")
			return nil
		},
	)
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want the revocation error", err)
	}
}

func TestPurgeAccount_RevokesThenRemoves(t *testing.T) {
	var steps []string
	err := purgeAccount(
		func() error { steps = append(steps, "revoke"); return nil },
		func() error { steps = append(steps, "remove"); return nil },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 2 || steps[0] != "revoke" || steps[1] != "remove" {
		t.Errorf("steps = %v, want revoke then remove", steps)
	}
}
