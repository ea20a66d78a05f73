package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, refresh, err := GenerateJWT("64f0c1a2b3d4e5f601234567", "guest@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if token == "" || refresh == "" || token == refresh {
		t.Fatal("expected distinct non-empty access and refresh tokens")
	}

	parsed, err := jwt.ParseWithClaims(token, &JwtCustomClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	claims := parsed.Claims.(*JwtCustomClaims)
	if claims.UserID != "64f0c1a2b3d4e5f601234567" {
		t.Errorf("userId = %q", claims.UserID)
	}
	if claims.UserType != "user" {
		t.Errorf("userType = %q", claims.UserType)
	}
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, _, err := GenerateJWT("id", "a@b.co", "user"); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestTokenBlacklist(t *testing.T) {
	token := "blacklist-test-token"
	if IsTokenBlacklisted(token) {
		t.Fatal("token should not be blacklisted yet")
	}
	BlacklistToken(token, time.Now().Add(time.Hour))
	if !IsTokenBlacklisted(token) {
		t.Fatal("token should be blacklisted")
	}
}
