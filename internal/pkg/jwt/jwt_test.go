package jwt

import (
	"errors"
	"testing"
)

const (
	testSecret        = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "gate-scanner", "scanner", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}

	if claims.AccountID != 42 {
		t.Errorf("expected account ID 42, got %d", claims.AccountID)
	}
	if claims.Username != "gate-scanner" {
		t.Errorf("expected username gate-scanner, got %q", claims.Username)
	}
	if claims.Role != "scanner" {
		t.Errorf("expected role scanner, got %q", claims.Role)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "gate-scanner", "scanner", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	// Negative expiry produces an already-expired token
	token, err := GenerateAccessToken(42, "gate-scanner", "scanner", testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", testRefreshSecret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := ValidateRefreshToken(token, testRefreshSecret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken failed: %v", err)
	}
	if claims.AccountID != 42 {
		t.Errorf("expected account ID 42, got %d", claims.AccountID)
	}
	if claims.TokenID != "token-id-1" {
		t.Errorf("expected token ID token-id-1, got %q", claims.TokenID)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	refresh, err := GenerateRefreshToken(42, "token-id-1", testRefreshSecret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	// An access validation with the access secret must reject a refresh token
	if _, err := ValidateAccessToken(refresh, testSecret); err == nil {
		t.Fatal("expected refresh token to fail access validation")
	}
}
