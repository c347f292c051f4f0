package middleware

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := SignUserToken(42, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("SignUserToken failed: %v", err)
	}

	userID, err := ParseUserToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseUserToken failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _ := SignUserToken(42, "test-secret", time.Hour)

	if _, err := ParseUserToken(token, "other-secret"); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, _ := SignUserToken(42, "test-secret", -time.Minute)

	if _, err := ParseUserToken(token, "test-secret"); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseUserToken("not-a-token", "test-secret"); err == nil {
		t.Error("malformed token must be rejected")
	}
}
