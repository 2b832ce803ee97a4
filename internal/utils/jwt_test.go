package utils

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateToken(42, "user@example.com", 1)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, expected 42", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	SetJWTSecret("first-secret")
	token, err := GenerateToken(1, "a@example.com", 1)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	SetJWTSecret("second-secret")
	if _, err := ParseToken(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	SetJWTSecret("test-secret")
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}
}
