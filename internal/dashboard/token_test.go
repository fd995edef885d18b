package dashboard

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParseSessionToken_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	sessionID := "sess-123"
	userID := "user-123"
	expiry := time.Now().Add(time.Hour).UnixMilli()

	tok, err := GenerateSessionToken(sessionID, userID, expiry, secret)
	if err != nil {
		t.Fatalf("GenerateSessionToken error: %v", err)
	}

	gotSessionID, gotUserID, err := ParseSessionToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseSessionToken error: %v", err)
	}
	if gotSessionID != sessionID {
		t.Fatalf("sessionID mismatch: got %q want %q", gotSessionID, sessionID)
	}
	if gotUserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", gotUserID, userID)
	}
}

func TestParseSessionToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	expiry := time.Now().Add(-time.Second).UnixMilli()

	tok, err := GenerateSessionToken("s1", "u1", expiry, secret)
	if err != nil {
		t.Fatalf("GenerateSessionToken error: %v", err)
	}

	_, _, err = ParseSessionToken(tok, secret)
	if !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken for expired token, got %v", err)
	}
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	t.Parallel()

	expiry := time.Now().Add(time.Hour).UnixMilli()
	tok, err := GenerateSessionToken("s2", "u2", expiry, []byte("right-secret"))
	if err != nil {
		t.Fatalf("GenerateSessionToken error: %v", err)
	}

	_, _, err = ParseSessionToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken for wrong secret, got %v", err)
	}
}

func TestParseSessionToken_Garbage(t *testing.T) {
	t.Parallel()

	_, _, err := ParseSessionToken("not-a-token", []byte("secret"))
	if !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken for garbage, got %v", err)
	}
}
