package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateSessionToken_Success(t *testing.T) {
	token, err := GenerateSessionToken("test-issuer", 123, "sid-1", time.Hour, "secret-key")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.UserID != 123 || token.SessionID != "sid-1" {
		t.Errorf("unexpected claims: %+v", token)
	}
	if got := token.ExpiresAt.Sub(token.IssuedAt); got != time.Hour {
		t.Errorf("expected ttl 1h, got %s", got)
	}
}

func TestGenerateSessionToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name      string
		issuer    string
		sessionID string
		ttl       time.Duration
		key       string
	}{
		{"empty issuer", "", "sid", time.Hour, "key"},
		{"empty session id", "iss", "", time.Hour, "key"},
		{"zero ttl", "iss", "sid", 0, "key"},
		{"negative ttl", "iss", "sid", -time.Second, "key"},
		{"empty key", "iss", "sid", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateSessionToken(tt.issuer, 1, tt.sessionID, tt.ttl, tt.key)
			if !errors.Is(err, ErrInvalidSessionToken) {
				t.Errorf("expected ErrInvalidSessionToken, got %v", err)
			}
		})
	}
}

func TestValidateSessionToken_RoundTrip(t *testing.T) {
	issued, err := GenerateSessionToken("whispee", 7, "sid-7", time.Hour, "key")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsed, err := ValidateSessionToken(issued.SignedString, "key", "whispee")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if parsed.UserID != 7 {
		t.Errorf("expected user 7, got %d", parsed.UserID)
	}
	if parsed.SessionID != "sid-7" {
		t.Errorf("expected session id sid-7, got %s", parsed.SessionID)
	}
	if !parsed.ExpiresAt.Equal(issued.ExpiresAt) {
		t.Errorf("expected expiry %s, got %s", issued.ExpiresAt, parsed.ExpiresAt)
	}
}

func TestValidateSessionToken_Rejects(t *testing.T) {
	valid, err := GenerateSessionToken("whispee", 1, "sid", time.Hour, "key")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Issuer:    "whispee",
		Subject:   "1",
		ID:        "sid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	expiredStr, _ := expired.SignedString([]byte("key"))

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Issuer:    "whispee",
		ID:        "sid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubjectStr, _ := noSubject.SignedString([]byte("key"))

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Issuer:    "whispee",
		Subject:   "abc",
		ID:        "sid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	badSubjectStr, _ := badSubject.SignedString([]byte("key"))

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Issuer:  "whispee",
		Subject: "1",
		ID:      "sid",
	})
	noExpiryStr, _ := noExpiry.SignedString([]byte("key"))

	tests := map[string]struct {
		token  string
		key    string
		issuer string
	}{
		"wrong key":    {valid.SignedString, "other", "whispee"},
		"wrong issuer": {valid.SignedString, "key", "someone-else"},
		"garbage":      {"not.a.token", "key", "whispee"},
		"expired":      {expiredStr, "key", "whispee"},
		"no subject":   {noSubjectStr, "key", "whispee"},
		"bad subject":  {badSubjectStr, "key", "whispee"},
		"no expiry":    {noExpiryStr, "key", "whispee"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateSessionToken(tt.token, tt.key, tt.issuer)
			if !errors.Is(err, ErrInvalidSessionToken) {
				t.Errorf("expected ErrInvalidSessionToken, got %v", err)
			}
		})
	}
}

func TestSessionTokenExpiry(t *testing.T) {
	token, err := GenerateSessionToken("whispee", 1, "sid", 2*time.Hour, "key")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	exp, err := SessionTokenExpiry(token.SignedString)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !exp.Equal(token.ExpiresAt) {
		t.Errorf("expected %s, got %s", token.ExpiresAt, exp)
	}

	if _, err = SessionTokenExpiry("garbage"); !errors.Is(err, ErrInvalidSessionToken) {
		t.Errorf("expected ErrInvalidSessionToken for garbage, got %v", err)
	}
}
