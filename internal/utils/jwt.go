package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSessionToken is returned when a session token cannot be
// generated or fails validation.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionToken is a signed session token together with the claims it was
// built from. SignedString is what travels in the session_id field of the
// protocol.
type SessionToken struct {
	SignedString string
	UserID       int64
	SessionID    string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// GenerateSessionToken creates a signed HMAC-SHA256 JWT for a session.
//
// The token includes the following standard claims:
//   - Issuer    (iss): identifies the server that issued the session
//   - Subject   (sub): the user ID encoded as a string
//   - ID        (jti): the server-side session key
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus ttl
//
// All parameters are required.
//
// Example usage:
//
//	token, err := utils.GenerateSessionToken("whispee", 42, sessionID, 24*time.Hour, "secret")
func GenerateSessionToken(issuer string, userID int64, sessionID string, ttl time.Duration, signKey string) (SessionToken, error) {
	if issuer == "" || sessionID == "" || ttl <= 0 || signKey == "" {
		return SessionToken{}, fmt.Errorf("%w: invalid params for generating session token", ErrInvalidSessionToken)
	}

	now := time.Now().Truncate(time.Second)
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		ID:        sessionID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return SessionToken{}, fmt.Errorf("error occurred during signing session token: %w", err)
	}

	return SessionToken{
		SignedString: signed,
		UserID:       userID,
		SessionID:    sessionID,
		IssuedAt:     now,
		ExpiresAt:    now.Add(ttl),
	}, nil
}

// ValidateSessionToken verifies signature, issuer and expiry of tokenString
// and returns its claims. Tokens signed with anything but HS256 are
// rejected.
func ValidateSessionToken(tokenString, signKey, issuer string) (SessionToken, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return SessionToken{}, fmt.Errorf("%w: %w", ErrInvalidSessionToken, err)
	}

	return tokenFromClaims(tokenString, claims)
}

// SessionTokenExpiry reads the expiry of tokenString without verifying the
// signature. The client uses it to skip resuming a token that has already
// run out.
func SessionTokenExpiry(tokenString string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidSessionToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: no expiry", ErrInvalidSessionToken)
	}

	return claims.ExpiresAt.Time, nil
}

func tokenFromClaims(signed string, claims *jwt.RegisteredClaims) (SessionToken, error) {
	if claims.Subject == "" || claims.ID == "" {
		return SessionToken{}, fmt.Errorf("%w: missing subject or id", ErrInvalidSessionToken)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return SessionToken{}, fmt.Errorf("%w: subject: %w", ErrInvalidSessionToken, err)
	}

	token := SessionToken{SignedString: signed, UserID: userID, SessionID: claims.ID}
	if claims.IssuedAt != nil {
		token.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Time
	}

	return token, nil
}
