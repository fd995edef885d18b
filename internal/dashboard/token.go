package dashboard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims carries the session and user ids inside the signed
// session token handed back by sign-in.
type sessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

// GenerateSessionToken signs an HS256 token for the session, expiring at
// expiry (millis).
func GenerateSessionToken(sessionID, userID string, expiry int64, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.UnixMilli(expiry)),
		},
		SessionID: sessionID,
		UserID:    userID,
	})

	return token.SignedString(secretKey)
}

// ParseSessionToken verifies the token signature and expiry and returns
// the session and user ids. Returns ErrInvalidSessionToken on any failure.
func ParseSessionToken(tokenString string, secretKey []byte) (sessionID, userID string, err error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidSessionToken
	}

	return claims.SessionID, claims.UserID, nil
}
