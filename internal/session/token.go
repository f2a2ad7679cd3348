package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenSigner signs and validates the session cookie value. The cookie never
// carries session data, only a signed session ID; tampering with either the
// ID or the expiry invalidates the signature and the request is treated as
// having no session.
type TokenSigner struct {
	secret []byte
	maxAge time.Duration
}

// NewTokenSigner creates a signer for session cookies.
func NewTokenSigner(secret string, maxAge time.Duration) *TokenSigner {
	return &TokenSigner{
		secret: []byte(secret),
		maxAge: maxAge,
	}
}

// Sign produces a signed cookie value for the given session ID.
func (s *TokenSigner) Sign(sessionID string) (string, error) {
	claims := &jwt.RegisteredClaims{
		ID:        sessionID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.maxAge)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		NotBefore: jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates a signed cookie value and returns the session ID.
func (s *TokenSigner) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.ID == "" {
		return "", errors.New("session ID not found")
	}
	return claims.ID, nil
}
