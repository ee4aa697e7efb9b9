package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims mirrors what the server stores inside its JWT.
// The client never holds the signing key: claims are read, not verified,
// and only serve to detect an expired session before hitting the network.
type CustomClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// ParseClaims decodes the token payload without checking its signature.
func ParseClaims(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("malformed token: %w", err)
	}
	return claims, nil
}

// IsExpired reports whether the token carries an expiry that is already past.
// Tokens without expiry, or that cannot be decoded, are left to the server to judge.
func IsExpired(tokenString string, now time.Time) bool {
	claims, err := ParseClaims(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
