package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the informational view of the access token's JWT claims.
// The console never verifies the signature (the secret lives on the API
// server); these values are for display and expiry hints only and carry no
// authorization weight.
type TokenClaims struct {
	Subject   string     `json:"sub"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// PeekClaims decodes the token's registered claims without verification.
func PeekClaims(token string) (*TokenClaims, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	out := &TokenClaims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		out.ExpiresAt = &t
	}
	return out, nil
}

// TokenExpired reports whether the token carries an exp claim in the past.
// Unparseable tokens and tokens without exp are treated as not expired; the
// API server remains the authority and will reject them with 401.
func TokenExpired(token string, now time.Time) bool {
	claims, err := PeekClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
