package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims the dashboard reads. Tokens are not
// verified here; the API does that on every call.
type Claims struct {
	jwt.RegisteredClaims
	Rol  Role `json:"rol,omitempty"`
	Sede int  `json:"sede,omitempty"`
}

// ParseClaims decodes the claims of token without verifying its signature.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// lifetime is the refresh delay for tokens. The declared expiration wins;
// otherwise the access token exp claim is used.
func lifetime(t *TokenResponse, now time.Time) time.Duration {
	if t.ExpirationInSeconds > 0 {
		return time.Duration(t.ExpirationInSeconds) * time.Second
	}
	claims, err := ParseClaims(t.AccessToken)
	if err != nil || claims.ExpiresAt == nil {
		return 0
	}
	return claims.ExpiresAt.Sub(now)
}
