package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errNoExpiry = errors.New("access token carries no expiry claim")

// tokenExpiry reads the exp claim out of an access token. The signature
// is not verified: only the gateway holds the signing key, and the claim
// is used solely to decide when to ask it for a refresh.
func tokenExpiry(accessToken string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}
