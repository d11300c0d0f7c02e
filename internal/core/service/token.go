package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired peeks at the exp claim without verifying the signature; the
// gateway never holds the signing key. Opaque or claim-less tokens are left
// for the backend to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
