package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether tok is a JWT whose exp lies at or before now.
// The signature is not checked; only the server can do that. Tokens that do
// not parse as JWTs, or carry no exp, are treated as live.
func tokenExpired(tok string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// usable decides whether a persisted pair can restore a session.
func usable(accessToken, refreshToken string, now time.Time) bool {
	if accessToken == "" {
		return false
	}
	if !tokenExpired(accessToken, now) {
		return true
	}
	return refreshToken != "" && !tokenExpired(refreshToken, now)
}
