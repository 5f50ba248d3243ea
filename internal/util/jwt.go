package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	CompanyID uint   `json:"company_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// ParseSessionToken reads the claims of a session token issued by the backend.
// The client holds no signing secret, so the signature is not verified here;
// the backend re-checks the token on every request.
func ParseSessionToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenExpired reports whether the token carries an expiry in the past.
func TokenExpired(claims *Claims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
