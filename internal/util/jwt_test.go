package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("backend-only-secret"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func TestParseSessionToken(t *testing.T) {
	token := signedToken(t, Claims{
		UserID:    7,
		Role:      "employee",
		CompanyID: 42,
		Email:     "ada@acme.test",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ParseSessionToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "employee", claims.Role)
	assert.Equal(t, uint(42), claims.CompanyID)
	assert.False(t, TokenExpired(claims))
}

func TestParseSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("not-a-token")
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	expired := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	assert.True(t, TokenExpired(expired))

	// No expiry claim means the backend decides; treat as live.
	assert.False(t, TokenExpired(&Claims{}))
	assert.False(t, TokenExpired(nil))
}
