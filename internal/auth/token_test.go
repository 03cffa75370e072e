package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fleet-admin/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, exp, err := tm.GenerateToken("17", domain.RoleManager)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)

	actor := claims.Actor(token)
	assert.Equal(t, domain.RoleManager, actor.Role)
	assert.Equal(t, "17", actor.UserID)
	assert.Equal(t, token, actor.Token)
}

func TestParseTokenNumericUserIDAndRoleName(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	raw := signMapClaims(t, "secret", jwt.MapClaims{
		"userId":   42,
		"roleName": "Kế toán",
		"exp":      time.Now().Add(time.Minute).Unix(),
	})

	claims, err := tm.ParseToken(raw)
	require.NoError(t, err)

	actor := claims.Actor(raw)
	assert.Equal(t, "42", actor.UserID)
	assert.Equal(t, domain.RoleAccountant, actor.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	raw := signMapClaims(t, "other", jwt.MapClaims{"userId": "1", "role": "ADMIN"})

	_, err := NewTokenManager("secret", 5).ParseToken(raw)
	require.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	raw := signMapClaims(t, "secret", jwt.MapClaims{
		"userId": "1",
		"role":   "ADMIN",
		"exp":    time.Now().Add(-time.Minute).Unix(),
	})

	_, err := NewTokenManager("secret", 5).ParseToken(raw)
	require.Error(t, err)
}

func signMapClaims(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}
