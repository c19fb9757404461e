package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inquirydesk/internal/config"
	"inquirydesk/internal/domain"
)

func testManager() *TokenManager {
	return NewTokenManager(config.AuthConfig{
		SecretKey:          "test-secret",
		TokenExpiryMinutes: 30,
		Issuer:             "inquirydesk-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := testManager()
	user := &domain.User{Username: "manager", IsStaff: true}

	token, issued, err := m.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, issued.ID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), issued.ExpiresAt.Time, 2*time.Second)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenIDsAreUnique(t *testing.T) {
	m := testManager()
	user := &domain.User{Username: "manager", IsStaff: true}

	_, a, err := m.GenerateToken(user)
	require.NoError(t, err)
	_, b, err := m.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestValidateTokenExpired(t *testing.T) {
	m := testManager()
	token, _, err := m.GenerateToken(&domain.User{Username: "manager"})
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, _, err := testManager().GenerateToken(&domain.User{Username: "manager"})
	require.NoError(t, err)

	other := NewTokenManager(config.AuthConfig{SecretKey: "other", TokenExpiryMinutes: 30, Issuer: "inquirydesk-test"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	token, _, err := testManager().GenerateToken(&domain.User{Username: "manager"})
	require.NoError(t, err)

	other := NewTokenManager(config.AuthConfig{SecretKey: "test-secret", TokenExpiryMinutes: 30, Issuer: "someone-else"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		Username: "manager",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "abc",
			Issuer:    "inquirydesk-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = testManager().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := testManager().ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireStaff(t *testing.T) {
	assert.NoError(t, RequireStaff(&domain.User{IsActive: true, IsStaff: true}))
	assert.NoError(t, RequireStaff(&domain.User{IsActive: true, IsAdmin: true}))
	assert.Error(t, RequireStaff(&domain.User{IsActive: true}))
	assert.Error(t, RequireStaff(&domain.User{IsStaff: true}))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("battery staple", hash))
}
