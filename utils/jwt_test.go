package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken(testSecret, "ops-1", "ops@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateAdminToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "ops-1", claims.Subject)
	assert.Equal(t, AdminRole, claims.Role)
	assert.Equal(t, "ops@example.com", claims.Email)
}

func TestValidateAdminTokenRejects(t *testing.T) {
	expired, err := GenerateAdminToken(testSecret, "ops-1", "", -time.Minute)
	require.NoError(t, err)

	otherKey, err := GenerateAdminToken([]byte("other"), "ops-1", "", time.Hour)
	require.NoError(t, err)

	notAdmin, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role:           "candidate",
		StandardClaims: jwt.StandardClaims{Subject: "u-1", ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}).SignedString(testSecret)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role:           AdminRole,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}).SignedString(testSecret)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, AdminClaims{
		Role:           AdminRole,
		StandardClaims: jwt.StandardClaims{Subject: "ops-1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":   expired,
		"wrong key": otherKey,
		"not admin": notAdmin,
		"no sub":    noSubject,
		"alg none":  unsigned,
		"garbage":   "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateAdminToken(testSecret, token)
			assert.Error(t, err)
		})
	}
}

func TestGenerateAdminTokenNeedsSecret(t *testing.T) {
	_, err := GenerateAdminToken(nil, "ops-1", "", time.Hour)
	assert.Error(t, err)
}
