package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateAdminToken("admin", secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, "admin", RoleFromClaims(claims))
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateAdminToken("admin", "right-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestValidateJWTExpiredToken(t *testing.T) {
	token, err := GenerateAdminToken("admin", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "secret")
	assert.Error(t, err)
}

func TestRoleFromClaimsMissing(t *testing.T) {
	assert.Empty(t, RoleFromClaims(map[string]any{"sub": "admin"}))
}

func TestGenerateULIDUniqueness(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateULID()
		assert.Len(t, id, 26)
		assert.False(t, seen[id], "duplicate ulid %s", id)
		seen[id] = true
	}
}

func TestSigningSecretIsStable(t *testing.T) {
	first := SigningSecret()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, SigningSecret())

	token, err := GenerateAdminToken("admin", SigningSecret(), time.Minute)
	require.NoError(t, err)
	claims, err := ValidateJWT(token, SigningSecret())
	require.NoError(t, err)
	assert.Equal(t, "admin", RoleFromClaims(claims))
}

func TestGenerateSecureKeyLength(t *testing.T) {
	key, err := GenerateSecureKey(64)
	require.NoError(t, err)
	assert.Len(t, key, 64)

	other, err := GenerateSecureKey(64)
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}
