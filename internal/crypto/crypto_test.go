package crypto

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken()
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Each call generates a unique token
	token2, err := GenerateSecureToken()
	assert.NoError(t, err)
	assert.NotEqual(t, token, token2)

	// base64 encoding of 32 bytes should be at least 40 chars
	assert.GreaterOrEqual(t, len(token), 40)
}

func TestSignData(t *testing.T) {
	key := []byte("test-signing-key-0123456789abcdef")

	sig := SignData("hello", key)
	assert.NotEmpty(t, sig)

	// Deterministic for the same input and key
	assert.Equal(t, sig, SignData("hello", key))

	// Different data or key changes the signature
	assert.NotEqual(t, sig, SignData("hello!", key))
	assert.NotEqual(t, sig, SignData("hello", []byte("another-signing-key-0123456789ab")))
}

func TestValidateSignedData(t *testing.T) {
	key := []byte("test-signing-key-0123456789abcdef")

	sig := SignData("payload", key)
	assert.True(t, ValidateSignedData("payload", sig, key))

	assert.False(t, ValidateSignedData("tampered", sig, key))
	assert.False(t, ValidateSignedData("payload", sig, []byte("another-signing-key-0123456789ab")))
	assert.False(t, ValidateSignedData("payload", "not-base64!!!", key))
}

func TestCSRFProtection(t *testing.T) {
	key := []byte("test-signing-key-0123456789abcdef")
	csrf := NewCSRFProtection(key, time.Hour)

	token, err := csrf.Generate()
	require.NoError(t, err)

	parts := strings.SplitN(token, ":", 3)
	require.Len(t, parts, 3)

	assert.True(t, csrf.Validate(token))

	// Tampering with the nonce invalidates the token
	assert.False(t, csrf.Validate("x"+token))

	// Garbage is rejected
	assert.False(t, csrf.Validate("not-a-token"))
	assert.False(t, csrf.Validate(""))

	// Token signed with a different key is rejected
	other := NewCSRFProtection([]byte("another-signing-key-0123456789ab"), time.Hour)
	otherToken, err := other.Generate()
	require.NoError(t, err)
	assert.False(t, csrf.Validate(otherToken))
}

func TestCSRFProtectionExpiry(t *testing.T) {
	key := []byte("test-signing-key-0123456789abcdef")
	csrf := NewCSRFProtection(key, -time.Second)

	token, err := csrf.Generate()
	require.NoError(t, err)

	// TTL already elapsed
	assert.False(t, csrf.Validate(token))
}
