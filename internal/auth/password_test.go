package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"minimum length", "12345678"},
		{"long passphrase", "correct horse battery staple with extras"},
		{"special characters", "p@ssw0rd!#$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, CheckPassword(tt.password, hash))
		})
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	for _, password := range []string{"", "short", "1234567"} {
		hash, err := HashPassword(password)
		assert.ErrorIs(t, err, ErrPasswordTooShort)
		assert.Empty(t, hash)
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	hash1, err := HashPassword("samepassword")
	require.NoError(t, err)
	hash2, err := HashPassword("samepassword")
	require.NoError(t, err)

	// bcrypt salts every hash, repeated calls must differ.
	assert.NotEqual(t, hash1, hash2)
	assert.True(t, CheckPassword("samepassword", hash1))
	assert.True(t, CheckPassword("samepassword", hash2))
}

func TestCheckPassword_Rejections(t *testing.T) {
	hash, err := HashPassword("Password123")
	require.NoError(t, err)

	assert.False(t, CheckPassword("wrongpassword", hash))
	assert.False(t, CheckPassword("password123", hash), "comparison is case sensitive")
	assert.False(t, CheckPassword("", hash))
	assert.False(t, CheckPassword("Password123", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("Password123", ""))
}
