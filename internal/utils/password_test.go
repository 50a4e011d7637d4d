package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_ProducesArgon2Hash(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("CustomerPass123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, IsArgon2Hash(hash))
	assert.NotContains(t, hash, "CustomerPass123")
}

func TestHashPassword_SaltsAreUnique(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword_Roundtrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("CustomerPass123")
	require.NoError(t, err)

	ok, err := VerifyPassword("CustomerPass123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("WrongPass123", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_BcryptFallback(t *testing.T) {
	t.Parallel()

	// les comptes importés de l'ancienne base ont des hashes bcrypt
	legacy, err := bcrypt.GenerateFromPassword([]byte("AdminPass123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, IsBcryptHash(string(legacy)))

	ok, err := VerifyPassword("AdminPass123", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("NotThePassword", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_RejectsGarbageHash(t *testing.T) {
	t.Parallel()

	_, err := VerifyPassword("whatever", "not-a-hash")
	assert.Error(t, err)
}
