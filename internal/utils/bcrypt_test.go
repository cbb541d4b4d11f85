package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "password123"
	hashedPassword, err := HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hashedPassword)
	assert.NotEqual(t, password, hashedPassword)
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("password123")
	require.NoError(t, err)
	second, err := HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.NotErrorIs(t, err, ErrHashing)

	hash, err := HashPassword(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)
	ok, err := ComparePassword(strings.Repeat("a", MaxPasswordBytes), hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPassword_TooLongCountsBytes(t *testing.T) {
	// 40 characters, 80 bytes
	_, err := HashPassword(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestComparePassword(t *testing.T) {
	password := "password123"
	hashedPassword, _ := HashPassword(password)

	ok, err := ComparePassword(password, hashedPassword)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePassword("wrongpassword", hashedPassword)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestComparePassword_InvalidHash(t *testing.T) {
	ok, err := ComparePassword("password123", "invalidhash")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrHashing)
}
