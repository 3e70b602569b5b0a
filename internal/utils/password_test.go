package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	for _, pw := range []string{"password123", "12345678", "pässwörd-ünicode", "a very long passphrase with spaces"} {
		hash, err := h.Hash(pw)
		require.NoError(t, err)
		assert.True(t, h.Verify(pw, hash), pw)
		assert.False(t, h.Verify(pw+"x", hash), pw)
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	a, err := h.Hash("password123")
	require.NoError(t, err)
	b, err := h.Hash("password123")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.True(t, h.Verify("password123", a))
	require.True(t, h.Verify("password123", b))
}

func TestBcryptHasher_TooShort(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	// Length counts characters, so multibyte input of 8+ bytes is still short.
	for _, pw := range []string{"", "a", "1234567", "éééé", "€€€", "密码密码密"} {
		_, err := h.Hash(pw)
		require.ErrorIs(t, err, errs.ErrValidation, pw)
	}

	hash, err := h.Hash("éééééééé")
	require.NoError(t, err)
	require.True(t, h.Verify("éééééééé", hash))
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	require.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost)
	require.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).Cost)
	require.Equal(t, 12, NewBcryptHasher(12).Cost)
}
