package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_SaltsEveryDigest(t *testing.T) {
	t.Parallel()

	h := New(bcrypt.MinCost)
	for _, pw := range []string{"pw1", "correct horse battery staple", ""} {
		first, err := h.Hash(pw)
		require.NoError(t, err)
		second, err := h.Hash(pw)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.True(t, h.Verify(pw, first))
		assert.True(t, h.Verify(pw, second))
	}
}

func TestHasher_VerifyMismatchIsFalse(t *testing.T) {
	t.Parallel()

	h := New(bcrypt.MinCost)
	digest, err := h.Hash("pw1")
	require.NoError(t, err)

	assert.False(t, h.Verify("pw2", digest))
	assert.False(t, h.Verify("pw1", "not-a-bcrypt-digest"))
}

func TestNew_ClampsCost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, New(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, New(bcrypt.MaxCost+1).Cost)
	assert.Equal(t, 12, New(12).Cost)
}

func TestHasher_RejectsOverlongPassword(t *testing.T) {
	t.Parallel()

	_, err := New(bcrypt.MinCost).Hash(string(make([]byte, 73)))
	require.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}
