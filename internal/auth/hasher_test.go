package auth_test

import (
	"testing"

	"leaveflow/internal/auth"
	"leaveflow/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	digest, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)

	assert.NoError(t, hasher.Verify("secret1", digest))
}

func TestBcryptHasherSaltsPerCall(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	first, err := hasher.Hash("secret1")
	require.NoError(t, err)
	second, err := hasher.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasherMismatch(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	digest, err := hasher.Hash("secret1")
	require.NoError(t, err)

	assert.ErrorIs(t, hasher.Verify("wrongpass", digest), auth.ErrMismatch)
}

func TestBcryptHasherMalformedDigest(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	err := hasher.Verify("secret1", "not-a-bcrypt-digest")
	assert.ErrorIs(t, err, apperr.ErrHashFormat)
}
