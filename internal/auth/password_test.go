package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := hashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	assert.Equal(t, 6, len(strings.Split(hash, "$")))
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	first, err := hashPassword("same password")
	require.NoError(t, err)

	second, err := hashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := hashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, verifyPassword(hash, "s3cret-pass"))
	assert.False(t, verifyPassword(hash, "wrong-pass"))
	assert.False(t, verifyPassword(hash, ""))
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	assert.False(t, verifyPassword("not-a-hash", "password"))
	assert.False(t, verifyPassword("$argon2id$v=19$garbage", "password"))
	assert.False(t, verifyPassword("", "password"))
}
