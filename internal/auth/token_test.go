package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOpaqueToken(t *testing.T) {
	token, err := generateOpaqueToken()
	require.NoError(t, err)

	assert.Len(t, token, 40)

	_, err = hex.DecodeString(token)
	assert.NoError(t, err)
}

func TestGenerateOpaqueToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := generateOpaqueToken()
		require.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}
