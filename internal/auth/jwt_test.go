package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTService_EmptySecret(t *testing.T) {
	_, err := NewJWTService(nil)
	assert.Error(t, err)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService([]byte("jwt-test-secret"))
	require.NoError(t, err)

	accountID := uuid.New()
	token, err := svc.CreateToken(accountID, "frank", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, accountID.String(), claims.AccountID)
	assert.Equal(t, "frank", claims.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc, err := NewJWTService([]byte("jwt-test-secret"))
	require.NoError(t, err)

	token, err := svc.CreateToken(uuid.New(), "frank", -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc, err := NewJWTService([]byte("jwt-test-secret"))
	require.NoError(t, err)

	token, err := svc.CreateToken(uuid.New(), "frank", time.Hour)
	require.NoError(t, err)

	other, err := NewJWTService([]byte("different-secret"))
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_TamperedToken(t *testing.T) {
	svc, err := NewJWTService([]byte("jwt-test-secret"))
	require.NoError(t, err)

	token, err := svc.CreateToken(uuid.New(), "frank", time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + ".eyJzdWIiOiJvdGhlciJ9." + parts[2]

	_, err = svc.VerifyToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
