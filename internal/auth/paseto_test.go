package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPasetoService(t *testing.T) *PasetoService {
	t.Helper()
	svc, err := NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return svc
}

func TestNewPasetoService_KeyLength(t *testing.T) {
	_, err := NewPasetoService([]byte("too-short"))
	assert.Error(t, err)

	_, err = NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	assert.NoError(t, err)
}

func TestPasetoService_RoundTrip(t *testing.T) {
	svc := newTestPasetoService(t)
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

func TestPasetoService_ExpiredToken(t *testing.T) {
	svc := newTestPasetoService(t)

	token, err := svc.CreateToken(uuid.New(), "frank", -time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPasetoService_WrongKey(t *testing.T) {
	svc := newTestPasetoService(t)

	token, err := svc.CreateToken(uuid.New(), "frank", time.Hour)
	require.NoError(t, err)

	other, err := NewPasetoService([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestPasetoService_GarbageToken(t *testing.T) {
	svc := newTestPasetoService(t)

	_, err := svc.VerifyToken("v4.local.garbage")
	assert.Error(t, err)
}
