package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloghub/bloghub/internal/account"
	"github.com/bloghub/bloghub/internal/email"
	"github.com/bloghub/bloghub/internal/logging"
)

// fakeAccounts is an in-memory AccountRepository mirroring the semantics of
// the Postgres-backed one: unique usernames and emails, single-use
// verification codes and expiry-guarded reset tokens.
type fakeAccounts struct {
	byID map[uuid.UUID]*account.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: make(map[uuid.UUID]*account.Account)}
}

func (f *fakeAccounts) Create(_ context.Context, params account.CreateParams) (*account.Account, error) {
	for _, acc := range f.byID {
		if acc.Username == params.Username {
			return nil, account.ErrDuplicateUsername
		}
		if acc.Email == params.Email {
			return nil, account.ErrDuplicateEmail
		}
	}

	now := time.Now()
	code := params.VerificationCode
	acc := &account.Account{
		ID:               uuid.New(),
		Username:         params.Username,
		Email:            params.Email,
		Name:             params.Name,
		PasswordHash:     params.PasswordHash,
		VerificationCode: &code,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.byID[acc.ID] = acc
	return acc, nil
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (*account.Account, error) {
	for _, acc := range f.byID {
		if acc.Username == username {
			return acc, nil
		}
	}
	return nil, account.ErrNotFound
}

func (f *fakeAccounts) GetByEmail(_ context.Context, emailAddr string) (*account.Account, error) {
	for _, acc := range f.byID {
		if acc.Email == emailAddr {
			return acc, nil
		}
	}
	return nil, account.ErrNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	if acc, ok := f.byID[id]; ok {
		return acc, nil
	}
	return nil, account.ErrNotFound
}

func (f *fakeAccounts) VerifyByCode(_ context.Context, code string) (*account.Account, error) {
	for _, acc := range f.byID {
		if !acc.Verified && acc.VerificationCode != nil && *acc.VerificationCode == code {
			acc.Verified = true
			acc.VerificationCode = nil
			return acc, nil
		}
	}
	return nil, account.ErrNotFound
}

func (f *fakeAccounts) SetResetToken(_ context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
	acc, ok := f.byID[accountID]
	if !ok {
		return account.ErrNotFound
	}
	acc.ResetPasswordToken = &token
	acc.ResetPasswordExpiresIn = &expiresAt
	return nil
}

func (f *fakeAccounts) FindByValidResetToken(_ context.Context, token string) (*account.Account, error) {
	for _, acc := range f.byID {
		if acc.ResetPasswordToken != nil && *acc.ResetPasswordToken == token &&
			acc.ResetPasswordExpiresIn != nil && acc.ResetPasswordExpiresIn.After(time.Now()) {
			return acc, nil
		}
	}
	return nil, account.ErrNotFound
}

func (f *fakeAccounts) CompleteReset(_ context.Context, token, passwordHash string) (*account.Account, error) {
	for _, acc := range f.byID {
		if acc.ResetPasswordToken != nil && *acc.ResetPasswordToken == token &&
			acc.ResetPasswordExpiresIn != nil && acc.ResetPasswordExpiresIn.After(time.Now()) {
			acc.PasswordHash = passwordHash
			acc.ResetPasswordToken = nil
			acc.ResetPasswordExpiresIn = nil
			return acc, nil
		}
	}
	return nil, account.ErrNotFound
}

// fakeMailer records enqueued messages instead of touching Redis.
type fakeMailer struct {
	messages []email.Message
	failWith error
}

func (f *fakeMailer) Enqueue(_ context.Context, msg email.Message) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.messages = append(f.messages, msg)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeAccounts, *fakeMailer) {
	t.Helper()

	accounts := newFakeAccounts()
	mailer := &fakeMailer{}
	tokens, err := NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	svc := NewService(
		accounts,
		mailer,
		tokens,
		logging.NewLogger(true),
		24*time.Hour,
		time.Hour,
		"http://localhost:8080/",
	)
	return svc, accounts, mailer
}

func registerTestAccount(t *testing.T, svc *Service) *account.Account {
	t.Helper()
	created, err := svc.Register(context.Background(), RegisterInput{
		Username: "frank",
		Email:    "frank@example.com",
		Name:     "Frank",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return created
}

func TestService_Register(t *testing.T) {
	svc, accounts, mailer := newTestService(t)

	created := registerTestAccount(t, svc)

	assert.Equal(t, "frank", created.Username)
	assert.False(t, created.Verified)
	require.NotNil(t, created.VerificationCode)
	assert.True(t, verifyPassword(created.PasswordHash, "s3cret-pass"))

	stored, err := accounts.GetByUsername(context.Background(), "frank")
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)

	require.Len(t, mailer.messages, 1)
	msg := mailer.messages[0]
	assert.Equal(t, "frank@example.com", msg.To)
	assert.Contains(t, msg.HTML, "http://localhost:8080/users/verify-now/"+*created.VerificationCode)
}

func TestService_Register_Duplicates(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerTestAccount(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "frank",
		Email:    "other@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, account.ErrDuplicateUsername)

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "other",
		Email:    "frank@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, account.ErrDuplicateEmail)
}

func TestService_Register_SurvivesMailerFailure(t *testing.T) {
	svc, _, mailer := newTestService(t)
	mailer.failWith = errors.New("queue unavailable")

	created, err := svc.Register(context.Background(), RegisterInput{
		Username: "frank",
		Email:    "frank@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotNil(t, created)
}

func TestService_Verify(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := registerTestAccount(t, svc)
	code := *created.VerificationCode

	verified, err := svc.Verify(context.Background(), code)
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Nil(t, verified.VerificationCode)

	// The code is single-use
	_, err = svc.Verify(context.Background(), code)
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)
}

func TestService_Verify_UnknownCode(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Verify(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)
}

func TestService_Authenticate(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := registerTestAccount(t, svc)

	info, token, err := svc.Authenticate(context.Background(), "frank", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, created.ID, info.ID)
	assert.NotEmpty(t, token)
}

func TestService_Authenticate_UnverifiedAccountAllowed(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerTestAccount(t, svc)

	info, _, err := svc.Authenticate(context.Background(), "frank", "s3cret-pass")
	require.NoError(t, err)
	assert.False(t, info.Verified)
}

func TestService_Authenticate_Failures(t *testing.T) {
	svc, _, _ := newTestService(t)
	registerTestAccount(t, svc)

	_, _, err := svc.Authenticate(context.Background(), "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUsernameNotFound)

	_, _, err = svc.Authenticate(context.Background(), "frank", "wrong-pass")
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestService_RequestPasswordReset(t *testing.T) {
	svc, accounts, mailer := newTestService(t)
	created := registerTestAccount(t, svc)

	err := svc.RequestPasswordReset(context.Background(), "frank@example.com")
	require.NoError(t, err)

	stored := accounts.byID[created.ID]
	require.NotNil(t, stored.ResetPasswordToken)
	require.NotNil(t, stored.ResetPasswordExpiresIn)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.ResetPasswordExpiresIn, 5*time.Second)

	// The registration email plus the reset email
	require.Len(t, mailer.messages, 2)
	resetMsg := mailer.messages[1]
	assert.Equal(t, "frank@example.com", resetMsg.To)
	assert.Contains(t, resetMsg.HTML, "http://localhost:8080/users/reset-password-now/"+*stored.ResetPasswordToken)
}

func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestService_ValidateResetToken(t *testing.T) {
	svc, accounts, _ := newTestService(t)
	created := registerTestAccount(t, svc)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "frank@example.com"))
	token := *accounts.byID[created.ID].ResetPasswordToken

	valid, err := svc.ValidateResetToken(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = svc.ValidateResetToken(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.False(t, valid)

	// An expired token is as good as no token
	expired := time.Now().Add(-time.Minute)
	accounts.byID[created.ID].ResetPasswordExpiresIn = &expired

	valid, err = svc.ValidateResetToken(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestService_ResetPassword(t *testing.T) {
	svc, accounts, mailer := newTestService(t)
	created := registerTestAccount(t, svc)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "frank@example.com"))
	token := *accounts.byID[created.ID].ResetPasswordToken

	err := svc.ResetPassword(context.Background(), token, "new-password")
	require.NoError(t, err)

	_, _, err = svc.Authenticate(context.Background(), "frank", "s3cret-pass")
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	_, _, err = svc.Authenticate(context.Background(), "frank", "new-password")
	assert.NoError(t, err)

	// Token is cleared on use
	err = svc.ResetPassword(context.Background(), token, "another-password")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)

	// Registration, reset link, changed notice
	require.Len(t, mailer.messages, 3)
	assert.Contains(t, strings.ToLower(mailer.messages[2].Subject), "password")
}

func TestService_ResetPassword_ExpiredToken(t *testing.T) {
	svc, accounts, _ := newTestService(t)
	created := registerTestAccount(t, svc)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "frank@example.com"))
	token := *accounts.byID[created.ID].ResetPasswordToken

	expired := time.Now().Add(-time.Minute)
	accounts.byID[created.ID].ResetPasswordExpiresIn = &expired

	err := svc.ResetPassword(context.Background(), token, "new-password")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}
