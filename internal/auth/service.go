package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloghub/bloghub/internal/account"
	"github.com/bloghub/bloghub/internal/email"
	"github.com/bloghub/bloghub/internal/logging"
)

// Service implements the account lifecycle: registration, verification,
// authentication and the password reset flow.
type Service struct {
	accounts             AccountRepository
	mailer               email.Mailer
	tokens               TokenService
	logger               *logging.Logger
	sessionTokenDuration time.Duration
	resetTokenTTL        time.Duration
	baseURL              string
}

func NewService(
	accounts AccountRepository,
	mailer email.Mailer,
	tokens TokenService,
	logger *logging.Logger,
	sessionTokenDuration time.Duration,
	resetTokenTTL time.Duration,
	baseURL string,
) *Service {
	return &Service{
		accounts:             accounts,
		mailer:               mailer,
		tokens:               tokens,
		logger:               logger,
		sessionTokenDuration: sessionTokenDuration,
		resetTokenTTL:        resetTokenTTL,
		baseURL:              baseURL,
	}
}

// RegisterInput carries a validated registration request.
type RegisterInput struct {
	Username string
	Email    string
	Name     string
	Password string
}

// Register creates a new unverified account and queues the verification email.
// Duplicate usernames and emails surface as account.ErrDuplicateUsername and
// account.ErrDuplicateEmail, raised by the database unique indexes.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*account.Account, error) {
	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationCode, err := generateOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	created, err := s.accounts.Create(ctx, account.CreateParams{
		Username:         input.Username,
		Email:            input.Email,
		Name:             input.Name,
		PasswordHash:     passwordHash,
		VerificationCode: verificationCode,
	})
	if err != nil {
		if errors.Is(err, account.ErrDuplicateUsername) || errors.Is(err, account.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Fire-and-forget: a failed dispatch never rolls back the registration.
	link := s.baseURL + "users/verify-now/" + verificationCode
	msg := email.VerificationMessage(created.Email, created.Username, link)
	if err := s.mailer.Enqueue(ctx, msg); err != nil {
		s.logger.Warn("failed to enqueue verification email", "email", created.Email, "error", err.Error())
	}

	return created, nil
}

// Verify exchanges a verification code for the verified state. The code is
// single-use: once cleared, the same code fails with ErrInvalidVerificationCode.
func (s *Service) Verify(ctx context.Context, code string) (*account.Account, error) {
	verified, err := s.accounts.VerifyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrInvalidVerificationCode
		}
		return nil, fmt.Errorf("failed to verify account: %w", err)
	}

	return verified, nil
}

// Authenticate checks the credentials and issues a session token. Note that a
// not-yet-verified account can still authenticate.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*account.Info, string, error) {
	acc, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, "", ErrUsernameNotFound
		}
		return nil, "", fmt.Errorf("failed to get account: %w", err)
	}

	if !verifyPassword(acc.PasswordHash, password) {
		return nil, "", ErrIncorrectPassword
	}

	token, err := s.tokens.CreateToken(acc.ID, acc.Username, s.sessionTokenDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	return acc.Info(), token, nil
}

// RequestPasswordReset stores a fresh reset token with an expiry and queues
// the reset-link email.
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	acc, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	token, err := generateOpaqueToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(s.resetTokenTTL)
	if err := s.accounts.SetResetToken(ctx, acc.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := s.baseURL + "users/reset-password-now/" + token
	msg := email.PasswordResetMessage(acc.Email, acc.Username, link)
	if err := s.mailer.Enqueue(ctx, msg); err != nil {
		s.logger.Warn("failed to enqueue password reset email", "email", acc.Email, "error", err.Error())
	}

	return nil
}

// ValidateResetToken reports whether the token matches a stored one whose
// expiry is still in the future.
func (s *Service) ValidateResetToken(ctx context.Context, token string) (bool, error) {
	_, err := s.accounts.FindByValidResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to validate reset token: %w", err)
	}
	return true, nil
}

// ResetPassword rotates the credentials for the account holding a valid reset
// token. The token and its expiry are cleared in the same statement, so a
// second attempt with the same token fails.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	acc, err := s.accounts.CompleteReset(ctx, token, passwordHash)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to complete password reset: %w", err)
	}

	msg := email.PasswordChangedMessage(acc.Email, acc.Username)
	if err := s.mailer.Enqueue(ctx, msg); err != nil {
		s.logger.Warn("failed to enqueue password changed email", "email", acc.Email, "error", err.Error())
	}

	return nil
}
