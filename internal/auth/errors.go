package auth

import "errors"

var (
	ErrUsernameNotFound        = errors.New("username not found")
	ErrIncorrectPassword       = errors.New("incorrect password")
	ErrAccountNotFound         = errors.New("account not found")
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrResetTokenInvalid       = errors.New("password reset token is invalid or has expired")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
