package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 30)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 254), is.Email),
		validation.Field(&r.Name, validation.Length(0, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

// AuthenticateRequest represents the login request body
type AuthenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r AuthenticateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// ResetRequest represents the password reset initiation body
type ResetRequest struct {
	Email string `json:"email"`
}

func (r ResetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// ResetNowRequest represents the password reset completion body
type ResetNowRequest struct {
	ResetPasswordToken string `json:"resetPasswordToken"`
	Password           string `json:"password"`
}

func (r ResetNowRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ResetPasswordToken, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}
