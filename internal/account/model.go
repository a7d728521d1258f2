package account

import (
	"time"

	"github.com/google/uuid"
)

// Account is the domain view of a stored account. The hash and the opaque
// tokens never leave the package boundary in API responses.
type Account struct {
	ID                     uuid.UUID  `json:"id"`
	Username               string     `json:"username"`
	Email                  string     `json:"email"`
	Name                   string     `json:"name"`
	PasswordHash           string     `json:"-"`
	Verified               bool       `json:"verified"`
	VerificationCode       *string    `json:"-"`
	ResetPasswordToken     *string    `json:"-"`
	ResetPasswordExpiresIn *time.Time `json:"-"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// Info is the sanitized account view returned to clients and attached to the
// request context on authenticated routes.
type Info struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Info returns the sanitized view of the account.
func (a *Account) Info() *Info {
	return &Info{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Name:      a.Name,
		Verified:  a.Verified,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
