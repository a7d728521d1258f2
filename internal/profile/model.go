package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloghub/bloghub/internal/account"
)

// Profile is the one-to-one extension of an account: avatar plus social links.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Avatar    string    `json:"avatar,omitempty"`
	Facebook  string    `json:"facebook,omitempty"`
	Twitter   string    `json:"twitter,omitempty"`
	Linkedin  string    `json:"linkedin,omitempty"`
	Instagram string    `json:"instagram,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Account *account.Info `json:"account,omitempty"`
}
