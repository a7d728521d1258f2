package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloghub/bloghub/internal/account"
)

// TokenClaims represents the claims stored in a session token
type TokenClaims struct {
	AccountID string    `json:"account_id"` // UUID stored as string in token
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for session token creation and validation.
// Implementations include PasetoService (PASETO v4.local) and JWTService (HS256).
type TokenService interface {
	CreateToken(accountID uuid.UUID, username string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// AccountRepository is the persistence surface the auth service needs from
// the account registry.
type AccountRepository interface {
	Create(ctx context.Context, params account.CreateParams) (*account.Account, error)
	GetByUsername(ctx context.Context, username string) (*account.Account, error)
	GetByEmail(ctx context.Context, email string) (*account.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
	VerifyByCode(ctx context.Context, code string) (*account.Account, error)
	SetResetToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error
	FindByValidResetToken(ctx context.Context, token string) (*account.Account, error)
	CompleteReset(ctx context.Context, token, passwordHash string) (*account.Account, error)
}
