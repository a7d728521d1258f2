package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/bloghub/bloghub/internal/database"
)

var (
	ErrNotFound          = errors.New("account not found")
	ErrDuplicateUsername = errors.New("username is already taken")
	ErrDuplicateEmail    = errors.New("email is already registered")
)

// Repository handles account persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// CreateParams carries everything needed to insert a new, unverified account.
type CreateParams struct {
	Username         string
	Email            string
	Name             string
	PasswordHash     string
	VerificationCode string
}

// Create inserts a new unverified account. There is deliberately no existence
// check beforehand: the unique indexes decide, so two concurrent registrations
// for the same username cannot both succeed.
func (r *Repository) Create(ctx context.Context, params CreateParams) (*Account, error) {
	now := time.Now()
	dbAccount := &database.Account{
		ID:               uuid.New(),
		Username:         params.Username,
		Email:            params.Email,
		Name:             params.Name,
		PasswordHash:     params.PasswordHash,
		Verified:         false,
		VerificationCode: &params.VerificationCode,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := r.db.NewInsert().
		Model(dbAccount).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return mapDBAccountToModel(dbAccount), nil
}

// GetByUsername retrieves an account by username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Account, error) {
	return r.getByField(ctx, "username", username)
}

// GetByEmail retrieves an account by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return r.getByField(ctx, "email", email)
}

// GetByID retrieves an account by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.getByField(ctx, "id", id)
}

func (r *Repository) getByField(ctx context.Context, column string, value any) (*Account, error) {
	dbAccount := new(database.Account)
	err := r.db.NewSelect().
		Model(dbAccount).
		Where("? = ?", bun.Ident(column), value).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by %s: %w", column, err)
	}

	return mapDBAccountToModel(dbAccount), nil
}

// VerifyByCode flips the account matching the code to verified and clears the
// code in a single statement. Zero rows affected means the code is unknown or
// already used; verification is single-use by construction.
func (r *Repository) VerifyByCode(ctx context.Context, code string) (*Account, error) {
	dbAccount := new(database.Account)
	result, err := r.db.NewUpdate().
		Model(dbAccount).
		Set("verified = ?", true).
		Set("verification_code = NULL").
		Set("updated_at = NOW()").
		Where("verification_code = ?", code).
		Where("verified = ?", false).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to verify account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBAccountToModel(dbAccount), nil
}

// SetResetToken stores a reset token and its expiry on the account.
func (r *Repository) SetResetToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
	result, err := r.db.NewUpdate().
		Model((*database.Account)(nil)).
		Set("reset_password_token = ?", token).
		Set("reset_password_expires_in = ?", expiresAt).
		Set("updated_at = NOW()").
		Where("id = ?", accountID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// FindByValidResetToken returns the account holding the token, but only while
// the stored expiry lies in the future. Expiry is never swept; it is checked
// lazily here.
func (r *Repository) FindByValidResetToken(ctx context.Context, token string) (*Account, error) {
	dbAccount := new(database.Account)
	err := r.db.NewSelect().
		Model(dbAccount).
		Where("reset_password_token = ?", token).
		Where("reset_password_expires_in > NOW()").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by reset token: %w", err)
	}

	return mapDBAccountToModel(dbAccount), nil
}

// CompleteReset replaces the password hash and clears the reset token and its
// expiry, guarded by the same validity condition as FindByValidResetToken.
// A second attempt with the same token affects zero rows and fails.
func (r *Repository) CompleteReset(ctx context.Context, token, passwordHash string) (*Account, error) {
	dbAccount := new(database.Account)
	result, err := r.db.NewUpdate().
		Model(dbAccount).
		Set("password_hash = ?", passwordHash).
		Set("reset_password_token = NULL").
		Set("reset_password_expires_in = NULL").
		Set("updated_at = NOW()").
		Where("reset_password_token = ?", token).
		Where("reset_password_expires_in > NOW()").
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to complete password reset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBAccountToModel(dbAccount), nil
}

// mapUniqueViolation translates a Postgres unique violation into the matching
// duplicate error, or returns nil if err is something else.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return nil
	}
	switch {
	case strings.Contains(pqErr.Constraint, "username"):
		return ErrDuplicateUsername
	case strings.Contains(pqErr.Constraint, "email"):
		return ErrDuplicateEmail
	default:
		return nil
	}
}

// mapDBAccountToModel converts database model to domain model
func mapDBAccountToModel(dba *database.Account) *Account {
	return &Account{
		ID:                     dba.ID,
		Username:               dba.Username,
		Email:                  dba.Email,
		Name:                   dba.Name,
		PasswordHash:           dba.PasswordHash,
		Verified:               dba.Verified,
		VerificationCode:       dba.VerificationCode,
		ResetPasswordToken:     dba.ResetPasswordToken,
		ResetPasswordExpiresIn: dba.ResetPasswordExpiresIn,
		CreatedAt:              dba.CreatedAt,
		UpdatedAt:              dba.UpdatedAt,
	}
}
