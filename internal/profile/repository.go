package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/bloghub/bloghub/internal/account"
	"github.com/bloghub/bloghub/internal/database"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrAlreadyExists = errors.New("profile already exists for this account")
)

// Repository handles profile persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Fields carries the mutable profile attributes.
type Fields struct {
	Avatar    string
	Facebook  string
	Twitter   string
	Linkedin  string
	Instagram string
}

// Create inserts a profile for the account. The unique index on account_id
// keeps it one-to-one.
func (r *Repository) Create(ctx context.Context, accountID uuid.UUID, fields Fields) (*Profile, error) {
	now := time.Now()
	dbProfile := &database.Profile{
		ID:        uuid.New(),
		AccountID: accountID,
		Avatar:    fields.Avatar,
		Facebook:  fields.Facebook,
		Twitter:   fields.Twitter,
		Linkedin:  fields.Linkedin,
		Instagram: fields.Instagram,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.NewInsert().
		Model(dbProfile).
		Returning("*").
		Exec(ctx)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return mapDBProfileToModel(dbProfile), nil
}

// GetByAccountID retrieves a profile with its account relation loaded.
func (r *Repository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	dbProfile := new(database.Profile)
	err := r.db.NewSelect().
		Model(dbProfile).
		Relation("Account").
		Where("pr.account_id = ?", accountID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return mapDBProfileToModel(dbProfile), nil
}

// Update replaces the profile fields for the account. An empty avatar keeps
// the existing one.
func (r *Repository) Update(ctx context.Context, accountID uuid.UUID, fields Fields) (*Profile, error) {
	q := r.db.NewUpdate().
		Model((*database.Profile)(nil)).
		Set("facebook = ?", fields.Facebook).
		Set("twitter = ?", fields.Twitter).
		Set("linkedin = ?", fields.Linkedin).
		Set("instagram = ?", fields.Instagram).
		Set("updated_at = NOW()").
		Where("account_id = ?", accountID)

	if fields.Avatar != "" {
		q = q.Set("avatar = ?", fields.Avatar)
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByAccountID(ctx, accountID)
}

// mapDBProfileToModel converts database model to domain model
func mapDBProfileToModel(dbp *database.Profile) *Profile {
	p := &Profile{
		ID:        dbp.ID,
		AccountID: dbp.AccountID,
		Avatar:    dbp.Avatar,
		Facebook:  dbp.Facebook,
		Twitter:   dbp.Twitter,
		Linkedin:  dbp.Linkedin,
		Instagram: dbp.Instagram,
		CreatedAt: dbp.CreatedAt,
		UpdatedAt: dbp.UpdatedAt,
	}

	if dbp.Account != nil {
		p.Account = &account.Info{
			ID:        dbp.Account.ID,
			Username:  dbp.Account.Username,
			Email:     dbp.Account.Email,
			Name:      dbp.Account.Name,
			Verified:  dbp.Account.Verified,
			CreatedAt: dbp.Account.CreatedAt,
			UpdatedAt: dbp.Account.UpdatedAt,
		}
	}

	return p
}
