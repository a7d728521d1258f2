package post

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
	ErrNotFound     = errors.New("post not found")
	ErrAlreadyLiked = errors.New("post already liked by this account")
)

// Repository handles post persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Fields carries the mutable post attributes.
type Fields struct {
	Title     string
	Slug      string
	Content   string
	PostImage string
}

// Create inserts a new post.
func (r *Repository) Create(ctx context.Context, authorID uuid.UUID, fields Fields) (*Post, error) {
	now := time.Now()
	dbPost := &database.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     fields.Title,
		Slug:      fields.Slug,
		Content:   fields.Content,
		PostImage: fields.PostImage,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.NewInsert().
		Model(dbPost).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return mapDBPostToModel(dbPost), nil
}

// GetByID retrieves a post without relations.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	dbPost := new(database.Post)
	err := r.db.NewSelect().
		Model(dbPost).
		Where("p.id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return mapDBPostToModel(dbPost), nil
}

// GetBySlug retrieves a post with its author and comments loaded.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	dbPost := new(database.Post)
	err := r.db.NewSelect().
		Model(dbPost).
		Relation("Author").
		Relation("Comments", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("pc.created_at ASC")
		}).
		Relation("Comments.Account").
		Where("p.slug = ?", slug).
		OrderExpr("p.created_at DESC").
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by slug: %w", err)
	}

	return mapDBPostToModel(dbPost), nil
}

// List returns a page of posts, newest first, with authors loaded, plus the
// total post count.
func (r *Repository) List(ctx context.Context, page, limit int) ([]*Post, int, error) {
	var dbPosts []*database.Post

	total, err := r.db.NewSelect().
		Model(&dbPosts).
		Relation("Author").
		OrderExpr("p.created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]*Post, 0, len(dbPosts))
	for _, dbPost := range dbPosts {
		posts = append(posts, mapDBPostToModel(dbPost))
	}

	return posts, total, nil
}

// UpdateByAuthor replaces the post fields, guarded by the author. Zero rows
// affected means the post is gone (the handler checks ownership first).
func (r *Repository) UpdateByAuthor(ctx context.Context, id, authorID uuid.UUID, fields Fields) (*Post, error) {
	dbPost := new(database.Post)
	result, err := r.db.NewUpdate().
		Model(dbPost).
		Set("title = ?", fields.Title).
		Set("slug = ?", fields.Slug).
		Set("content = ?", fields.Content).
		Set("post_image = ?", fields.PostImage).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Where("author_id = ?", authorID).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBPostToModel(dbPost), nil
}

// Like records the account liking the post and bumps the counter in one
// transaction. The unique pair index on post_likes is the sole duplicate
// detector; there is no read-then-write check to race against.
func (r *Repository) Like(ctx context.Context, postID, accountID uuid.UUID) error {
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		like := &database.PostLike{
			ID:        uuid.New(),
			PostID:    postID,
			AccountID: accountID,
			CreatedAt: time.Now(),
		}

		if _, err := tx.NewInsert().Model(like).Exec(ctx); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrAlreadyLiked
			}
			return fmt.Errorf("failed to insert like: %w", err)
		}

		if _, err := tx.NewUpdate().
			Model((*database.Post)(nil)).
			Set("like_count = like_count + 1").
			Where("id = ?", postID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to bump like count: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrAlreadyLiked) {
			return ErrAlreadyLiked
		}
		return fmt.Errorf("failed to like post: %w", err)
	}

	return nil
}

// AddComment attaches a comment to the post.
func (r *Repository) AddComment(ctx context.Context, postID, accountID uuid.UUID, text string) (*Comment, error) {
	dbComment := &database.PostComment{
		ID:        uuid.New(),
		PostID:    postID,
		AccountID: accountID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	_, err := r.db.NewInsert().
		Model(dbComment).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return mapDBCommentToModel(dbComment), nil
}

// mapDBPostToModel converts database model to domain model
func mapDBPostToModel(dbp *database.Post) *Post {
	p := &Post{
		ID:        dbp.ID,
		AuthorID:  dbp.AuthorID,
		Title:     dbp.Title,
		Slug:      dbp.Slug,
		Content:   dbp.Content,
		PostImage: dbp.PostImage,
		LikeCount: dbp.LikeCount,
		CreatedAt: dbp.CreatedAt,
		UpdatedAt: dbp.UpdatedAt,
	}

	if dbp.Author != nil {
		p.Author = accountInfo(dbp.Author)
	}

	for _, dbc := range dbp.Comments {
		p.Comments = append(p.Comments, mapDBCommentToModel(dbc))
	}

	return p
}

func mapDBCommentToModel(dbc *database.PostComment) *Comment {
	c := &Comment{
		ID:        dbc.ID,
		AccountID: dbc.AccountID,
		Text:      dbc.Text,
		CreatedAt: dbc.CreatedAt,
	}
	if dbc.Account != nil {
		c.Account = accountInfo(dbc.Account)
	}
	return c
}

func accountInfo(dba *database.Account) *account.Info {
	return &account.Info{
		ID:        dba.ID,
		Username:  dba.Username,
		Email:     dba.Email,
		Name:      dba.Name,
		Verified:  dba.Verified,
		CreatedAt: dba.CreatedAt,
		UpdatedAt: dba.UpdatedAt,
	}
}
