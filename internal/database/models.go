package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the persistence model for a user account. The username and email
// unique constraints are the sole source of duplicate-registration errors.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID                     uuid.UUID  `bun:"id,pk,type:uuid"`
	Username               string     `bun:"username,notnull,unique"`
	Email                  string     `bun:"email,notnull,unique"`
	Name                   string     `bun:"name"`
	PasswordHash           string     `bun:"password_hash,notnull"`
	Verified               bool       `bun:"verified,notnull,default:false"`
	VerificationCode       *string    `bun:"verification_code"`
	ResetPasswordToken     *string    `bun:"reset_password_token"`
	ResetPasswordExpiresIn *time.Time `bun:"reset_password_expires_in"`
	CreatedAt              time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt              time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// Profile extends an account one-to-one with an avatar and social links.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:pr"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	AccountID uuid.UUID `bun:"account_id,notnull,unique,type:uuid"`
	Avatar    string    `bun:"avatar"`
	Facebook  string    `bun:"facebook"`
	Twitter   string    `bun:"twitter"`
	Linkedin  string    `bun:"linkedin"`
	Instagram string    `bun:"instagram"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Account *Account `bun:"rel:belongs-to,join:account_id=id"`
}

// Post is authored content. LikeCount is kept denormalized next to the
// post_likes rows that actually enforce one-like-per-account.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	AuthorID  uuid.UUID `bun:"author_id,notnull,type:uuid"`
	Title     string    `bun:"title,notnull"`
	Slug      string    `bun:"slug,notnull"`
	Content   string    `bun:"content,notnull"`
	PostImage string    `bun:"post_image"`
	LikeCount int       `bun:"like_count,notnull,default:0"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Author   *Account       `bun:"rel:belongs-to,join:author_id=id"`
	Likes    []*PostLike    `bun:"rel:has-many,join:id=post_id"`
	Comments []*PostComment `bun:"rel:has-many,join:id=post_id"`
}

// PostLike records one account liking one post. The unique pair constraint is
// what makes a duplicate like impossible, even under concurrent requests.
type PostLike struct {
	bun.BaseModel `bun:"table:post_likes,alias:pl"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	PostID    uuid.UUID `bun:"post_id,notnull,type:uuid,unique:post_likes_post_account_key"`
	AccountID uuid.UUID `bun:"account_id,notnull,type:uuid,unique:post_likes_post_account_key"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// PostComment is a comment attached to a post.
type PostComment struct {
	bun.BaseModel `bun:"table:post_comments,alias:pc"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	PostID    uuid.UUID `bun:"post_id,notnull,type:uuid"`
	AccountID uuid.UUID `bun:"account_id,notnull,type:uuid"`
	Text      string    `bun:"text,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`

	Account *Account `bun:"rel:belongs-to,join:account_id=id"`
}
