package post

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloghub/bloghub/internal/account"
)

// Post is authored content with a slug derived from its title.
type Post struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	PostImage string    `json:"postImage,omitempty"`
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author   *account.Info `json:"author,omitempty"`
	Comments []*Comment    `json:"comments,omitempty"`
}

// Comment is a comment attached to a post.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	Account *account.Info `json:"account,omitempty"`
}
