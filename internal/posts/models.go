// internal/posts/models.go
package posts

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID          int64          `json:"id" db:"id"`
	AuthorID    *int64         `json:"author_id" db:"author_id"` // NULL once the author is deleted
	Content     string         `json:"content" db:"content"`
	PostType    string         `json:"post_type" db:"post_type"`
	Location    *string        `json:"location,omitempty" db:"location"`
	IsMonetized bool           `json:"is_monetized" db:"is_monetized"`
	Hashtags    pq.StringArray `json:"hashtags" db:"hashtags"`
	Mentions    pq.Int64Array  `json:"mentions" db:"mentions"`

	LikeCount    int `json:"like_count" db:"like_count"`
	CommentCount int `json:"comment_count" db:"comment_count"`
	ShareCount   int `json:"share_count" db:"share_count"`
	ViewCount    int `json:"view_count" db:"view_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined fields
	Author    *AuthorSummary `json:"author,omitempty"`
	MediaURLs []string       `json:"media_urls"`
	IsLiked   bool           `json:"is_liked"`
}

// AuthorSummary is the denormalized author block attached to every post view
type AuthorSummary struct {
	ID          *int64 `json:"id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatar_url"`
	IsVerified  bool   `json:"is_verified"`
}

// deletedAuthor is the placeholder shown when the author reference is absent
func deletedAuthor() *AuthorSummary {
	return &AuthorSummary{
		ID:          nil,
		DisplayName: "Deleted User",
		Username:    "deleted_user",
		AvatarURL:   "/placeholder.svg",
		IsVerified:  false,
	}
}

type Comment struct {
	ID        int64     `json:"id" db:"id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Author *AuthorSummary `json:"author,omitempty"`
}

type CreatePostRequest struct {
	Content     string   `json:"content"`
	PostType    string   `json:"post_type" validate:"omitempty,oneof=text image media"`
	MediaURLs   []string `json:"media_urls,omitempty"`
	Location    string   `json:"location,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty"`
	Mentions    []int64  `json:"mentions,omitempty"`
	IsMonetized bool     `json:"is_monetized,omitempty"`
}

// UpdatePostRequest uses pointers for partial-update semantics: absent fields
// are left unchanged, never overwritten with zero values.
type UpdatePostRequest struct {
	Content     *string   `json:"content,omitempty"`
	PostType    *string   `json:"post_type,omitempty" validate:"omitempty,oneof=text image media"`
	MediaURLs   *[]string `json:"media_urls,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Hashtags    *[]string `json:"hashtags,omitempty"`
	Mentions    *[]int64  `json:"mentions,omitempty"`
	IsMonetized *bool     `json:"is_monetized,omitempty"`
}

type ReactRequest struct {
	ReactionType string `json:"reaction_type,omitempty" validate:"omitempty,oneof=like"`
}

type ReactResponse struct {
	Message string `json:"message"`
	IsLiked bool   `json:"is_liked"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type FeedResponse struct {
	Posts []Post `json:"posts"`
}
