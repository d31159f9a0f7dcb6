// internal/users/models.go
package users

import "time"

// User is a row in the users table.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	DisplayName  string     `db:"display_name" json:"display_name"`
	Email        string     `db:"email" json:"-"`
	Bio          *string    `db:"bio" json:"bio,omitempty"`
	Location     *string    `db:"location" json:"location,omitempty"`
	Website      *string    `db:"website" json:"website,omitempty"`
	AvatarURL    *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	BannerURL    *string    `db:"banner_url" json:"banner_url,omitempty"`
	PrivacyLevel string     `db:"privacy_level" json:"privacy_level"`
	IsVerified   bool       `db:"is_verified" json:"is_verified"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// UserProfile is the public view of a user plus computed graph counts.
type UserProfile struct {
	User
	FollowerCount  int  `json:"follower_count"`
	FollowingCount int  `json:"following_count"`
	PostCount      int  `json:"post_count"`
	IsFollowing    bool `json:"is_following"`
}

// FollowerEntry is a compact user summary returned by follower/following
// listings.
type FollowerEntry struct {
	ID          int64   `db:"id" json:"id"`
	Username    string  `db:"username" json:"username"`
	DisplayName string  `db:"display_name" json:"display_name"`
	AvatarURL   *string `db:"avatar_url" json:"avatar_url,omitempty"`
}

type UpdateProfileRequest struct {
	DisplayName  *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
	Bio          *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location     *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url"`
	PrivacyLevel *string `json:"privacy_level,omitempty" validate:"omitempty,max=20"`
}

type FollowResponse struct {
	Message       string `json:"message"`
	FollowerCount int    `json:"follower_count"`
}
