// internal/users/repository.go
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyFollowed = errors.New("already following this user")
	ErrNotFollowing    = errors.New("not following this user")
)

type Repository interface {
	GetUserByID(ctx context.Context, userID int64) (*User, error)
	GetProfile(ctx context.Context, userID, viewerID int64) (*UserProfile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) error
	UpdateAvatarURL(ctx context.Context, userID int64, url string) error
	UpdateBannerURL(ctx context.Context, userID int64, url string) error
	Exists(ctx context.Context, userID int64) (bool, error)

	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	ListFollowers(ctx context.Context, userID int64) ([]*FollowerEntry, error)
	ListFollowing(ctx context.Context, userID int64) ([]*FollowerEntry, error)
	CountFollowers(ctx context.Context, userID int64) (int, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, username, display_name, email, bio, location, website,
		       avatar_url, banner_url, privacy_level, is_verified, created_at, updated_at
		FROM users WHERE id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID, viewerID int64) (*UserProfile, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &UserProfile{User: *user}

	// Counts are computed from the follows table on every read rather than
	// maintained as denormalized columns, so they can never drift.
	err = r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE followee_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1),
			(SELECT COUNT(*) FROM posts WHERE author_id = $1),
			EXISTS(SELECT 1 FROM follows WHERE follower_id = $2 AND followee_id = $1)`,
		userID, viewerID,
	).Scan(&profile.FollowerCount, &profile.FollowingCount, &profile.PostCount, &profile.IsFollowing)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile counts: %w", err)
	}

	return profile, nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) error {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.DisplayName != nil {
		addClause("display_name", *req.DisplayName)
	}
	if req.Bio != nil {
		addClause("bio", *req.Bio)
	}
	if req.Location != nil {
		addClause("location", *req.Location)
	}
	if req.Website != nil {
		addClause("website", *req.Website)
	}
	if req.PrivacyLevel != nil {
		addClause("privacy_level", *req.PrivacyLevel)
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argIdx)
	args = append(args, userID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateAvatarURL(ctx context.Context, userID int64, url string) error {
	return r.updateImageColumn(ctx, userID, "avatar_url", url)
}

func (r *postgresRepository) UpdateBannerURL(ctx context.Context, userID int64, url string) error {
	return r.updateImageColumn(ctx, userID, "banner_url", url)
}

func (r *postgresRepository) updateImageColumn(ctx context.Context, userID int64, column, url string) error {
	query := fmt.Sprintf("UPDATE users SET %s = $1, updated_at = NOW() WHERE id = $2", column)
	result, err := r.db.ExecContext(ctx, query, url, userID)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", userID)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// Follow inserts a single edge into the follows table. The primary key on
// (follower_id, followee_id) makes a duplicate follow a constraint violation
// rather than a read-then-write race.
func (r *postgresRepository) Follow(ctx context.Context, followerID, followeeID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES ($1, $2, NOW())`, followerID, followeeID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return ErrAlreadyFollowed
			case "foreign_key_violation":
				return ErrUserNotFound
			}
		}
		return fmt.Errorf("failed to follow user: %w", err)
	}
	return nil
}

func (r *postgresRepository) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2",
		followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFollowing
	}
	return nil
}

func (r *postgresRepository) ListFollowers(ctx context.Context, userID int64) ([]*FollowerEntry, error) {
	entries := []*FollowerEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return entries, nil
}

func (r *postgresRepository) ListFollowing(ctx context.Context, userID int64) ([]*FollowerEntry, error) {
	entries := []*FollowerEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return entries, nil
}

func (r *postgresRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM follows WHERE followee_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}
