// internal/users/service.go
package users

import (
	"context"
	"errors"
	"fmt"
	"log"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

// Notifier lets the users service emit follow notifications without
// importing the notifications package directly.
type Notifier interface {
	NotifyFollow(ctx context.Context, recipientID, actorID int64) error
}

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) GetProfile(ctx context.Context, userID, viewerID int64) (*UserProfile, error) {
	return s.repo.GetProfile(ctx, userID, viewerID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*UserProfile, error) {
	if err := s.repo.UpdateProfile(ctx, userID, req); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, userID, userID)
}

func (s *Service) Follow(ctx context.Context, followerID, followeeID int64) (int, error) {
	if followerID == followeeID {
		return 0, ErrSelfFollow
	}

	exists, err := s.repo.Exists(ctx, followeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to check followee: %w", err)
	}
	if !exists {
		return 0, ErrUserNotFound
	}

	if err := s.repo.Follow(ctx, followerID, followeeID); err != nil {
		return 0, err
	}

	recordFollow("follow")

	if s.notifier != nil {
		if err := s.notifier.NotifyFollow(ctx, followeeID, followerID); err != nil {
			log.Printf("Failed to send follow notification to user %d: %v", followeeID, err)
		}
	}

	return s.repo.CountFollowers(ctx, followeeID)
}

func (s *Service) Unfollow(ctx context.Context, followerID, followeeID int64) (int, error) {
	if followerID == followeeID {
		return 0, ErrSelfFollow
	}

	if err := s.repo.Unfollow(ctx, followerID, followeeID); err != nil {
		return 0, err
	}

	recordFollow("unfollow")

	return s.repo.CountFollowers(ctx, followeeID)
}

func (s *Service) ListFollowers(ctx context.Context, userID int64) ([]*FollowerEntry, error) {
	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	return s.repo.ListFollowers(ctx, userID)
}

func (s *Service) ListFollowing(ctx context.Context, userID int64) ([]*FollowerEntry, error) {
	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	return s.repo.ListFollowing(ctx, userID)
}
