// internal/users/service_test.go
package users

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	mu      sync.Mutex
	users   map[int64]*User
	follows map[[2]int64]bool // [follower, followee]
}

func newFakeRepository(userIDs ...int64) *fakeRepository {
	repo := &fakeRepository{
		users:   make(map[int64]*User),
		follows: make(map[[2]int64]bool),
	}
	for _, id := range userIDs {
		repo.users[id] = &User{ID: id, Username: "user", DisplayName: "User", PrivacyLevel: "public"}
	}
	return repo
}

func (r *fakeRepository) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeRepository) GetProfile(ctx context.Context, userID, viewerID int64) (*UserProfile, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	profile := &UserProfile{User: *user}
	for edge := range r.follows {
		if edge[1] == userID {
			profile.FollowerCount++
		}
		if edge[0] == userID {
			profile.FollowingCount++
		}
	}
	profile.IsFollowing = r.follows[[2]int64{viewerID, userID}]
	return profile, nil
}

func (r *fakeRepository) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Website != nil {
		user.Website = req.Website
	}
	if req.PrivacyLevel != nil {
		user.PrivacyLevel = *req.PrivacyLevel
	}
	return nil
}

func (r *fakeRepository) UpdateAvatarURL(ctx context.Context, userID int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.AvatarURL = &url
	return nil
}

func (r *fakeRepository) UpdateBannerURL(ctx context.Context, userID int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.BannerURL = &url
	return nil
}

func (r *fakeRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[userID]
	return ok, nil
}

func (r *fakeRepository) Follow(ctx context.Context, followerID, followeeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	edge := [2]int64{followerID, followeeID}
	if r.follows[edge] {
		return ErrAlreadyFollowed
	}
	r.follows[edge] = true
	return nil
}

func (r *fakeRepository) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	edge := [2]int64{followerID, followeeID}
	if !r.follows[edge] {
		return ErrNotFollowing
	}
	delete(r.follows, edge)
	return nil
}

func (r *fakeRepository) ListFollowers(ctx context.Context, userID int64) ([]*FollowerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := []*FollowerEntry{}
	for edge := range r.follows {
		if edge[1] == userID {
			entries = append(entries, &FollowerEntry{ID: edge[0]})
		}
	}
	return entries, nil
}

func (r *fakeRepository) ListFollowing(ctx context.Context, userID int64) ([]*FollowerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := []*FollowerEntry{}
	for edge := range r.follows {
		if edge[0] == userID {
			entries = append(entries, &FollowerEntry{ID: edge[1]})
		}
	}
	return entries, nil
}

func (r *fakeRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for edge := range r.follows {
		if edge[1] == userID {
			count++
		}
	}
	return count, nil
}

type fakeFollowNotifier struct {
	mu    sync.Mutex
	calls [][2]int64 // [recipient, actor]
}

func (n *fakeFollowNotifier) NotifyFollow(ctx context.Context, recipientID, actorID int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, [2]int64{recipientID, actorID})
	return nil
}

func TestFollowSelfRejected(t *testing.T) {
	svc := NewService(newFakeRepository(1), &fakeFollowNotifier{})

	_, err := svc.Follow(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollowMissingUser(t *testing.T) {
	svc := NewService(newFakeRepository(1), &fakeFollowNotifier{})

	_, err := svc.Follow(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFollowDuplicateRejected(t *testing.T) {
	svc := NewService(newFakeRepository(1, 2), &fakeFollowNotifier{})

	count, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = svc.Follow(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrAlreadyFollowed)

	// The duplicate attempt must not have inflated the count
	profile, err := svc.GetProfile(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.FollowerCount)
}

func TestFollowUnfollowRestoresState(t *testing.T) {
	repo := newFakeRepository(1, 2)
	svc := NewService(repo, &fakeFollowNotifier{})

	_, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)

	count, err := svc.Unfollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = svc.Unfollow(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrNotFollowing)
}

func TestFollowNotifiesFollowee(t *testing.T) {
	notifier := &fakeFollowNotifier{}
	svc := NewService(newFakeRepository(1, 2), notifier)

	_, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, [2]int64{2, 1}, notifier.calls[0])
}

func TestUnfollowDoesNotNotify(t *testing.T) {
	notifier := &fakeFollowNotifier{}
	svc := NewService(newFakeRepository(1, 2), notifier)

	_, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	_, err = svc.Unfollow(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Len(t, notifier.calls, 1)
}

func TestProfileCountsAndIsFollowing(t *testing.T) {
	repo := newFakeRepository(1, 2, 3)
	svc := NewService(repo, &fakeFollowNotifier{})

	_, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)
	_, err = svc.Follow(context.Background(), 3, 2)
	require.NoError(t, err)
	_, err = svc.Follow(context.Background(), 2, 3)
	require.NoError(t, err)

	profile, err := svc.GetProfile(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.FollowerCount)
	assert.Equal(t, 1, profile.FollowingCount)
	assert.True(t, profile.IsFollowing)

	profile, err = svc.GetProfile(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.False(t, profile.IsFollowing)
}

func TestListFollowersMissingUser(t *testing.T) {
	svc := NewService(newFakeRepository(1), &fakeFollowNotifier{})

	_, err := svc.ListFollowers(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfilePartialFields(t *testing.T) {
	repo := newFakeRepository(1)
	svc := NewService(repo, &fakeFollowNotifier{})

	name := "New Name"
	profile, err := svc.UpdateProfile(context.Background(), 1, &UpdateProfileRequest{DisplayName: &name})
	require.NoError(t, err)

	assert.Equal(t, "New Name", profile.DisplayName)
	assert.Nil(t, profile.Bio)
}
