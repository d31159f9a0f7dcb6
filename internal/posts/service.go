// internal/posts/service.go
package posts

import (
	"context"
	"errors"
	"log"
	"strings"
)

// FeedPageSize is the fixed feed window
const FeedPageSize = 20

const maxMediaPerPost = 10

var (
	ErrMissingContent = errors.New("content and post type are required")
	ErrTooMuchMedia   = errors.New("maximum 10 media files allowed per post")
)

// Notifier fans out in-app notifications for post activity. The notifications
// module provides the implementation; a nil notifier disables fan-out.
type Notifier interface {
	NotifyLike(ctx context.Context, recipientID, actorID, postID int64) error
	NotifyComment(ctx context.Context, recipientID, actorID, postID int64) error
	NotifyMention(ctx context.Context, recipientID, actorID, postID int64) error
}

type Service struct {
	repo     Repository
	cache    *FeedCache
	notifier Notifier
}

func NewService(repo Repository, cache *FeedCache, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
	}
}

func (s *Service) CreatePost(ctx context.Context, authorID int64, req *CreatePostRequest) (*Post, error) {
	if err := s.validateCreatePost(req); err != nil {
		return nil, err
	}

	post := &Post{
		AuthorID:    &authorID,
		Content:     req.Content,
		PostType:    req.PostType,
		IsMonetized: req.IsMonetized,
		Hashtags:    normalizeHashtags(req.Hashtags),
		Mentions:    filterMentions(req.Mentions),
	}
	if req.Location != "" {
		location := req.Location
		post.Location = &location
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	if len(req.MediaURLs) > 0 {
		if err := s.repo.AddPostMedia(ctx, post.ID, req.MediaURLs); err != nil {
			return nil, err
		}
	}

	s.cache.Invalidate(ctx)
	postsCreatedTotal.Inc()

	if s.notifier != nil {
		for _, mentioned := range post.Mentions {
			if mentioned != authorID {
				if err := s.notifier.NotifyMention(ctx, mentioned, authorID, post.ID); err != nil {
					log.Printf("Failed to send mention notification to user %d: %v", mentioned, err)
				}
			}
		}
	}

	return s.repo.GetPostByID(ctx, post.ID, authorID)
}

// GetFeed returns the newest FeedPageSize posts. viewerID 0 means anonymous:
// is_liked stays false for every post.
func (s *Service) GetFeed(ctx context.Context, viewerID int64) ([]Post, error) {
	recordFeedRequest(viewerID != 0)

	if posts, ok := s.cache.Get(ctx, viewerID); ok {
		return posts, nil
	}

	posts, err := s.repo.GetFeed(ctx, viewerID, FeedPageSize)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, viewerID, posts)
	return posts, nil
}

func (s *Service) GetPost(ctx context.Context, postID, viewerID int64) (*Post, error) {
	post, err := s.repo.GetPostByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	// View counting is fire-and-forget; a failed increment never fails the read
	_ = s.repo.IncrementViewCount(ctx, postID)

	return post, nil
}

// UpdatePost applies partial fields. A missing post and an ownership mismatch
// are reported identically to avoid leaking post existence.
func (s *Service) UpdatePost(ctx context.Context, postID, callerID int64, req *UpdatePostRequest) (*Post, error) {
	if req.Mentions != nil {
		filtered := []int64(filterMentions(*req.Mentions))
		req.Mentions = &filtered
	}

	updated, err := s.repo.UpdatePost(ctx, postID, callerID, req)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrPostNotFound
	}

	s.cache.Invalidate(ctx)
	return s.repo.GetPostByID(ctx, postID, callerID)
}

func (s *Service) DeletePost(ctx context.Context, postID, callerID int64) error {
	deleted, err := s.repo.DeletePost(ctx, postID, callerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPostNotFound
	}

	s.cache.Invalidate(ctx)
	return nil
}

// React toggles the caller's reaction and returns the resulting liked state
func (s *Service) React(ctx context.Context, postID, callerID int64, reactionType string) (bool, error) {
	if reactionType == "" {
		reactionType = "like"
	}

	liked, err := s.repo.ToggleLike(ctx, postID, callerID, reactionType)
	if err != nil {
		return false, err
	}

	recordReaction(liked)
	s.cache.Invalidate(ctx)

	if liked && s.notifier != nil {
		if authorID, err := s.repo.GetPostAuthor(ctx, postID); err == nil &&
			authorID != nil && *authorID != callerID {
			if err := s.notifier.NotifyLike(ctx, *authorID, callerID, postID); err != nil {
				log.Printf("Failed to send like notification to user %d: %v", *authorID, err)
			}
		}
	}

	return liked, nil
}

func (s *Service) AddComment(ctx context.Context, postID, callerID int64, req *CommentRequest) (*Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.New("comment content cannot be empty")
	}

	comment := &Comment{
		PostID:  postID,
		UserID:  callerID,
		Content: req.Content,
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	commentsCreatedTotal.Inc()
	s.cache.Invalidate(ctx)

	if s.notifier != nil {
		if authorID, err := s.repo.GetPostAuthor(ctx, postID); err == nil &&
			authorID != nil && *authorID != callerID {
			if err := s.notifier.NotifyComment(ctx, *authorID, callerID, postID); err != nil {
				log.Printf("Failed to send comment notification to user %d: %v", *authorID, err)
			}
		}
	}

	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	if _, err := s.repo.GetPostAuthor(ctx, postID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, postID, 100)
}

func (s *Service) validateCreatePost(req *CreatePostRequest) error {
	if strings.TrimSpace(req.Content) == "" && req.PostType == "" {
		return ErrMissingContent
	}

	if req.PostType == "" {
		req.PostType = "text"
	}

	if len(req.MediaURLs) > maxMediaPerPost {
		return ErrTooMuchMedia
	}

	return nil
}

// filterMentions silently drops references that are not well-formed instead
// of rejecting the request, mirroring how invalid mention ids have always
// been handled
func filterMentions(mentions []int64) []int64 {
	filtered := make([]int64, 0, len(mentions))
	for _, id := range mentions {
		if id > 0 {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

func normalizeHashtags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	return normalized
}
