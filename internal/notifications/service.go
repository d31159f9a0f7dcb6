// internal/notifications/service.go
package notifications

import (
	"context"
	"fmt"
)

const listLimit = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FormatMessage renders the display text for a notification type. Unknown
// types fall through to a generic line instead of failing the whole listing.
func FormatMessage(notifType, actorName string) string {
	if actorName == "" {
		actorName = "Someone"
	}
	switch notifType {
	case TypeLike:
		return fmt.Sprintf("%s liked your post", actorName)
	case TypeComment:
		return fmt.Sprintf("%s commented on your post", actorName)
	case TypeFollow:
		return fmt.Sprintf("%s started following you", actorName)
	case TypeMention:
		return fmt.Sprintf("%s mentioned you in a post", actorName)
	default:
		return fmt.Sprintf("%s sent you a notification", actorName)
	}
}

func (s *Service) List(ctx context.Context, userID int64) (*ListResponse, error) {
	notifications, err := s.repo.List(ctx, userID, listLimit)
	if err != nil {
		return nil, err
	}

	for _, n := range notifications {
		actorName := ""
		if n.ActorName != nil {
			actorName = *n.ActorName
		}
		n.Message = FormatMessage(n.Type, actorName)
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListResponse{Notifications: notifications, UnreadCount: unread}, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// Below are the emitter hooks the other modules call. Each writes a row and
// nothing else; delivery is entirely pull-based.

func (s *Service) NotifyLike(ctx context.Context, recipientID, actorID, postID int64) error {
	return s.repo.Create(ctx, recipientID, &actorID, TypeLike, &postID)
}

func (s *Service) NotifyComment(ctx context.Context, recipientID, actorID, postID int64) error {
	return s.repo.Create(ctx, recipientID, &actorID, TypeComment, &postID)
}

func (s *Service) NotifyMention(ctx context.Context, recipientID, actorID, postID int64) error {
	return s.repo.Create(ctx, recipientID, &actorID, TypeMention, &postID)
}

func (s *Service) NotifyFollow(ctx context.Context, recipientID, actorID int64) error {
	return s.repo.Create(ctx, recipientID, &actorID, TypeFollow, nil)
}
