// internal/messaging/service.go
package messaging

import (
	"context"
	"errors"
	"fmt"
)

const messagePageSize = 100

var ErrSelfConversation = errors.New("cannot start a conversation with yourself")

// UserChecker is the slice of the users repository messaging needs to
// validate recipients.
type UserChecker interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

var ErrUserNotFound = errors.New("user not found")

type Service struct {
	repo  Repository
	users UserChecker
}

func NewService(repo Repository, users UserChecker) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) ListConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// CreateConversation starts (or returns) the direct conversation between the
// caller and the recipient. Creating twice is not an error: the existing
// conversation is returned.
func (s *Service) CreateConversation(ctx context.Context, userID, recipientID int64) (*Conversation, error) {
	if userID == recipientID {
		return nil, ErrSelfConversation
	}

	exists, err := s.users.Exists(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check recipient: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	id, err := s.repo.FindDirectConversation(ctx, userID, recipientID)
	if errors.Is(err, ErrConversationNotFound) {
		id, err = s.repo.CreateConversation(ctx, userID, recipientID)
	}
	if err != nil {
		return nil, err
	}

	return s.repo.GetConversation(ctx, id)
}

func (s *Service) ListMessages(ctx context.Context, conversationID, userID int64) ([]*Message, error) {
	ok, err := s.repo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}
	return s.repo.ListMessages(ctx, conversationID, messagePageSize)
}

func (s *Service) SendMessage(ctx context.Context, conversationID, senderID int64, content string) (*Message, error) {
	ok, err := s.repo.IsParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotParticipant
	}

	msg, err := s.repo.CreateMessage(ctx, conversationID, senderID, content)
	if err != nil {
		return nil, err
	}

	recordMessageSent()
	return msg, nil
}
