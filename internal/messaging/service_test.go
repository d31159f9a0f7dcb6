// internal/messaging/service_test.go
package messaging

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	mu            sync.Mutex
	nextID        int64
	conversations map[int64][]int64 // conversation -> participants
	messages      map[int64][]*Message
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		nextID:        1,
		conversations: make(map[int64][]int64),
		messages:      make(map[int64][]*Message),
	}
}

func (r *fakeRepository) FindDirectConversation(ctx context.Context, userA, userB int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, participants := range r.conversations {
		if len(participants) == 2 &&
			((participants[0] == userA && participants[1] == userB) ||
				(participants[0] == userB && participants[1] == userA)) {
			return id, nil
		}
	}
	return 0, ErrConversationNotFound
}

func (r *fakeRepository) CreateConversation(ctx context.Context, userA, userB int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.conversations[id] = []int64{userA, userB}
	return id, nil
}

func (r *fakeRepository) GetConversation(ctx context.Context, conversationID int64) (*Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	participants, ok := r.conversations[conversationID]
	if !ok {
		return nil, ErrConversationNotFound
	}
	conv := &Conversation{ID: conversationID}
	for _, userID := range participants {
		conv.Participants = append(conv.Participants, &Participant{UserID: userID})
	}
	return conv, nil
}

func (r *fakeRepository) ListConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*Conversation{}
	for id, participants := range r.conversations {
		for _, p := range participants {
			if p == userID {
				conv := &Conversation{ID: id}
				msgs := r.messages[id]
				if len(msgs) > 0 {
					conv.LastMessage = msgs[len(msgs)-1]
				}
				result = append(result, conv)
				break
			}
		}
	}
	return result, nil
}

func (r *fakeRepository) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.conversations[conversationID] {
		if p == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepository) ListMessages(ctx context.Context, conversationID int64, limit int) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := append([]*Message{}, r.messages[conversationID]...)
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (r *fakeRepository) CreateMessage(ctx context.Context, conversationID, senderID int64, content string) (*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := &Message{
		ID:             r.nextID,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	r.nextID++
	r.messages[conversationID] = append(r.messages[conversationID], msg)
	return msg, nil
}

type fakeUserChecker struct {
	users map[int64]bool
}

func (c *fakeUserChecker) Exists(ctx context.Context, userID int64) (bool, error) {
	return c.users[userID], nil
}

func newTestService(userIDs ...int64) (*Service, *fakeRepository) {
	repo := newFakeRepository()
	users := &fakeUserChecker{users: make(map[int64]bool)}
	for _, id := range userIDs {
		users.users[id] = true
	}
	return NewService(repo, users), repo
}

func TestCreateConversationWithSelfRejected(t *testing.T) {
	svc, _ := newTestService(1)

	_, err := svc.CreateConversation(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrSelfConversation)
}

func TestCreateConversationMissingRecipient(t *testing.T) {
	svc, _ := newTestService(1)

	_, err := svc.CreateConversation(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateConversationReturnsExisting(t *testing.T) {
	svc, _ := newTestService(1, 2)

	first, err := svc.CreateConversation(context.Background(), 1, 2)
	require.NoError(t, err)

	// Same pair in either direction resolves to the same conversation
	second, err := svc.CreateConversation(context.Background(), 2, 1)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestSendMessageRequiresParticipation(t *testing.T) {
	svc, _ := newTestService(1, 2, 3)

	conv, err := svc.CreateConversation(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), conv.ID, 3, "let me in")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestListMessagesRequiresParticipation(t *testing.T) {
	svc, _ := newTestService(1, 2, 3)

	conv, err := svc.CreateConversation(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = svc.ListMessages(context.Background(), conv.ID, 3)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestSendAndListMessagesInOrder(t *testing.T) {
	svc, _ := newTestService(1, 2)

	conv, err := svc.CreateConversation(context.Background(), 1, 2)
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), conv.ID, 1, "hello")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), conv.ID, 2, "hi back")
	require.NoError(t, err)

	messages, err := svc.ListMessages(context.Background(), conv.ID, 1)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "hi back", messages[1].Content)
	assert.Equal(t, int64(1), messages[0].SenderID)
}

func TestListConversationsIncludesLastMessage(t *testing.T) {
	svc, _ := newTestService(1, 2)

	conv, err := svc.CreateConversation(context.Background(), 1, 2)
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), conv.ID, 1, "first")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), conv.ID, 2, "latest")
	require.NoError(t, err)

	conversations, err := svc.ListConversations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	require.NotNil(t, conversations[0].LastMessage)
	assert.Equal(t, "latest", conversations[0].LastMessage.Content)
}
