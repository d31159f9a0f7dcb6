// internal/messaging/repository.go
package messaging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("user is not a participant of this conversation")
)

type Repository interface {
	FindDirectConversation(ctx context.Context, userA, userB int64) (int64, error)
	CreateConversation(ctx context.Context, userA, userB int64) (int64, error)
	GetConversation(ctx context.Context, conversationID int64) (*Conversation, error)
	ListConversations(ctx context.Context, userID int64) ([]*Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error)
	ListMessages(ctx context.Context, conversationID int64, limit int) ([]*Message, error)
	CreateMessage(ctx context.Context, conversationID, senderID int64, content string) (*Message, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) FindDirectConversation(ctx context.Context, userA, userB int64) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, `
		SELECT cp1.conversation_id
		FROM conversation_participants cp1
		JOIN conversation_participants cp2
		  ON cp1.conversation_id = cp2.conversation_id
		WHERE cp1.user_id = $1 AND cp2.user_id = $2
		LIMIT 1`, userA, userB)
	if err == sql.ErrNoRows {
		return 0, ErrConversationNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find conversation: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) CreateConversation(ctx context.Context, userA, userB int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		"INSERT INTO conversations (created_at) VALUES (NOW()) RETURNING id").Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create conversation: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversation_participants (conversation_id, user_id)
		VALUES ($1, $2), ($1, $3)`, id, userA, userB)
	if err != nil {
		return 0, fmt.Errorf("failed to add participants: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit conversation: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) GetConversation(ctx context.Context, conversationID int64) (*Conversation, error) {
	var conv Conversation
	err := r.db.GetContext(ctx, &conv,
		"SELECT id, created_at FROM conversations WHERE id = $1", conversationID)
	if err == sql.ErrNoRows {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	if err := r.loadParticipants(ctx, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *postgresRepository) loadParticipants(ctx context.Context, conv *Conversation) error {
	participants := []*Participant{}
	err := r.db.SelectContext(ctx, &participants, `
		SELECT cp.user_id, u.username, u.display_name, u.avatar_url
		FROM conversation_participants cp
		JOIN users u ON u.id = cp.user_id
		WHERE cp.conversation_id = $1
		ORDER BY cp.user_id`, conv.ID)
	if err != nil {
		return fmt.Errorf("failed to load participants: %w", err)
	}
	conv.Participants = participants
	return nil
}

// ListConversations returns the caller's conversations ordered by most
// recent activity, each with its participants and last message attached.
func (r *postgresRepository) ListConversations(ctx context.Context, userID int64) ([]*Conversation, error) {
	conversations := []*Conversation{}
	err := r.db.SelectContext(ctx, &conversations, `
		SELECT c.id, c.created_at
		FROM conversations c
		JOIN conversation_participants cp ON cp.conversation_id = c.id
		WHERE cp.user_id = $1
		ORDER BY COALESCE(
			(SELECT MAX(m.created_at) FROM messages m WHERE m.conversation_id = c.id),
			c.created_at
		) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	for _, conv := range conversations {
		if err := r.loadParticipants(ctx, conv); err != nil {
			return nil, err
		}

		var last Message
		err := r.db.GetContext(ctx, &last, `
			SELECT id, conversation_id, sender_id, content, created_at
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT 1`, conv.ID)
		if err == nil {
			conv.LastMessage = &last
		} else if err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to load last message: %w", err)
		}
	}

	return conversations, nil
}

func (r *postgresRepository) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM conversation_participants
			WHERE conversation_id = $1 AND user_id = $2
		)`, conversationID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ListMessages(ctx context.Context, conversationID int64, limit int) ([]*Message, error) {
	messages := []*Message{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT id, conversation_id, sender_id, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (r *postgresRepository) CreateMessage(ctx context.Context, conversationID, senderID int64, content string) (*Message, error) {
	var msg Message
	err := r.db.GetContext(ctx, &msg, `
		INSERT INTO messages (conversation_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, conversation_id, sender_id, content, created_at`,
		conversationID, senderID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &msg, nil
}
