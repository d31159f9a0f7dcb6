// internal/messaging/models.go
package messaging

import "time"

type Conversation struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Participants []*Participant `json:"participants,omitempty"`
	LastMessage  *Message       `json:"last_message,omitempty"`
}

type Participant struct {
	UserID      int64   `db:"user_id" json:"user_id"`
	Username    string  `db:"username" json:"username"`
	DisplayName string  `db:"display_name" json:"display_name"`
	AvatarURL   *string `db:"avatar_url" json:"avatar_url,omitempty"`
}

type Message struct {
	ID             int64     `db:"id" json:"id"`
	ConversationID int64     `db:"conversation_id" json:"conversation_id"`
	SenderID       int64     `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type CreateConversationRequest struct {
	RecipientID int64 `json:"recipient_id" validate:"required,gt=0"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}
