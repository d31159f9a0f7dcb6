// internal/notifications/models.go
package notifications

import "time"

const (
	TypeLike    = "like"
	TypeComment = "comment"
	TypeFollow  = "follow"
	TypeMention = "mention"
)

// Notification is a stored event plus its rendered message. The message is
// produced at read time from the type and the actor's current display name,
// so renames are reflected without rewriting stored rows.
type Notification struct {
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	ActorID   *int64     `db:"actor_id" json:"actor_id,omitempty"`
	ActorName *string    `db:"actor_name" json:"-"`
	Type      string     `db:"type" json:"type"`
	PostID    *int64     `db:"post_id" json:"post_id,omitempty"`
	IsRead    bool       `db:"is_read" json:"is_read"`
	ReadAt    *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	Message   string     `json:"message"`
}

type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
}
