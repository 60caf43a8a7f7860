package history

import "time"

// Message is one persisted turn of an assistant session.
type Message struct {
	ID        int64     `json:"id"`
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
