package types

import "time"

// Roles for the two sides of a conversation turn.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

/*
ChatSession groups the turns of one conversation under an opaque session
token owned by a single user.
*/
type ChatSession struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	SessionToken string    `json:"session_token"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsActive     bool      `json:"is_active"`
	MessageCount int       `json:"message_count"`
}

/*
ChatMessage is one persisted turn: either the raw user message or the text
of the generated reply. Metadata holds reply metadata as a JSON string and
is opaque to the store.
*/
type ChatMessage struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Role      string    `json:"message_type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata,omitempty"`
}
