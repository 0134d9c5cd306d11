package core

import "time"

const (
	BotName   = "Wizzy"
	UserAgent = "WizzyBot/0.1"
	Version   = "0.1.0"
)

// Message roles as persisted in chat_history.message_type.
const (
	RoleHuman  = "human"
	RoleAI     = "ai"
	RoleSystem = "system"
)

// Message is one stored turn of a conversation. Timestamp ordering within a
// session is the canonical order.
type Message struct {
	ID        int64     `json:"id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Document is the uploaded document currently attached to a session.
// A session holds at most one; a new upload replaces the previous one.
type Document struct {
	SessionID  string    `json:"session_id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	Summary    string    `json:"summary"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Session is the per-chat bookkeeping row. Rows are created lazily on first
// contact and never deleted.
type Session struct {
	SessionID        string    `json:"session_id"`
	UserName         string    `json:"user_name"`
	FirstInteraction time.Time `json:"first_interaction"`
	LastInteraction  time.Time `json:"last_interaction"`
	TotalMessages    int64     `json:"total_messages"`
}
