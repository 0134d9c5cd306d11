package core

import (
	"context"
	"time"
)

// HistoryRepository is the durable side of session message history.
// Implementations must keep AppendMessage atomic: the eviction of expired
// rows, the insert and the session registry update commit together or not
// at all.
type HistoryRepository interface {
	AppendMessage(ctx context.Context, msg Message, userName string, evictBefore time.Time) error
	// RecentMessages returns up to limit messages for the session with
	// timestamp >= oldest, in chronological order.
	RecentMessages(ctx context.Context, sessionID string, limit int, oldest time.Time) ([]Message, error)
	ClearSession(ctx context.Context, sessionID string) error
	// PurgeMessagesBefore removes rows older than cutoff across all
	// sessions and reports how many went away.
	PurgeMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// DocumentRepository persists the one-document-per-session context slot.
type DocumentRepository interface {
	// ReplaceDocument removes whatever the session held and inserts doc,
	// atomically.
	ReplaceDocument(ctx context.Context, doc Document) error
	// GetDocument returns the session's document, or nil when it has none.
	GetDocument(ctx context.Context, sessionID string) (*Document, error)
	// DeleteDocument reports whether a document was there to remove.
	DeleteDocument(ctx context.Context, sessionID string) (bool, error)
	PurgeDocumentsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionRepository maintains the per-chat registry. Rows are upserted,
// never deleted; the first recorded user name sticks.
type SessionRepository interface {
	TouchSession(ctx context.Context, sessionID, userName string, now time.Time) error
	// GetSession returns the registry row, or nil when the session has
	// never been seen.
	GetSession(ctx context.Context, sessionID string) (*Session, error)
}
