package router

import (
	"context"

	"github.com/sandevgo/wizzybot/internal/core"
)

// HistoryStore is the conversation memory the text path reads and writes.
type HistoryStore interface {
	History(ctx context.Context, sessionID string) []core.Message
	Append(ctx context.Context, sessionID, role, content, userName string) error
}

// DocumentStore holds the per-session document context.
type DocumentStore interface {
	Store(ctx context.Context, doc core.Document) bool
}

// SessionRegistry records that a session interacted. Message appends
// update the registry inside their own transaction, so the router only
// touches it for flows that never append.
type SessionRegistry interface {
	Touch(ctx context.Context, sessionID, userName string)
}

// ContextBuilder produces the system context for a chat completion.
type ContextBuilder interface {
	SystemContext(ctx context.Context, sessionID, userName string) string
}

// FileDownloader fetches file payloads referenced by inbound updates.
type FileDownloader interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// FileFunc adapts a plain download function to FileDownloader.
type FileFunc func(ctx context.Context, fileID string) ([]byte, error)

func (f FileFunc) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	return f(ctx, fileID)
}
