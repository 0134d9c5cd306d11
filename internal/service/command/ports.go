package command

import (
	"context"

	"github.com/sandevgo/wizzybot/internal/core"
	"github.com/sandevgo/wizzybot/internal/providers/serper"
)

// HistoryStore is the slice of the history manager that commands touch.
type HistoryStore interface {
	Clear(ctx context.Context, sessionID string) error
}

type DocumentStore interface {
	Delete(ctx context.Context, sessionID string) bool
}

type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*core.Session, error)
}

type Searcher interface {
	WebSearch(ctx context.Context, query string) (*serper.Response, error)
	NewsSearch(ctx context.Context, query string) (*serper.Response, error)
}
