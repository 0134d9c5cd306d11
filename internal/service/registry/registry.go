package registry

import (
	"context"

	"github.com/sandevgo/wizzybot/internal/core"
	"github.com/sandevgo/wizzybot/pkg/log"
)

// Registry tracks per-chat bookkeeping: who the session belongs to, when it
// was first and last seen, and how many interactions it carried.
type Registry struct {
	repo core.SessionRepository
	now  core.Clock
}

func New(repo core.SessionRepository, now core.Clock) *Registry {
	return &Registry{repo: repo, now: now}
}

// Touch records an interaction, creating the row on first contact. Failures
// are logged and swallowed: bookkeeping must never take a conversation
// down. Message appends touch the registry inside their own transaction
// instead of going through here.
func (r *Registry) Touch(ctx context.Context, sessionID, userName string) {
	if err := r.repo.TouchSession(ctx, sessionID, userName, r.now()); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session_id", sessionID).Msg("failed to touch session")
	}
}

// Get returns the session's registry row, or nil when it was never seen.
func (r *Registry) Get(ctx context.Context, sessionID string) (*core.Session, error) {
	return r.repo.GetSession(ctx, sessionID)
}
