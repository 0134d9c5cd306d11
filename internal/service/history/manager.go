package history

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/sandevgo/wizzybot/internal/core"
	"github.com/sandevgo/wizzybot/pkg/log"
)

const (
	cacheTTL     = 30 * time.Minute
	cacheCleanup = 10 * time.Minute
)

// Manager fronts the durable history store with a lazy per-session cache.
// Reads hit the store once per session and stay warm; writes go to the
// store first and update the cached window only after the commit.
type Manager struct {
	repo   core.HistoryRepository
	cache  *cache.Cache
	window int
	maxAge time.Duration
	now    core.Clock
}

func NewManager(repo core.HistoryRepository, window int, maxAge time.Duration, now core.Clock) *Manager {
	return &Manager{
		repo:   repo,
		cache:  cache.New(cacheTTL, cacheCleanup),
		window: window,
		maxAge: maxAge,
		now:    now,
	}
}

// History returns the session's visible window, oldest first. Store
// failures are logged and read as an empty history; the conversation keeps
// going without memory rather than crashing.
func (m *Manager) History(ctx context.Context, sessionID string) []core.Message {
	oldest := m.now().Add(-m.maxAge)

	if v, ok := m.cache.Get(sessionID); ok {
		return m.visible(v.([]core.Message), oldest)
	}

	msgs, err := m.repo.RecentMessages(ctx, sessionID, m.window, oldest)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session_id", sessionID).Msg("failed to load history")
		return nil
	}

	m.cache.Set(sessionID, msgs, cache.DefaultExpiration)
	return m.visible(msgs, oldest)
}

// Append stores one message. The repository transaction also evicts the
// session's expired rows and touches the registry; the cached window is
// only updated once that commit went through.
func (m *Manager) Append(ctx context.Context, sessionID, role, content, userName string) error {
	now := m.now()
	msg := core.Message{SessionID: sessionID, Role: role, Content: content, Timestamp: now}

	if err := m.repo.AppendMessage(ctx, msg, userName, now.Add(-m.maxAge)); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	// Keep a warm entry in sync; a cold one stays lazy.
	if v, ok := m.cache.Get(sessionID); ok {
		msgs := append(v.([]core.Message), msg)
		m.cache.Set(sessionID, m.visible(msgs, now.Add(-m.maxAge)), cache.DefaultExpiration)
	}

	return nil
}

// Clear wipes the session's history in the store and caches the empty
// result, so the next read does not resurrect anything.
func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	if err := m.repo.ClearSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	m.cache.Set(sessionID, []core.Message{}, cache.DefaultExpiration)
	return nil
}

// PurgeExpired removes every message older than the retention horizon,
// across all sessions, and reports how many rows went. The cache is
// flushed when anything was removed so warm windows cannot serve purged
// rows.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := m.now().Add(-m.maxAge)

	n, err := m.repo.PurgeMessagesBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge messages: %w", err)
	}
	if n > 0 {
		m.cache.Flush()
	}
	return n, nil
}

// visible applies the age horizon and the window to a cached slice. Always
// returns a fresh slice, callers never alias cache internals.
func (m *Manager) visible(msgs []core.Message, oldest time.Time) []core.Message {
	filtered := make([]core.Message, 0, len(msgs))
	for _, msg := range msgs {
		if !msg.Timestamp.Before(oldest) {
			filtered = append(filtered, msg)
		}
	}
	if len(filtered) > m.window {
		filtered = filtered[len(filtered)-m.window:]
	}
	return filtered
}
