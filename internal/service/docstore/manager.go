package docstore

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

// Manager owns the one-document-per-session context slot, with a small
// write-through cache in front of the durable store.
type Manager struct {
	repo  core.DocumentRepository
	cache *cache.Cache
	now   core.Clock
}

func NewManager(repo core.DocumentRepository, now core.Clock) *Manager {
	return &Manager{
		repo:  repo,
		cache: cache.New(cacheTTL, cacheCleanup),
		now:   now,
	}
}

// Store replaces whatever document the session held and reports success.
// The upload timestamp is stamped here; callers never supply it.
func (m *Manager) Store(ctx context.Context, doc core.Document) bool {
	doc.UploadedAt = m.now()

	if err := m.repo.ReplaceDocument(ctx, doc); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session_id", doc.SessionID).Msg("failed to store document")
		return false
	}

	m.cache.Set(doc.SessionID, &doc, cache.DefaultExpiration)
	return true
}

// Get returns the session's document. No document and a failing store both
// read as nil; the failure is logged here.
func (m *Manager) Get(ctx context.Context, sessionID string) *core.Document {
	if v, ok := m.cache.Get(sessionID); ok {
		return v.(*core.Document)
	}

	doc, err := m.repo.GetDocument(ctx, sessionID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session_id", sessionID).Msg("failed to load document")
		return nil
	}
	if doc != nil {
		m.cache.Set(sessionID, doc, cache.DefaultExpiration)
	}
	return doc
}

// Delete removes the session's document and reports whether one actually
// went away. Deleting an empty slot is not an error, it just reports false.
func (m *Manager) Delete(ctx context.Context, sessionID string) bool {
	m.cache.Delete(sessionID)

	removed, err := m.repo.DeleteDocument(ctx, sessionID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session_id", sessionID).Msg("failed to delete document")
		return false
	}
	return removed
}

// PurgeOlderThan removes documents uploaded more than days ago, across all
// sessions, and reports how many went away.
func (m *Manager) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := m.now().AddDate(0, 0, -days)

	n, err := m.repo.PurgeDocumentsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge documents: %w", err)
	}
	if n > 0 {
		// Purged sessions are unknown here, drop everything.
		m.cache.Flush()
	}
	return n, nil
}
