package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/wizzybot/internal/core"
	"github.com/sandevgo/wizzybot/pkg/log"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// AppendMessage stores one message. Eviction of the session's expired rows,
// the insert and the registry touch ride the same transaction, so a failure
// leaves no partial state behind.
func (h *HistoryRepo) AppendMessage(ctx context.Context, msg core.Message, userName string, evictBefore time.Time) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	evicted, err := tx.ExecContext(ctx,
		`DELETE FROM chat_history WHERE session_id = ? AND timestamp < ?`,
		msg.SessionID, evictBefore,
	)
	if err != nil {
		return fmt.Errorf("failed to evict expired messages: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chat_history (session_id, message_type, content, timestamp) VALUES (?, ?, ?, ?)`,
		msg.SessionID, msg.Role, msg.Content, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	if err := touchSession(ctx, tx, msg.SessionID, userName, msg.Timestamp); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	if n, err := evicted.RowsAffected(); err == nil && n > 0 {
		log.FromCtx(ctx).Debug().Str("session_id", msg.SessionID).Int64("evicted", n).Msg("evicted expired messages")
	}

	return tx.Commit()
}

// RecentMessages returns up to limit messages with timestamp >= oldest for
// the session, oldest first.
func (h *HistoryRepo) RecentMessages(ctx context.Context, sessionID string, limit int, oldest time.Time) ([]core.Message, error) {
	// Fetch the LAST 'limit' rows by ordering DESC, then flip below.
	query := `SELECT id, message_type, content, timestamp
		FROM chat_history
		WHERE session_id = ? AND timestamp >= ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, sessionID, oldest, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		msg := core.Message{SessionID: sessionID}
		var content sql.NullString

		if err := rows.Scan(&msg.ID, &msg.Role, &content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Content = content.String

		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Back to chronological order for the model.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.FromCtx(ctx).Debug().Str("session_id", sessionID).Int("count", len(messages)).Msg("loaded history messages")
	return messages, nil
}

func (h *HistoryRepo) ClearSession(ctx context.Context, sessionID string) error {
	_, err := h.db.ExecContext(ctx, `DELETE FROM chat_history WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear session history: %w", err)
	}
	return nil
}

// PurgeMessagesBefore removes expired rows across all sessions. Registry
// rows are left alone: they are bookkeeping, not conversation state.
func (h *HistoryRepo) PurgeMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := h.db.ExecContext(ctx, `DELETE FROM chat_history WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge messages: %w", err)
	}
	return res.RowsAffected()
}
