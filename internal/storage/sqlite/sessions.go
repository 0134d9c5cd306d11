package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/wizzybot/internal/core"
)

type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// touchSession upserts the registry row. A new row counts the interaction
// that created it; an existing row keeps its original user_name, so the
// first name seen sticks for the lifetime of the session.
func touchSession(ctx context.Context, e execer, sessionID, userName string, now time.Time) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO user_sessions (session_id, user_name, first_interaction, last_interaction, total_messages)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(session_id) DO UPDATE SET
			last_interaction = excluded.last_interaction,
			total_messages = user_sessions.total_messages + 1,
			user_name = CASE
				WHEN user_sessions.user_name IS NULL OR user_sessions.user_name = ''
				THEN excluded.user_name
				ELSE user_sessions.user_name
			END`,
		sessionID, userName, now, now,
	)
	return err
}

func (r *SessionRepo) TouchSession(ctx context.Context, sessionID, userName string, now time.Time) error {
	if err := touchSession(ctx, r.db, sessionID, userName, now); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// GetSession returns the registry row, or nil for a never-seen session.
func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*core.Session, error) {
	query := `SELECT session_id, user_name, first_interaction, last_interaction, total_messages
		FROM user_sessions
		WHERE session_id = ?`

	var s core.Session
	var userName sql.NullString

	err := r.db.QueryRowContext(ctx, query, sessionID).
		Scan(&s.SessionID, &userName, &s.FirstInteraction, &s.LastInteraction, &s.TotalMessages)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	s.UserName = userName.String
	return &s, nil
}
