package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/wizzybot/internal/core"
)

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// ReplaceDocument swaps in doc as the session's only document. Delete and
// insert share a transaction so a failed insert keeps the old document.
func (r *DocumentRepo) ReplaceDocument(ctx context.Context, doc core.Document) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM document_contexts WHERE session_id = ?`, doc.SessionID,
	); err != nil {
		return fmt.Errorf("failed to delete previous document: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO document_contexts (session_id, filename, content, summary, file_type, file_size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.SessionID, doc.Filename, doc.Content, doc.Summary, doc.FileType, doc.FileSize, doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return tx.Commit()
}

// GetDocument returns the session's document, or nil when there is none.
func (r *DocumentRepo) GetDocument(ctx context.Context, sessionID string) (*core.Document, error) {
	query := `SELECT filename, content, summary, file_type, file_size, uploaded_at
		FROM document_contexts
		WHERE session_id = ?
		ORDER BY uploaded_at DESC
		LIMIT 1`

	doc := core.Document{SessionID: sessionID}
	var summary, fileType sql.NullString
	var fileSize sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, sessionID).
		Scan(&doc.Filename, &doc.Content, &summary, &fileType, &fileSize, &doc.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	doc.Summary = summary.String
	doc.FileType = fileType.String
	doc.FileSize = fileSize.Int64
	return &doc, nil
}

// DeleteDocument removes the session's document and reports whether one
// was there to remove.
func (r *DocumentRepo) DeleteDocument(ctx context.Context, sessionID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM document_contexts WHERE session_id = ?`, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *DocumentRepo) PurgeDocumentsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM document_contexts WHERE uploaded_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge documents: %w", err)
	}
	return res.RowsAffected()
}
