package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/sandevgo/gradebot/internal/core"
)

type TranscriptRepo struct {
	db *sql.DB
}

var _ core.TranscriptRepository = (*TranscriptRepo)(nil)

func NewTranscriptRepo(db *sql.DB) *TranscriptRepo {
	return &TranscriptRepo{db: db}
}

func (r *TranscriptRepo) AddTurn(ctx context.Context, e core.TranscriptEntry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT INTO transcripts (turn_id, user_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, e.TurnID, e.UserID, e.Role, e.Content, createdAt.UTC()); err != nil {
		return fmt.Errorf("failed to insert transcript: %w", err)
	}
	return nil
}

// ListTurns returns the user's last limit turns, oldest first. A limit of
// zero or less returns everything.
func (r *TranscriptRepo) ListTurns(ctx context.Context, userID string, limit int) ([]core.TranscriptEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	// Fetch the LAST 'limit' turns by ordering DESC
	query := `SELECT id, turn_id, user_id, role, content, created_at FROM transcripts WHERE user_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer rows.Close()

	var entries []core.TranscriptEntry
	for rows.Next() {
		var e core.TranscriptEntry
		if err := rows.Scan(&e.ID, &e.TurnID, &e.UserID, &e.Role, &e.Content, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	slices.Reverse(entries)
	return entries, nil
}
