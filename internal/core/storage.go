package core

import (
	"context"
	"time"
)

// TranscriptRepository archives every recorded turn without a size bound.
type TranscriptRepository interface {
	AddTurn(ctx context.Context, entry TranscriptEntry) error
	ListTurns(ctx context.Context, userID string, limit int) ([]TranscriptEntry, error)
}

type TranscriptEntry struct {
	ID        int64     `json:"id"`
	TurnID    string    `json:"turn_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
