package memory

import (
	"context"
	"time"

	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/pkg/log"
)

// Archived mirrors every recorded turn into an unbounded transcript
// repository. Archive failures are logged and never affect the history.
type Archived struct {
	core.Memory
	repo core.TranscriptRepository
}

func NewArchived(mem core.Memory, repo core.TranscriptRepository) *Archived {
	return &Archived{Memory: mem, repo: repo}
}

func (a *Archived) AppendTurn(ctx context.Context, userID, role, content string) {
	a.Memory.AppendTurn(ctx, userID, role, content)

	err := a.repo.AddTurn(ctx, core.TranscriptEntry{
		TurnID:    core.TurnID(ctx),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user_id", userID).Msg("failed to archive turn")
	}
}
