package memory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sandevgo/gradebot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscripts struct {
	entries []core.TranscriptEntry
	err     error
}

func (f *fakeTranscripts) AddTurn(_ context.Context, e core.TranscriptEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeTranscripts) ListTurns(_ context.Context, userID string, _ int) ([]core.TranscriptEntry, error) {
	return f.entries, nil
}

func TestArchived_AppendTurn(t *testing.T) {
	ctx := core.WithTurnID(context.Background(), "turn-1")
	repo := &fakeTranscripts{}
	mem := NewArchived(Open(ctx, filepath.Join(t.TempDir(), "memory.json")), repo)

	mem.AppendTurn(ctx, "9", core.RoleUser, "hola")

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "turn-1", repo.entries[0].TurnID)
	assert.Equal(t, "9", repo.entries[0].UserID)
	assert.Equal(t, "hola", repo.entries[0].Content)
	assert.Len(t, mem.History("9"), 1)
}

func TestArchived_FailureKeepsHistory(t *testing.T) {
	ctx := context.Background()
	mem := NewArchived(Open(ctx, filepath.Join(t.TempDir(), "memory.json")), &fakeTranscripts{err: errors.New("disk full")})

	mem.AppendTurn(ctx, "9", core.RoleUser, "hola")

	assert.Len(t, mem.History("9"), 1)
}
