package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/gradebot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *TranscriptRepo {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "nested", "gradebot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTranscriptRepo(db)
}

func TestTranscriptRepo_AddAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		require.NoError(t, repo.AddTurn(ctx, core.TranscriptEntry{
			TurnID:    fmt.Sprintf("turn-%d", i),
			UserID:    "42",
			Role:      core.RoleUser,
			Content:   fmt.Sprintf("msg %d", i),
			CreatedAt: ts.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.AddTurn(ctx, core.TranscriptEntry{UserID: "7", Role: core.RoleUser, Content: "other"}))

	all, err := repo.ListTurns(ctx, "42", 0)
	require.NoError(t, err)
	require.Len(t, all, 15, "the archive is not bounded like the history")
	assert.Equal(t, "msg 0", all[0].Content)
	assert.Equal(t, "turn-0", all[0].TurnID)
	assert.True(t, all[0].CreatedAt.Equal(ts))

	last, err := repo.ListTurns(ctx, "42", 3)
	require.NoError(t, err)
	require.Len(t, last, 3)
	assert.Equal(t, []string{"msg 12", "msg 13", "msg 14"}, []string{last[0].Content, last[1].Content, last[2].Content})

	none, err := repo.ListTurns(ctx, "missing", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNewDB_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gradebot.db")

	db, err := NewDB(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewTranscriptRepo(db).AddTurn(ctx, core.TranscriptEntry{UserID: "1", Role: core.RoleUser, Content: "a"}))
	require.NoError(t, db.Close())

	db, err = NewDB(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	got, err := NewTranscriptRepo(db).ListTurns(ctx, "1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
