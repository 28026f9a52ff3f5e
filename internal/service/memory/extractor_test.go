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

type fakeAI struct {
	reply string
	err   error
	got   []core.Message
	opts  core.ChatOptions
}

func (f *fakeAI) Chat(_ context.Context, messages []core.Message, opts core.ChatOptions) (core.Message, error) {
	f.got = messages
	f.opts = opts
	if f.err != nil {
		return core.Message{}, f.err
	}
	return core.Message{Role: core.RoleAssistant, Content: f.reply}, nil
}

func TestParseExtraction(t *testing.T) {
	content := "Here you go:\n" + `{
		"alumnos": {"23070045": {"nombre": "José Castor", "carrera": "Law"}},
		"teachers": {"Juan Díaz": {"keywords": ["Civil"]}},
		"planets": {"mars": {}},
		"materias": {"Math": "not an object"}
	}`

	items, err := ParseExtraction(content)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byCat := map[string]Extracted{}
	for _, it := range items {
		byCat[it.Category] = it
	}

	student := byCat[core.CategoryStudent]
	assert.Equal(t, "23070045", student.Key)
	assert.Equal(t, "Law", student.Entry.Attributes["carrera"])
	assert.Equal(t, []string{"23070045", "josé", "castor"}, student.Entry.Keywords)

	teacher := byCat[core.CategoryTeacher]
	assert.Equal(t, []string{"civil", "juan", "díaz"}, teacher.Entry.Keywords)
	assert.NotContains(t, teacher.Entry.Attributes, "keywords")
}

func TestParseExtraction_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no object", content: "sorry, nothing"},
		{name: "broken json", content: `{"students": {`},
		{name: "not an object", content: `["students"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtraction(tt.content)
			assert.Error(t, err)
		})
	}
}

func TestParseExtraction_SkipsNonObjectCategories(t *testing.T) {
	items, err := ParseExtraction(`{
		"students": {"23070045": {"name": "Jose Castor"}},
		"subjects": [],
		"summary": "one student mentioned",
		"teachers": null
	}`)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, core.CategoryStudent, items[0].Category)
	assert.Equal(t, "23070045", items[0].Key)

	items, err = ParseExtraction(`{"students": [1, 2]}`)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExtractor_Extract(t *testing.T) {
	ctx := context.Background()
	mem := Open(ctx, filepath.Join(t.TempDir(), "memory.json"))
	ai := &fakeAI{reply: `{"profesores": {"Rosa Paz": {"materias": 2}}}`}

	n, err := NewExtractor(ai, mem).Extract(ctx, "who is rosa?", "Rosa Paz teaches Math.")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.True(t, ai.opts.JSON)
	assert.Equal(t, 500, ai.opts.MaxTokens)
	require.Len(t, ai.got, 2)
	assert.Contains(t, ai.got[1].Content, "Rosa Paz teaches Math.")

	recalled := mem.Recall("tell me about rosa")
	require.Len(t, recalled, 1)
	assert.Equal(t, "Rosa Paz", recalled[0].Key)
}

func TestExtractor_ChatError(t *testing.T) {
	ctx := context.Background()
	mem := Open(ctx, filepath.Join(t.TempDir(), "memory.json"))

	_, err := NewExtractor(&fakeAI{err: errors.New("boom")}, mem).Extract(ctx, "q", "a")
	assert.Error(t, err)
}

func TestKeywordsFor(t *testing.T) {
	assert.Equal(t, []string{"jose", "castor", "salinas", "007"}, KeywordsFor("Jose Castor-Salinas", "007", ""))
	assert.Equal(t, []string{"maría", "cruz"}, KeywordsFor("María de la Cruz y O"))
}
