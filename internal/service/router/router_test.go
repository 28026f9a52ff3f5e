package router

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/internal/service/assistant"
	"github.com/sandevgo/gradebot/internal/service/command"
	"github.com/sandevgo/gradebot/internal/service/memory"
	"github.com/sandevgo/gradebot/internal/service/resolver"
	"github.com/sandevgo/gradebot/internal/storage/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnswerer struct {
	available bool
	answer    assistant.Answer
	err       error
	queries   []string
}

func (f *fakeAnswerer) Available() bool {
	return f.available
}

func (f *fakeAnswerer) Answer(_ context.Context, _ string, query string) (assistant.Answer, error) {
	f.queries = append(f.queries, query)
	return f.answer, f.err
}

func oneStudent() *dataset.Store {
	return dataset.New([]dataset.Record{{
		EnrollmentID: "23070045",
		GivenName:    "Jose Aaron",
		PaternalName: "Castor",
		MaternalName: "Salinas",
		Program:      "Law",
		Subject:      "Ethics",
		Grade:        dataset.NewScore(9),
		Term:         "3",
		Teacher:      "Alicia Murillo",
	}})
}

func newTestRouter(t *testing.T, data *dataset.Store, ai Answerer) (*Router, *memory.Store) {
	t.Helper()
	mem := memory.Open(context.Background(), filepath.Join(t.TempDir(), "memory.json"))
	res := resolver.New(data)
	return New(res, mem, ai, command.NewRouter(mem, res)), mem
}

func TestEndToEnd_LookupOnly(t *testing.T) {
	ctx := context.Background()
	r, mem := newTestRouter(t, oneStudent(), &fakeAnswerer{})

	byID := r.HandleText(ctx, "u1", "23070045")
	assert.Contains(t, byID.Text, "Average: 9.00")
	assert.Contains(t, byID.Text, "Student: Jose Aaron Castor Salinas")
	require.Len(t, byID.Buttons, 1)
	assert.Equal(t, "grades|23070045", byID.Buttons[0][0].Data)
	assert.Equal(t, "back", byID.Buttons[0][1].Data)

	byName := r.HandleText(ctx, "u1", "Jose Aaron Castor Salinas")
	assert.Equal(t, byID, byName)

	partial := r.HandleText(ctx, "u1", "jose castor salinas")
	assert.Equal(t, byID.Text, partial.Text)

	short := r.HandleText(ctx, "u1", "Jose Castor")
	assert.Equal(t, shortNameText, short.Text)

	k := mem.Knowledge(core.CategoryStudent, "23070045")
	assert.Equal(t, "Jose Aaron Castor Salinas", k.Attributes["name"])
	assert.Equal(t, 9.0, k.Attributes["mean"])
	assert.ElementsMatch(t, []string{"23070045", "jose", "aaron", "castor"}, k.Keywords)
	assert.Empty(t, mem.History("u1"), "direct lookups do not touch the history")
}

func TestHandleText_IDMiss(t *testing.T) {
	ctx := context.Background()

	t.Run("lookup only", func(t *testing.T) {
		r, _ := newTestRouter(t, oneStudent(), &fakeAnswerer{})
		assert.Equal(t, idNotFoundText, r.HandleText(ctx, "u1", "7").Text)
	})

	t.Run("with llm", func(t *testing.T) {
		ai := &fakeAnswerer{available: true, answer: assistant.Answer{Text: "No such student."}}
		r, _ := newTestRouter(t, oneStudent(), ai)
		assert.Equal(t, "No such student.", r.HandleText(ctx, "u1", "7").Text)
		assert.Equal(t, []string{"7"}, ai.queries)
	})
}

func TestHandleText_NameMiss(t *testing.T) {
	ctx := context.Background()

	t.Run("lookup only shows suggestions", func(t *testing.T) {
		r, _ := newTestRouter(t, oneStudent(), &fakeAnswerer{})
		reply := r.HandleText(ctx, "u1", "Josefina Castro Sanchez")
		assert.Contains(t, reply.Text, "Did you mean")
		assert.Contains(t, reply.Text, "Jose Aaron Castor Salinas")
		require.Len(t, reply.Buttons, 1)
		assert.Equal(t, "al__Jose Aaron Castor Salinas", reply.Buttons[0][0].Data)
	})

	t.Run("llm answer is returned unchanged", func(t *testing.T) {
		ai := &fakeAnswerer{available: true, answer: assistant.Answer{Text: "I am not sure."}}
		r, _ := newTestRouter(t, oneStudent(), ai)
		reply := r.HandleText(ctx, "u1", "Josefina Castro Sanchez")
		assert.Equal(t, core.TextReply("I am not sure."), reply)
		assert.Len(t, ai.queries, 1)
	})

	t.Run("no suggestions", func(t *testing.T) {
		r, _ := newTestRouter(t, oneStudent(), &fakeAnswerer{})
		reply := r.HandleText(ctx, "u1", "Zoe Xu Yi")
		assert.Contains(t, reply.Text, "No student matches")
		assert.Empty(t, reply.Buttons)
	})
}

func TestHandleText_LLMPath(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		ai   *fakeAnswerer
		want string
	}{
		{name: "answer", ai: &fakeAnswerer{available: true, answer: assistant.Answer{Text: "The average is 9."}}, want: "The average is 9."},
		{name: "no data hint", ai: &fakeAnswerer{available: true, answer: assistant.Answer{Text: "no hay datos", NoData: true}}, want: "I found no data for"},
		{name: "upstream failure", ai: &fakeAnswerer{available: true, err: fmt.Errorf("chat: %w", core.ErrUpstreamUnavailable)}, want: apologyText},
		{name: "unexpected failure", ai: &fakeAnswerer{available: true, err: errors.New("boom")}, want: apologyText},
		{name: "dataset failure", ai: &fakeAnswerer{available: true, err: core.ErrDataUnavailable}, want: noDatasetText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, oneStudent(), tt.ai)
			reply := r.HandleText(ctx, "u1", "average of ethics?")
			assert.Contains(t, reply.Text, tt.want)
		})
	}
}

func TestHandleText_QuestionWithSurnameGetsPlainAnswer(t *testing.T) {
	ctx := context.Background()
	data := dataset.New([]dataset.Record{
		{EnrollmentID: "23070045", GivenName: "Jose Aaron", PaternalName: "Castor", MaternalName: "Salinas",
			Program: "Law", Subject: "Ethics", Grade: dataset.NewScore(9), Term: "3", Teacher: "Alicia Murillo"},
		{EnrollmentID: "23070046", GivenName: "Ines", PaternalName: "Delgado", MaternalName: "Infante",
			Program: "Law", Subject: "Ethics", Grade: dataset.NewScore(7), Term: "3", Teacher: "Alicia Murillo"},
		{EnrollmentID: "23070047", GivenName: "Wendy", PaternalName: "Grande", MaternalName: "Avila",
			Program: "CS", Subject: "Math", Grade: dataset.NewScore(8), Term: "1", Teacher: "Rosa Paz"},
	})
	ai := &fakeAnswerer{available: true, answer: assistant.Answer{Text: "The Ethics average is 8.0."}}
	r, _ := newTestRouter(t, data, ai)

	reply := r.HandleText(ctx, "u1", "what is the average grade in Ethics for Salinas")

	assert.Equal(t, "The Ethics average is 8.0.", reply.Text)
	assert.Empty(t, reply.Buttons)
	assert.Equal(t, []string{"what is the average grade in Ethics for Salinas"}, ai.queries)
}

func TestHandleText_Teachers(t *testing.T) {
	ctx := context.Background()
	r, mem := newTestRouter(t, oneStudent(), &fakeAnswerer{})

	reply := r.HandleText(ctx, "u1", "Teacher Alicia")
	assert.Contains(t, reply.Text, "Teacher: Alicia Murillo")
	assert.Contains(t, reply.Text, "Subjects: Ethics")
	assert.Contains(t, reply.Text, "Average grade: 9.00")
	assert.Contains(t, reply.Text, "Students: 1")

	k := mem.Knowledge(core.CategoryTeacher, "Alicia Murillo")
	assert.Equal(t, []string{"alicia", "murillo"}, k.Keywords)

	missing := r.HandleText(ctx, "u1", "profesor Nadie")
	assert.Equal(t, "⚠️ Teacher not found: Nadie", missing.Text)

	roster := r.HandleText(ctx, "u1", "Lista de profesores")
	assert.Contains(t, roster.Text, "- Alicia Murillo")

	mention := r.HandleText(ctx, "u1", "what does teacher murillo teach?")
	assert.Contains(t, mention.Text, "Teacher: Alicia Murillo")
}

func TestHandleText_RosterCap(t *testing.T) {
	var records []dataset.Record
	for i := 0; i < 23; i++ {
		records = append(records, dataset.Record{
			EnrollmentID: fmt.Sprint(i), GivenName: "A", PaternalName: "B", MaternalName: "C",
			Subject: "S", Grade: dataset.NewScore(8), Teacher: fmt.Sprintf("Teacher %02d", i),
		})
	}
	r, _ := newTestRouter(t, dataset.New(records), &fakeAnswerer{})

	reply := r.HandleText(context.Background(), "u1", "teachers")
	assert.Contains(t, reply.Text, "- Teacher 19")
	assert.NotContains(t, reply.Text, "- Teacher 20")
	assert.Contains(t, reply.Text, "…and 3 more")
}

func TestHandleText_EmptyDataset(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRouter(t, dataset.Empty(), &fakeAnswerer{})

	for _, q := range []string{"23070045", "Jose Aaron Castor Salinas", "teacher x", "teachers"} {
		assert.Equal(t, noDatasetText, r.HandleText(ctx, "u1", q).Text, q)
	}
}

func TestHandleText_Commands(t *testing.T) {
	ctx := context.Background()
	r, mem := newTestRouter(t, oneStudent(), &fakeAnswerer{})

	reply := r.HandleText(ctx, "u1", "/start")
	assert.Equal(t, command.WelcomeText, reply.Text)
	assert.Len(t, mem.History("u1"), 1)

	assert.Equal(t, promptText, r.HandleText(ctx, "u1", "   ").Text)
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRouter(t, oneStudent(), &fakeAnswerer{})

	grades := r.HandleCallback(ctx, "u1", "grades|23070045")
	assert.Contains(t, grades.Text, "- Ethics: 9.00 (Teacher: Alicia Murillo)")
	assert.Equal(t, "general|23070045", grades.Buttons[0][0].Data)

	general := r.HandleCallback(ctx, "u1", "general|23070045")
	assert.Contains(t, general.Text, "Average: 9.00")

	byName := r.HandleCallback(ctx, "u1", "al__Jose Aaron Castor Salinas")
	assert.Equal(t, general, byName)

	gradesByName := r.HandleCallback(ctx, "u1", "grades__Jose Aaron Castor Salinas")
	assert.Equal(t, grades, gradesByName)

	assert.Equal(t, promptText, r.HandleCallback(ctx, "u1", "back").Text)
	assert.Equal(t, idNotFoundText, r.HandleCallback(ctx, "u1", "grades|7").Text)
	assert.Equal(t, shortNameText, r.HandleCallback(ctx, "u1", "al__Jose").Text)
	assert.Equal(t, unknownAction, r.HandleCallback(ctx, "u1", "explode|1").Text)
}
