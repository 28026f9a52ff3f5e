// Package router turns one incoming message or button press into one reply.
// Every failure is absorbed here and rendered as text.
package router

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/internal/service/assistant"
	"github.com/sandevgo/gradebot/internal/service/command"
	"github.com/sandevgo/gradebot/internal/service/memory"
	"github.com/sandevgo/gradebot/internal/service/resolver"
	"github.com/sandevgo/gradebot/internal/storage/dataset"
	"github.com/sandevgo/gradebot/pkg/log"
	"github.com/sandevgo/gradebot/pkg/textnorm"
)

// rosterKeywords are whole normalized messages that ask for the teacher list.
var rosterKeywords = map[string]struct{}{
	"profesores":          {},
	"lista de profesores": {},
	"docentes":            {},
	"teachers":            {},
	"list teachers":       {},
	"list of teachers":    {},
	"teacher list":        {},
}

// teacherWords open a direct teacher query: "teacher <name>".
var teacherWords = map[string]struct{}{
	"profesor":  {},
	"profesora": {},
	"docente":   {},
	"teacher":   {},
	"prof":      {},
}

// teacherMention finds "teacher <words>" inside a longer sentence. It runs on
// normalized text, so only lowercase letters, digits and spaces occur.
var teacherMention = regexp.MustCompile(`\b(?:profesora?|docente|teacher)\s+([\p{L}\p{N} ]+)`)

const minMentionLen = 3

// Answerer is the LLM-assisted path.
type Answerer interface {
	Available() bool
	Answer(ctx context.Context, userID, query string) (assistant.Answer, error)
}

type Router struct {
	resolver *resolver.Resolver
	mem      core.Memory
	ai       Answerer
	commands core.CmdRouter
	views    views
}

func New(res *resolver.Resolver, mem core.Memory, ai Answerer, commands core.CmdRouter) *Router {
	return &Router{
		resolver: res,
		mem:      mem,
		ai:       ai,
		commands: commands,
		views:    newViews(),
	}
}

// HandleText answers a free-text message or a slash command.
func (r *Router) HandleText(ctx context.Context, userID, text string) core.Reply {
	ctx = r.turnContext(ctx, userID)
	text = strings.TrimSpace(text)
	if text == "" {
		return core.TextReply(promptText)
	}

	if r.commands != nil {
		if reply, ok := r.commands.Execute(ctx, userID, text); ok {
			return reply
		}
	}

	log.FromCtx(ctx).Debug().Str("text", text).Msg("routing message")
	return r.route(ctx, userID, text)
}

// HandleCallback answers a button press.
func (r *Router) HandleCallback(ctx context.Context, userID, data string) core.Reply {
	ctx = r.turnContext(ctx, userID)

	cb, ok := ParseCallback(data)
	if !ok {
		log.FromCtx(ctx).Warn().Str("data", data).Msg("unknown callback")
		return core.TextReply(unknownAction)
	}

	if cb.Action == ActionBack {
		return core.TextReply(promptText)
	}

	var s resolver.Student
	var err error
	if cb.ByName {
		s, err = r.resolver.StudentByName(cb.Value)
	} else {
		s, err = r.resolver.StudentByID(cb.Value)
	}
	if err != nil {
		return r.lookupFailure(cb.Value, err)
	}

	if cb.Action == ActionGrades {
		return r.views.grades(s)
	}
	r.rememberStudent(ctx, s)
	return r.views.profile(s)
}

func (r *Router) route(ctx context.Context, userID, text string) core.Reply {
	canon := textnorm.Canonical(text)

	if isDigits(text) {
		s, err := r.resolver.StudentByID(text)
		if err == nil {
			r.rememberStudent(ctx, s)
			return r.views.profile(s)
		}
		if errors.Is(err, core.ErrDataUnavailable) {
			return core.TextReply(noDatasetText)
		}
		return r.fallback(ctx, userID, text, core.TextReply(idNotFoundText))
	}

	if _, ok := rosterKeywords[canon]; ok {
		return r.roster()
	}

	if name, ok := teacherQuery(text); ok {
		return r.teacher(ctx, name)
	}

	if len(strings.Fields(canon)) >= resolver.MinNameTokens {
		s, err := r.resolver.StudentByName(text)
		if err == nil {
			r.rememberStudent(ctx, s)
			return r.views.profile(s)
		}
		if errors.Is(err, core.ErrDataUnavailable) {
			return core.TextReply(noDatasetText)
		}

		var nm *resolver.NoMatchError
		var suggestions []resolver.Name
		if errors.As(err, &nm) {
			suggestions = nm.Suggestions
		}
		return r.fallback(ctx, userID, text, r.views.suggestions(text, suggestions))
	}

	return r.fallback(ctx, userID, text, core.TextReply(shortNameText))
}

// fallback handles everything the direct lookups could not. Without an LLM
// the lookupOnly reply (guidance or name suggestions) is returned as is; an
// LLM answer is returned unchanged.
func (r *Router) fallback(ctx context.Context, userID, text string, lookupOnly core.Reply) core.Reply {
	if stats, ok := r.mentionedTeacher(text); ok {
		r.rememberTeachers(ctx, stats)
		return r.views.teachers(stats)
	}

	if r.ai == nil || !r.ai.Available() {
		return lookupOnly
	}

	ans, err := r.ai.Answer(ctx, userID, text)
	if err != nil {
		if errors.Is(err, core.ErrDataUnavailable) {
			return core.TextReply(noDatasetText)
		}
		log.FromCtx(ctx).Warn().Err(err).Msg("llm path failed")
		return core.TextReply(apologyText)
	}

	if ans.NoData {
		return r.views.noDataHint(text)
	}
	return core.TextReply(ans.Text)
}

func (r *Router) roster() core.Reply {
	names, rest, err := r.resolver.Roster(command.RosterLimit)
	switch {
	case errors.Is(err, core.ErrDataUnavailable):
		return core.TextReply(noDatasetText)
	case err != nil:
		return core.TextReply("No teachers found in the database.")
	}
	return r.views.roster(names, rest)
}

func (r *Router) teacher(ctx context.Context, name string) core.Reply {
	stats, err := r.resolver.Teachers(name)
	switch {
	case errors.Is(err, core.ErrDataUnavailable):
		return core.TextReply(noDatasetText)
	case err != nil:
		return r.views.teacherNotFound(name)
	}
	r.rememberTeachers(ctx, stats)
	return r.views.teachers(stats)
}

// mentionedTeacher looks for "teacher <name>" inside free text, trying the
// longest run of words after the keyword first.
func (r *Router) mentionedTeacher(text string) ([]dataset.TeacherStats, bool) {
	m := teacherMention.FindStringSubmatch(textnorm.Canonical(text))
	if m == nil {
		return nil, false
	}

	words := strings.Fields(m[1])
	for n := len(words); n > 0; n-- {
		candidate := strings.Join(words[:n], " ")
		if len([]rune(candidate)) < minMentionLen {
			continue
		}
		if stats, err := r.resolver.Teachers(candidate); err == nil {
			return stats, true
		}
	}
	return nil, false
}

func (r *Router) lookupFailure(value string, err error) core.Reply {
	var nm *resolver.NoMatchError
	switch {
	case errors.Is(err, core.ErrDataUnavailable):
		return core.TextReply(noDatasetText)
	case errors.Is(err, core.ErrValidation):
		return core.TextReply(shortNameText)
	case errors.As(err, &nm):
		return r.views.suggestions(value, nm.Suggestions)
	default:
		return core.TextReply(idNotFoundText)
	}
}

func (r *Router) rememberStudent(ctx context.Context, s resolver.Student) {
	r.mem.UpsertKnowledge(ctx, core.CategoryStudent, s.EnrollmentID, core.KnowledgeEntry{
		Attributes: core.Attributes{
			"name":    s.Name.String(),
			"program": orNA(s.Program),
			"term":    orNA(s.Term),
			"mean":    scoreAttr(s.Mean),
		},
		Keywords: memory.KeywordsFor(s.EnrollmentID, s.Name.Given, s.Name.Paternal),
	})
}

func (r *Router) rememberTeachers(ctx context.Context, stats []dataset.TeacherStats) {
	for _, st := range stats {
		r.mem.UpsertKnowledge(ctx, core.CategoryTeacher, st.Name, core.KnowledgeEntry{
			Attributes: core.Attributes{
				"subjects": st.Subjects,
				"programs": st.Programs,
				"terms":    st.Terms,
				"mean":     scoreAttr(st.Mean),
				"students": st.StudentCount,
			},
			Keywords: memory.KeywordsFor(st.Name),
		})
	}
}

func (r *Router) turnContext(ctx context.Context, userID string) context.Context {
	turnID := uuid.NewString()
	ctx = core.WithTurnID(ctx, turnID)
	l := log.FromCtx(ctx).With().
		Str("user_id", userID).
		Str("turn_id", turnID).
		Logger()
	return l.WithContext(ctx)
}

// teacherQuery splits "teacher <name>" into the name part.
func teacherQuery(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", false
	}
	if _, ok := teacherWords[textnorm.Canonical(fields[0])]; !ok {
		return "", false
	}
	return strings.Join(fields[1:], " "), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func scoreAttr(s dataset.Score) any {
	if !s.Valid {
		return "N/A"
	}
	return s.Value
}
