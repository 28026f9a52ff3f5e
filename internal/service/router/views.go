package router

import (
	"fmt"
	"strings"

	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/internal/service/command"
	"github.com/sandevgo/gradebot/internal/service/resolver"
	"github.com/sandevgo/gradebot/internal/storage/dataset"
)

const (
	promptText     = "✏️ Send an **enrollment id**, a student's **full name**, or **teacher <name>**:"
	apologyText    = "🔴 Error processing the query. Please try rephrasing it."
	noDatasetText  = "⚠️ The grades database is not available. Please try again later."
	idNotFoundText = "❌ Enrollment id not found."
	shortNameText  = "✏️ Please send the **full name**: given name(s), paternal and maternal family names.\nExample: `José Aarón Castor Salinas`"
	unknownAction  = "❓ Unknown action."

	maxTeacherSubjects = 5
	maxTeacherPrograms = 3
)

// views renders resolver results as Markdown replies.
type views struct {
	f *command.ResponseFormatter
}

func newViews() views {
	return views{f: command.NewResponseFormatter()}
}

func (v views) navButtons(first core.Button) [][]core.Button {
	return [][]core.Button{{first, {Label: "🔄 Look up another", Data: ActionBack}}}
}

func (v views) profile(s resolver.Student) core.Reply {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 **Student: %s**\n", s.Name)
	fmt.Fprintf(&b, "🎓 Program: %s\n", orNA(s.Program))
	fmt.Fprintf(&b, "🔢 Enrollment id: %s\n", s.EnrollmentID)
	fmt.Fprintf(&b, "⭐ Average: %s\n", s.Mean.Format(2))
	fmt.Fprintf(&b, "📅 Term: %s", orNA(s.Term))

	return core.Reply{
		Text:    b.String(),
		Buttons: v.navButtons(core.Button{Label: "📊 View grades", Data: gradesByID(s.EnrollmentID)}),
	}
}

func (v views) grades(s resolver.Student) core.Reply {
	lines := []string{fmt.Sprintf("📊 **Grades of %s:**", s.Name)}
	for _, r := range s.Rows {
		lines = append(lines, fmt.Sprintf("- %s: %s (Teacher: %s)", orNA(r.Subject), r.Grade.Format(2), orNA(r.Teacher)))
	}

	return core.Reply{
		Text:    strings.Join(lines, "\n"),
		Buttons: v.navButtons(core.Button{Label: "👤 View student", Data: generalByID(s.EnrollmentID)}),
	}
}

func (v views) teachers(stats []dataset.TeacherStats) core.Reply {
	blocks := make([]string, 0, len(stats))
	for _, st := range stats {
		blocks = append(blocks, fmt.Sprintf(
			"👨‍🏫 **Teacher: %s**\n📚 Subjects: %s\n🏫 Programs: %s\n⭐ Average grade: %s\n👥 Students: %d",
			st.Name,
			truncList(st.Subjects, maxTeacherSubjects),
			truncList(st.Programs, maxTeacherPrograms),
			st.Mean.Format(2),
			st.StudentCount,
		))
	}
	return core.TextReply(strings.Join(blocks, "\n\n"))
}

func (v views) roster(names []string, rest int) core.Reply {
	return core.TextReply(v.f.Roster(names, rest))
}

func (v views) teacherNotFound(name string) core.Reply {
	return core.TextReply(fmt.Sprintf("⚠️ Teacher not found: %s", name))
}

// suggestions lists near matches, each with a button that opens the
// profile by name.
func (v views) suggestions(query string, names []resolver.Name) core.Reply {
	if len(names) == 0 {
		return core.TextReply(fmt.Sprintf("❌ No student matches \"%s\".", query))
	}

	items := make([]string, 0, len(names))
	buttons := make([][]core.Button, 0, len(names))
	for _, n := range names {
		items = append(items, n.String())
		buttons = append(buttons, []core.Button{{Label: n.String(), Data: profileByName(n.String())}})
	}

	return core.Reply{
		Text:    v.f.Section("🔎", fmt.Sprintf("No exact match for \"%s\". Did you mean:", query), v.f.List(items)),
		Buttons: buttons,
	}
}

func (v views) noDataHint(query string) core.Reply {
	return core.TextReply(fmt.Sprintf(
		"🔍 I found no data for: \"%s\"\n\nℹ️ Try:\n- An enrollment id (e.g. 23070045)\n- A student's full name\n- A teacher's name (e.g. teacher Alicia Murillo)\n- \"List teachers\"",
		query,
	))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func truncList(items []string, n int) string {
	if len(items) == 0 {
		return "N/A"
	}
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:n], ", ") + "..."
}
