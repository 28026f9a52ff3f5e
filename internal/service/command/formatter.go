package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/gradebot/internal/core"
)

// ResponseFormatter builds the Markdown used by command and lookup replies.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("⚙️️ **%s**\n\n", title)
}

func (f *ResponseFormatter) Success(message string) string {
	return fmt.Sprintf("✅ **%s**\n", message)
}

// Error renders a failed command. Known failure kinds get a fixed sentence;
// anything else shows the error text.
func (f *ResponseFormatter) Error(command string, err error) string {
	issue := err.Error()
	switch {
	case errors.Is(err, core.ErrDataUnavailable):
		issue = "the grades database is not available"
	case errors.Is(err, core.ErrNotFound):
		issue = "nothing matched"
	}
	return fmt.Sprintf("❌ **/%s failed**\n\n**Issue**: %s\n", command, issue)
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`\n", label, value)
}

// List renders a Markdown bullet list, one item per line.
func (f *ResponseFormatter) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("- " + item + "\n")
	}
	return sb.String()
}

func (f *ResponseFormatter) Tip(text string) string {
	return fmt.Sprintf("**Tip**: %s\n", text)
}

func (f *ResponseFormatter) Section(emoji, title, content string) string {
	return fmt.Sprintf("%s **%s**\n\n%s\n", emoji, title, content)
}

// Roster renders the teacher list with the number of names left out.
func (f *ResponseFormatter) Roster(names []string, rest int) string {
	out := f.Section("👨‍🏫", "Teachers", f.List(names))
	if rest > 0 {
		out += fmt.Sprintf("\n…and %d more\n", rest)
	}
	return out
}

func (f *ResponseFormatter) Combine(sections ...string) string {
	return strings.Join(sections, "\n")
}
