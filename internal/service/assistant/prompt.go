package assistant

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sandevgo/gradebot/internal/storage/dataset"
)

const promptPreamble = `You are an academic assistant specialized in student records.
Key facts:
1. Students have: enrollment id, name (given name + paternal + maternal family name), program, mean grade.
2. Teachers are listed in the Teacher column and relate to subjects and students.
3. Each row is one student in one subject with one teacher.`

const promptColumns = `Columns:
- Program: full program name
- EnrollmentID: unique student identifier (a string, keep leading zeros)
- GivenName, PaternalName, MaternalName: parts of the STUDENT's name
- Subject: full subject name
- Grade: number from 0 to 10, empty when missing
- Term: academic period
- Teacher: name of the TEACHER
- Gender: M/F`

// promptInput is everything the system prompt is assembled from.
type promptInput struct {
	Summary  dataset.Summary
	Sample   []dataset.Record
	History  []core.Turn
	Recalled []core.Recalled
}

type recalledView struct {
	Category   string          `json:"category"`
	Key        string          `json:"key"`
	Attributes core.Attributes `json:"attributes,omitempty"`
	Keywords   []string        `json:"keywords,omitempty"`
}

// buildSystemPrompt renders in and, when budget > 0, drops the oldest
// history turns and then sample rows until the prompt fits.
func buildSystemPrompt(in promptInput, budget int, count TokenCounter) string {
	history := in.History
	sample := in.Sample

	for {
		p := renderPrompt(in.Summary, sample, history, in.Recalled)
		if budget <= 0 || count(p) <= budget {
			return p
		}
		switch {
		case len(history) > 0:
			history = history[1:]
		case len(sample) > 0:
			sample = sample[:len(sample)-1]
		default:
			return p
		}
	}
}

func renderPrompt(summary dataset.Summary, sample []dataset.Record, history []core.Turn, recalled []core.Recalled) string {
	var b strings.Builder

	b.WriteString(promptPreamble)
	b.WriteString("\n\nDataset summary:\n")
	b.WriteString(summary.String())
	b.WriteString("\n\n")
	b.WriteString(promptColumns)

	b.WriteString("\n\nRelated knowledge:\n")
	b.WriteString(renderRecalled(recalled))

	b.WriteString("\n\nHistory:\n")
	for _, t := range history {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}

	b.WriteString("\nSample rows:\n")
	for _, r := range sample {
		fmt.Fprintf(&b, "- Student: %s | Subject: %s (%s) | Teacher: %s | Program: %s | Term: %s\n",
			r.FullName(), r.Subject, r.Grade, r.Teacher, r.Program, r.Term)
	}

	return b.String()
}

func renderRecalled(recalled []core.Recalled) string {
	if len(recalled) == 0 {
		return "None"
	}

	views := make([]recalledView, 0, len(recalled))
	for _, r := range recalled {
		views = append(views, recalledView{
			Category:   r.Category,
			Key:        r.Key,
			Attributes: r.Entry.Attributes,
			Keywords:   r.Entry.Keywords,
		})
	}

	data, err := json.Marshal(views)
	if err != nil {
		return "None"
	}
	return string(data)
}
