package installer

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type choice struct {
	label string
	apply func(*InstallState)
}

// SelectStep picks one of a fixed set of choices. Arrows (or j/k) move the
// cursor and wrap around; digits jump straight to a choice.
type SelectStep struct {
	title   string
	choices []choice
	cursor  int
}

func (s *SelectStep) Init() tea.Cmd { return nil }

func (s *SelectStep) Update(msg tea.Msg, state *InstallState, _, _ int) (Step, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(s.choices) == 0 {
		return s, nil
	}

	n := len(s.choices)
	switch k := key.String(); k {
	case "up", "k":
		s.cursor = (s.cursor - 1 + n) % n
	case "down", "j", "tab":
		s.cursor = (s.cursor + 1) % n
	case "enter":
		s.choices[s.cursor].apply(state)
		return nil, nil
	default:
		if i, err := strconv.Atoi(k); err == nil && i >= 1 && i <= n {
			s.cursor = i - 1
		}
	}
	return s, nil
}

func (s *SelectStep) View(*InstallState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.title) + "\n\n")
	for i, c := range s.choices {
		line := strconv.Itoa(i+1) + ". " + c.label
		if i == s.cursor {
			b.WriteString(selStyle.Render("❯ "+line) + "\n")
			continue
		}
		b.WriteString(itemStyle.Render("  "+line) + "\n")
	}
	b.WriteString("\n" + itemStyle.Render("enter to confirm · ctrl+c to quit") + "\n")
	return b.String()
}
