package installer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/gradebot/internal/service/ui"
)

// ErrInterrupted is returned when the operator quits before the .env is saved.
var ErrInterrupted = errors.New("gradebot setup interrupted")

var (
	titleStyle = ui.StepTitleStyle
	itemStyle  = ui.ItemStyle
	selStyle   = ui.SelectedStyle
	errorStyle = ui.ErrorStyle
)

// Step is one screen of the wizard. Update returns nil when the step is done;
// a step that does not apply to the current answers returns nil right away.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

// nextMsg wakes a freshly started step so it can decide whether to skip.
type nextMsg struct{}

func getSteps() []Step {
	steps := []Step{NewDelimiterStep(), NewDatasetStep(), NewProviderStep()}
	steps = append(steps, NewProviderSettingsSteps()...)
	steps = append(steps, NewModelStep(), NewChannelStep())
	steps = append(steps, NewTelegramSteps()...)
	return append(steps, NewFinalizationStep(), NewSaveEnvStep())
}

type wizard struct {
	steps  []Step
	pos    int
	state  *InstallState
	bar    progress.Model
	width  int
	height int

	aborted bool
}

func newWizard(steps []Step) wizard {
	return wizard{
		steps: steps,
		state: NewInstallState(),
		bar:   progress.New(progress.WithSolidFill("2"), progress.WithoutPercentage(), progress.WithWidth(30)),
	}
}

func (w wizard) done() bool { return w.pos >= len(w.steps) }

func (w wizard) Init() tea.Cmd {
	if w.done() {
		return tea.Quit
	}
	return w.steps[0].Init()
}

func (w wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return w.update(msg)
}

func (w wizard) update(msg tea.Msg) (wizard, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			w.aborted = true
			return w, tea.Quit
		}
	}
	if w.aborted || w.done() {
		return w, tea.Quit
	}

	next, cmd := w.steps[w.pos].Update(msg, w.state, w.width, max(w.height-3, 0))
	if next != nil {
		w.steps[w.pos] = next
		return w, cmd
	}

	// Skipped or answered: advance until a step wants the screen.
	w.pos++
	if w.done() {
		return w, tea.Quit
	}
	return w, w.steps[w.pos].Init()
}

func (w wizard) View() string {
	if w.aborted {
		return "Setup cancelled.\n"
	}
	if w.done() {
		return summary(w.state)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Setting up GradeBot"))
	fmt.Fprintf(&b, "  step %d/%d  ", w.pos+1, len(w.steps))
	b.WriteString(w.bar.ViewAs(float64(w.pos) / float64(len(w.steps))))
	b.WriteString("\n\n")
	b.WriteString(w.steps[w.pos].View(w.state))
	return b.String()
}

func summary(s *InstallState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("GradeBot is configured") + "\n")
	fmt.Fprintf(&b, "  dataset   %s (%d rows)\n", s.App.CSVPath, s.DatasetRows)
	if s.LLM.Provider == "" || s.LLM.Model == "" {
		fmt.Fprintf(&b, "  llm       %s\n", s.LLM.Provider)
	} else {
		fmt.Fprintf(&b, "  llm       %s / %s\n", s.LLM.Provider, s.LLM.Model)
	}
	fmt.Fprintf(&b, "  terminal  %t\n  telegram  %t\n", s.App.EnableCLI, s.App.EnableTelegram)
	return b.String()
}

// RunWizard runs the setup TUI; the last step writes the runtime .env.
func RunWizard() (*InstallState, error) {
	final, err := tea.NewProgram(newWizard(getSteps()), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, fmt.Errorf("setup wizard: %w", err)
	}

	w, ok := final.(wizard)
	if !ok || w.aborted || !w.done() {
		return nil, ErrInterrupted
	}
	return w.state, nil
}
