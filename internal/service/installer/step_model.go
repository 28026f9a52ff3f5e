package installer

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/gradebot/internal/config"
	"github.com/sandevgo/gradebot/internal/providers/llm"
)

const modelsTimeout = 30 * time.Second

type modelPhase int

const (
	phaseIdle modelPhase = iota
	phaseFetching
	phasePicking
	phaseFailed
	phaseTyping
)

// modelItem is one entry in the model picker.
type modelItem struct {
	id       string
	provider string
}

func (i modelItem) Title() string       { return i.id }
func (i modelItem) Description() string { return i.provider }
func (i modelItem) FilterValue() string { return i.id }

// modelsFetched carries the outcome of listing the provider's models.
type modelsFetched struct {
	ids []string
	err error
}

// ModelStep asks the configured provider for its models and lets the
// operator pick one, or type an id when the listing is unavailable.
type ModelStep struct {
	phase  modelPhase
	picker list.Model
	manual textinput.Model
	err    error
}

func NewModelStep() Step {
	picker := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	picker.Title = "Select the chat model"
	picker.Styles.Title = titleStyle
	picker.SetShowStatusBar(true)
	picker.SetFilteringEnabled(true)

	manual := textinput.New()
	manual.Placeholder = "model id, e.g. gpt-4o-mini"

	return &ModelStep{picker: picker, manual: manual}
}

func (s *ModelStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if state.LLM.Provider == config.ProviderNone {
		return nil, nil
	}
	s.picker.SetSize(width, height-4)

	if s.phase == phaseIdle {
		s.phase = phaseFetching
		return s, listModels(state.LLM)
	}

	if res, ok := msg.(modelsFetched); ok {
		return s.onFetched(res, state.LLM.Provider)
	}

	key, isKey := msg.(tea.KeyMsg)
	switch s.phase {
	case phaseFailed:
		if !isKey {
			return s, nil
		}
		switch key.String() {
		case "enter":
			s.err = nil
			s.phase = phaseFetching
			return s, listModels(state.LLM)
		case "m":
			s.phase = phaseTyping
			return s, s.manual.Focus()
		case "s":
			return nil, nil
		}
		return s, nil

	case phaseTyping:
		if isKey && key.Type == tea.KeyEnter {
			if id := strings.TrimSpace(s.manual.Value()); id != "" {
				state.LLM.Model = id
				return nil, nil
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.manual, cmd = s.manual.Update(msg)
		return s, cmd

	case phasePicking:
		filtering := s.picker.FilterState() == list.Filtering
		var cmd tea.Cmd
		s.picker, cmd = s.picker.Update(msg)
		if !isKey || key.Type != tea.KeyEnter || filtering || s.picker.FilterState() == list.Filtering {
			return s, cmd
		}
		if it, ok := s.picker.SelectedItem().(modelItem); ok {
			state.LLM.Model = it.id
			return nil, nil
		}
		return s, cmd
	}

	return s, nil
}

func (s *ModelStep) onFetched(res modelsFetched, provider string) (Step, tea.Cmd) {
	if res.err == nil && len(res.ids) == 0 {
		res.err = fmt.Errorf("%s returned no models", provider)
	}
	if res.err != nil {
		s.err = res.err
		s.phase = phaseFailed
		return s, nil
	}

	items := make([]list.Item, len(res.ids))
	for i, id := range res.ids {
		items[i] = modelItem{id: id, provider: provider}
	}
	s.phase = phasePicking
	return s, s.picker.SetItems(items)
}

func (s *ModelStep) View(state *InstallState) string {
	switch s.phase {
	case phaseFailed:
		return errorStyle.Render("Could not list models: "+s.err.Error()) +
			"\n\nCheck the key and URL.\n\n" +
			itemStyle.Render("enter retry · m type a model id · s keep "+state.LLM.Model) + "\n"
	case phaseTyping:
		return titleStyle.Render("Model id") + "\n\n" + s.manual.View() + "\n"
	case phasePicking:
		return s.picker.View()
	default:
		return "Fetching models from " + state.LLM.Provider + "...\n"
	}
}

func listModels(cfg config.LLMConfig) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), modelsTimeout)
		defer cancel()

		client, err := llm.NewProvider(ctx, &cfg)
		if err != nil {
			return modelsFetched{err: err}
		}
		if client == nil {
			return modelsFetched{err: fmt.Errorf("provider %s is not fully configured", cfg.Provider)}
		}

		ids, err := client.Models(ctx)
		if err != nil {
			return modelsFetched{err: err}
		}
		slices.Sort(ids)
		return modelsFetched{ids: ids}
	}
}
