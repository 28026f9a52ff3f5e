package installer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/gradebot/internal/config"
)

// FinalizationStep drops answers that the chosen options made irrelevant.
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	if !state.App.EnableTelegram {
		state.Telegram = config.TelegramConfig{}
	}
	if state.LLM.Provider == config.ProviderNone {
		state.LLM = config.LLMConfig{Provider: config.ProviderNone}
	}
	if state.App.CSVDelimiter == "," {
		state.App.CSVDelimiter = ""
	}
}
