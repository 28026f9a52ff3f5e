package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/gradebot/internal/config"
	"github.com/sandevgo/gradebot/pkg/env"
)

// SaveEnvStep writes the answers to the runtime .env and finishes. On
// failure it stays on screen with the error until the operator quits.
type SaveEnvStep struct {
	dir string
	err error
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{dir: config.GetRuntimePath()}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(_ tea.Msg, state *InstallState, _, _ int) (Step, tea.Cmd) {
	if s.err != nil {
		return s, nil
	}
	if s.err = SaveEnv(s.dir, state); s.err != nil {
		return s, nil
	}
	return nil, nil
}

func (s *SaveEnvStep) View(*InstallState) string {
	if s.err == nil {
		return "Writing " + filepath.Join(s.dir, ".env") + "...\n"
	}
	return errorStyle.Render("Could not save: "+s.err.Error()) + "\n\n" +
		itemStyle.Render("ctrl+c to quit") + "\n"
}

// SaveEnv creates dir/.env with mode 0600 since it holds API keys and the
// bot token. An existing file is left untouched.
func SaveEnv(dir string, state *InstallState) error {
	body, err := env.MarshalEnv(&state.App, &state.LLM, &state.Telegram)
	if err != nil {
		return fmt.Errorf("encode .env: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create runtime dir: %w", err)
	}

	path := filepath.Join(dir, ".env")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%s already exists, remove it to reconfigure", path)
	}
	if err != nil {
		return fmt.Errorf("create .env: %w", err)
	}

	if _, err := f.WriteString(body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write .env: %w", err)
	}
	return f.Close()
}
