package installer

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandevgo/gradebot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func typeText(s Step, state *InstallState, text string) Step {
	for _, r := range text {
		s, _ = s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, state, 80, 24)
	}
	return s
}

func TestSelectStep(t *testing.T) {
	state := NewInstallState()
	step := NewProviderStep()

	step, _ = step.Update(tea.KeyMsg{Type: tea.KeyDown}, state, 80, 24)
	step, _ = step.Update(tea.KeyMsg{Type: tea.KeyDown}, state, 80, 24)
	next, _ := step.Update(enter(), state, 80, 24)

	assert.Nil(t, next)
	assert.Equal(t, config.ProviderOpenRouter, state.LLM.Provider)
}

func TestInputStep_SkippedForOtherProviders(t *testing.T) {
	state := NewInstallState()
	state.LLM.Provider = config.ProviderOpenAI

	steps := NewProviderSettingsSteps()
	// Ollama URL prompt.
	next, _ := steps[0].Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)

	// OpenAI key prompt stays.
	next, _ = steps[2].Update(nextMsg{}, state, 80, 24)
	assert.NotNil(t, next)
}

func TestInputStep_AppliesValue(t *testing.T) {
	state := NewInstallState()
	state.LLM.Provider = config.ProviderOpenAI

	step := typeText(NewProviderSettingsSteps()[2], state, "sk-test")
	next, _ := step.Update(enter(), state, 80, 24)

	assert.Nil(t, next)
	assert.Equal(t, "sk-test", state.LLM.OpenAIAPIKey)
}

func TestInputStep_RequiredAndInvalid(t *testing.T) {
	state := NewInstallState()
	state.LLM.Provider = config.ProviderCustom
	step := NewProviderSettingsSteps()[1]

	next, _ := step.Update(enter(), state, 80, 24)
	require.NotNil(t, next)
	assert.Contains(t, next.View(state), "a value is required")

	next = typeText(next, state, "not a url")
	next, _ = next.Update(enter(), state, 80, 24)
	require.NotNil(t, next)
	assert.Contains(t, next.View(state), "not a valid URL")
	assert.Empty(t, state.LLM.CustomOpenAIBaseURL)
}

func TestApplyDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grades.csv")
	csv := "Matricula,Nombre,Paterno,Materno,Carrera,Materia,Calificacion,Cuatrimestre,Profesor,Genero\n" +
		"23070045,José Aarón,Castor,Salinas,Derecho,Ética,9,3,Alicia Murillo,M\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	state := NewInstallState()
	require.NoError(t, applyDataset(state, path))
	assert.Equal(t, path, state.App.CSVPath)
	assert.Equal(t, 1, state.DatasetRows)

	assert.Error(t, applyDataset(state, filepath.Join(dir, "missing.csv")))
}

func TestParseUserIDs(t *testing.T) {
	ids, err := parseUserIDs(" 1, 22 ,,333")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 22, 333}, ids)

	_, err = parseUserIDs("abc")
	assert.Error(t, err)
}

func TestSaveEnv(t *testing.T) {
	dir := t.TempDir()
	state := NewInstallState()
	state.App.CSVPath = "/data/grades.csv"
	state.App.CSVDelimiter = ","
	state.App.EnableCLI = false
	state.App.EnableTelegram = true
	state.LLM.Provider = config.ProviderNone
	state.LLM.OpenAIAPIKey = "left over"
	state.Telegram.Token = "123:abc"
	state.Telegram.AllowedUsers = []int64{7, 8}
	finalize(state)

	require.NoError(t, SaveEnv(dir, state))

	vars, err := godotenv.Read(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"CSV_PATH":               "/data/grades.csv",
		"ENABLE_TELEGRAM":        "true",
		"ENABLE_CLI":             "false",
		"LLM_PROVIDER":           "none",
		"TELEGRAM_TOKEN":         "123:abc",
		"TELEGRAM_ALLOWED_USERS": "7,8",
	}, vars)

	info, err := os.Stat(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	assert.ErrorContains(t, SaveEnv(dir, state), "already exists")
}

// stubStep finishes on enter, or immediately when skip is set.
type stubStep struct {
	skip bool
	name string
}

func (s *stubStep) Init() tea.Cmd { return nil }
func (s *stubStep) Update(msg tea.Msg, _ *InstallState, _, _ int) (Step, tea.Cmd) {
	if s.skip {
		return nil, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEnter {
		return nil, nil
	}
	return s, nil
}
func (s *stubStep) View(*InstallState) string { return "screen " + s.name }

func TestWizard_AdvancesAndSkips(t *testing.T) {
	w := newWizard([]Step{&stubStep{name: "a"}, &stubStep{name: "b", skip: true}, &stubStep{name: "c"}})
	assert.Contains(t, w.View(), "screen a")
	assert.Contains(t, w.View(), "step 1/3")

	w, _ = w.update(enter())
	assert.Equal(t, 1, w.pos)

	// The skipping step gives up the screen on its first message.
	w, _ = w.update(nextMsg{})
	assert.Equal(t, 2, w.pos)
	assert.Contains(t, w.View(), "screen c")

	w, cmd := w.update(enter())
	assert.True(t, w.done())
	require.NotNil(t, cmd)
	assert.Contains(t, w.View(), "GradeBot is configured")
}

func TestWizard_CtrlC(t *testing.T) {
	w := newWizard([]Step{&stubStep{name: "a"}})
	w, cmd := w.update(tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.True(t, w.aborted)
	require.NotNil(t, cmd)
	assert.Equal(t, "Setup cancelled.\n", w.View())
}

func TestModelStep_SkippedWithoutProvider(t *testing.T) {
	next, _ := NewModelStep().Update(nextMsg{}, NewInstallState(), 80, 24)
	assert.Nil(t, next)
}

func TestModelStep_Pick(t *testing.T) {
	state := NewInstallState()
	state.LLM.Provider = config.ProviderOpenAI
	state.LLM.OpenAIAPIKey = "sk"

	step, cmd := NewModelStep().Update(nextMsg{}, state, 80, 24)
	require.NotNil(t, step)
	require.NotNil(t, cmd)
	assert.Contains(t, step.View(state), "Fetching models from openai")

	step, _ = step.Update(modelsFetched{ids: []string{"gpt-4o", "gpt-4o-mini"}}, state, 80, 24)
	step, _ = step.Update(tea.KeyMsg{Type: tea.KeyDown}, state, 80, 24)
	next, _ := step.Update(enter(), state, 80, 24)

	assert.Nil(t, next)
	assert.Equal(t, "gpt-4o-mini", state.LLM.Model)
}

func TestModelStep_ManualAfterFailure(t *testing.T) {
	state := NewInstallState()
	state.LLM.Provider = config.ProviderOllama
	state.LLM.OllamaBaseURL = "http://localhost:11434"

	step, _ := NewModelStep().Update(nextMsg{}, state, 80, 24)
	step, _ = step.Update(modelsFetched{}, state, 80, 24)
	assert.Contains(t, step.View(state), "returned no models")

	step, _ = step.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}}, state, 80, 24)
	step = typeText(step, state, "llama3.1")
	next, _ := step.Update(enter(), state, 80, 24)

	assert.Nil(t, next)
	assert.Equal(t, "llama3.1", state.LLM.Model)
}

func TestSelectStep_WrapAndDigits(t *testing.T) {
	var picked string
	step := &SelectStep{title: "pick", choices: []choice{
		{label: "a", apply: func(*InstallState) { picked = "a" }},
		{label: "b", apply: func(*InstallState) { picked = "b" }},
		{label: "c", apply: func(*InstallState) { picked = "c" }},
	}}
	state := NewInstallState()

	step.Update(tea.KeyMsg{Type: tea.KeyUp}, state, 80, 24)
	assert.Equal(t, 2, step.cursor)

	step.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}}, state, 80, 24)
	assert.Equal(t, 1, step.cursor)
	assert.Contains(t, step.View(state), "❯ 2. b")

	next, _ := step.Update(enter(), state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "b", picked)
}
