package installer

import "github.com/sandevgo/gradebot/internal/config"

// InstallState collects answers in the same structs the runtime parses, so
// the saved .env round-trips through config.New*Config.
type InstallState struct {
	App      config.AppConfig
	LLM      config.LLMConfig
	Telegram config.TelegramConfig

	// DatasetRows is the row count of the dataset checked by the wizard.
	DatasetRows int
}

func NewInstallState() *InstallState {
	return &InstallState{
		App: config.AppConfig{EnableCLI: true, EnableTranscripts: true},
		LLM: config.LLMConfig{Provider: config.ProviderNone},
	}
}
