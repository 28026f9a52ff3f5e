package installer

import (
	"fmt"
	"net/url"

	"github.com/sandevgo/gradebot/internal/config"
)

func NewProviderStep() Step {
	pick := func(p string) func(*InstallState) {
		return func(s *InstallState) { s.LLM.Provider = p }
	}
	return &SelectStep{
		title: "Select the LLM used for free-form questions",
		choices: []choice{
			{label: "None (lookups only)", apply: pick(config.ProviderNone)},
			{label: "OpenAI", apply: pick(config.ProviderOpenAI)},
			{label: "OpenRouter", apply: pick(config.ProviderOpenRouter)},
			{label: "Ollama", apply: pick(config.ProviderOllama)},
			{label: "Custom OpenAI-compatible", apply: pick(config.ProviderCustom)},
		},
	}
}

// NewProviderSettingsSteps returns the URL and key prompts. Each one only
// shows for the providers that need it.
func NewProviderSettingsSteps() []Step {
	only := func(providers ...string) inputOption {
		return skipWhen(func(s *InstallState) bool {
			for _, p := range providers {
				if s.LLM.Provider == p {
					return false
				}
			}
			return true
		})
	}

	return []Step{
		newInputStep("Ollama base URL", "http://localhost:11434", func(s *InstallState, val string) error {
			if val == "" {
				val = "http://localhost:11434"
			}
			if err := validateURL(val); err != nil {
				return err
			}
			s.LLM.OllamaBaseURL = val
			return nil
		}, optional(), only(config.ProviderOllama)),

		newInputStep("Custom OpenAI base URL", "https://api.example.com/v1", func(s *InstallState, val string) error {
			if err := validateURL(val); err != nil {
				return err
			}
			s.LLM.CustomOpenAIBaseURL = val
			return nil
		}, only(config.ProviderCustom)),

		newInputStep("OpenAI API key", "sk-...", func(s *InstallState, val string) error {
			s.LLM.OpenAIAPIKey = val
			return nil
		}, secret(), only(config.ProviderOpenAI)),

		newInputStep("OpenRouter API key", "sk-or-v1-...", func(s *InstallState, val string) error {
			s.LLM.OpenRouterAPIKey = val
			return nil
		}, secret(), only(config.ProviderOpenRouter)),

		newInputStep("Ollama API key", "", func(s *InstallState, val string) error {
			s.LLM.OllamaAPIKey = val
			return nil
		}, secret(), optional(), only(config.ProviderOllama)),

		newInputStep("Custom API key", "", func(s *InstallState, val string) error {
			s.LLM.CustomOpenAIAPIKey = val
			return nil
		}, secret(), optional(), only(config.ProviderCustom)),
	}
}

func validateURL(val string) error {
	u, err := url.Parse(val)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("not a valid URL: %q", val)
	}
	return nil
}
