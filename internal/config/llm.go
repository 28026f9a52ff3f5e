package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/gradebot/pkg/log"
)

const (
	ProviderNone       = "none"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"
)

type LLMConfig struct {
	Provider string        `env:"LLM_PROVIDER" envDefault:"openai"`
	Model    string        `env:"LLM_MODEL" envDefault:"gpt-3.5-turbo-1106"`
	Timeout  time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`

	Temperature float32 `env:"LLM_TEMPERATURE" envDefault:"0.3"`
	MaxTokens   int     `env:"LLM_MAX_TOKENS" envDefault:"800"`
	TopP        float32 `env:"LLM_TOP_P" envDefault:"0.9"`

	// Upper bound for the system prompt, counted with the model's tokenizer.
	PromptTokenBudget int `env:"PROMPT_TOKEN_BUDGET" envDefault:"3000"`

	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey        string `env:"OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

// Configured reports whether the selected provider has what it needs to be
// called. An unconfigured LLM puts the router in lookup-only mode.
func (c LLMConfig) Configured() bool {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	case ProviderOpenRouter:
		return c.OpenRouterAPIKey != ""
	case ProviderOllama:
		return c.OllamaBaseURL != ""
	case ProviderCustom:
		return c.CustomOpenAIBaseURL != ""
	default:
		return false
	}
}
