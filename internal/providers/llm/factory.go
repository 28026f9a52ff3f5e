package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/gradebot/internal/config"
	"github.com/sandevgo/gradebot/pkg/log"
)

// constructors builds a client per provider once the config is known to be
// complete.
var constructors = map[string]func(*config.LLMConfig) *Client{
	config.ProviderOpenAI: func(c *config.LLMConfig) *Client {
		return NewOpenAI(c.OpenAIAPIKey, c.Model)
	},
	config.ProviderOpenRouter: func(c *config.LLMConfig) *Client {
		return NewOpenRouter(c.OpenRouterAPIKey, c.Model)
	},
	config.ProviderOllama: func(c *config.LLMConfig) *Client {
		return NewOllama(c.OllamaBaseURL, c.OllamaAPIKey, c.Model)
	},
	config.ProviderCustom: func(c *config.LLMConfig) *Client {
		return NewCustomOpenAI(c.CustomOpenAIBaseURL, c.CustomOpenAIAPIKey, c.Model)
	},
}

// NewProvider returns the client for cfg.Provider. A disabled or incomplete
// provider yields (nil, nil) and the bot answers from lookups only; an
// unknown provider name is an error.
func NewProvider(ctx context.Context, cfg *config.LLMConfig) (*Client, error) {
	if cfg.Provider == "" || cfg.Provider == config.ProviderNone {
		log.FromCtx(ctx).Info().Msg("llm disabled, lookup-only mode")
		return nil, nil
	}

	build, known := constructors[cfg.Provider]
	if !known {
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	logger := log.FromCtx(ctx).With().Str("provider", cfg.Provider).Logger()
	if !cfg.Configured() {
		logger.Warn().Msg("llm settings incomplete, lookup-only mode")
		return nil, nil
	}

	logger.Info().Str("model", cfg.Model).Msg("llm provider ready")
	return build(cfg), nil
}
