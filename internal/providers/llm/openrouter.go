package llm

import "github.com/sandevgo/gradebot/internal/core"

func NewOpenRouter(apiKey, model string) *Client {
	return NewClient(ClientConfig{
		BaseURL: "https://openrouter.ai/api/v1",
		APIKey:  apiKey,
		Model:   model,
		ExtraHeaders: map[string]string{
			"HTTP-Referer": core.RepositoryURL,
			"X-Title":      core.AppName,
		},
	})
}
