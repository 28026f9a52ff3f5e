package llm

import "strings"

// NewOllama uses Ollama's OpenAI-compatible endpoint. The API key is only
// needed behind an authenticating proxy.
func NewOllama(baseURL, apiKey, model string) *Client {
	return NewClient(ClientConfig{
		BaseURL: withV1(baseURL),
		APIKey:  apiKey,
		Model:   model,
	})
}

func withV1(baseURL string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL
	}
	return baseURL + "/v1"
}
