package llm

// NewOpenAI creates a client for api.openai.com.
func NewOpenAI(apiKey, model string) *Client {
	return NewClient(ClientConfig{
		BaseURL: "https://api.openai.com/v1",
		APIKey:  apiKey,
		Model:   model,
	})
}
