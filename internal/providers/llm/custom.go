package llm

func NewCustomOpenAI(baseURL, apiKey, model string) *Client {
	return NewClient(ClientConfig{
		BaseURL: withV1(baseURL),
		APIKey:  apiKey,
		Model:   model,
	})
}
