package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sandevgo/gradebot/internal/core"
	"github.com/sashabaranov/go-openai"
)

const defaultHTTPTimeout = 120 * time.Second

// Client talks to any OpenAI-compatible chat completions endpoint.
type Client struct {
	client *openai.Client
	model  string
}

var _ core.AIProvider = (*Client)(nil)

type ClientConfig struct {
	BaseURL      string // including the /v1 suffix
	APIKey       string
	Model        string
	ExtraHeaders map[string]string
}

func NewClient(cfg ClientConfig) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	var transport http.RoundTripper = http.DefaultTransport
	if len(cfg.ExtraHeaders) > 0 {
		transport = &headerTransport{base: transport, headers: cfg.ExtraHeaders}
	}
	oc.HTTPClient = &http.Client{
		Timeout:   defaultHTTPTimeout,
		Transport: transport,
	}

	return &Client{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
	}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Chat(ctx context.Context, messages []core.Message, opts core.ChatOptions) (core.Message, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		TopP:        opts.TopP,
	}
	if opts.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return core.Message{}, fmt.Errorf("%w: http %d: %s", core.ErrUpstreamUnavailable, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return core.Message{}, fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return core.Message{}, fmt.Errorf("%w: empty choices", core.ErrUpstreamUnavailable)
	}

	return core.Message{
		Role:    core.RoleAssistant,
		Content: resp.Choices[0].Message.Content,
	}, nil
}

// Models lists the model ids the endpoint advertises.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func toOpenAIMessages(messages []core.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}
