package core

import "context"

// ChatOptions tunes a single completion request.
type ChatOptions struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
	JSON        bool
}

type AIProvider interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (Message, error)
}
