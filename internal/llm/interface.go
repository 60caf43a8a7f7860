package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Client is what the portfolio assistant's tool loop calls to get the next
// completion for a visitor's session. NewClient's *openai.Client satisfies
// it; tests substitute scripted replies.
type Client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ Client = (*openai.Client)(nil)
