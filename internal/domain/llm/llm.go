// Package llm defines the contract the services use to reach the upstream
// completion API. The resty-backed implementation lives in
// internal/infrastructure/llmgateway.
package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// ChatOptions carries per-call overrides. Zero values fall back to the
// gateway's configured defaults.
type ChatOptions struct {
	Model       string
	Temperature *float64
	MaxTokens   int
}

// Completer executes one chat completion and returns the assistant text.
type Completer interface {
	ChatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, opts ChatOptions) (string, error)
}
