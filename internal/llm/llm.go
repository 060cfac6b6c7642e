// Package llm abstracts the chat-completion provider used for pronunciation
// scoring behind a narrow interface, so the scoring service can be tested
// against a fake and the concrete backend can be any provider supported by
// github.com/mozilla-ai/any-llm-go.
package llm

import "context"

// CompletionRequest is the subset of a chat-completion call the scoring
// service needs.
type CompletionRequest struct {
	SystemPrompt string
	UserMessage  string
	Temperature  float64
	MaxTokens    int
}

// Provider performs one blocking chat completion and returns the raw model
// output text. Implementations must honor ctx cancellation and deadlines.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
