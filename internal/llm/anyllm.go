package llm

import (
	"context"
	"fmt"
	"strings"

	anyllm "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"
)

// AnyLLM implements Provider on top of github.com/mozilla-ai/any-llm-go,
// which speaks to OpenAI, Anthropic, Gemini, Ollama, Mistral and Groq behind
// one interface.
type AnyLLM struct {
	backend anyllm.Provider
	model   string
}

// NewAnyLLM creates a provider for the given backend name and model.
// providerName is one of: "openai", "anthropic", "gemini", "ollama",
// "mistral", "groq". Without explicit options the backend reads its usual
// API-key environment variable (OPENAI_API_KEY, GEMINI_API_KEY, ...).
func NewAnyLLM(providerName, model string, opts ...anyllm.Option) (*AnyLLM, error) {
	if model == "" {
		return nil, fmt.Errorf("llm: model must not be empty")
	}

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("llm: create %q backend: %w", providerName, err)
	}

	return &AnyLLM{backend: backend, model: model}, nil
}

func createBackend(providerName string, opts ...anyllm.Option) (anyllm.Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "groq":
		return groq.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: openai, anthropic, gemini, ollama, mistral, groq", providerName)
	}
}

// Complete implements Provider.
func (p *AnyLLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var messages []anyllm.Message
	if req.SystemPrompt != "" {
		messages = append(messages, anyllm.Message{
			Role:    anyllm.RoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, anyllm.Message{
		Role:    anyllm.RoleUser,
		Content: req.UserMessage,
	})

	params := anyllm.CompletionParams{
		Model:    p.model,
		Messages: messages,
	}
	if req.Temperature != 0 {
		t := req.Temperature
		params.Temperature = &t
	}
	if req.MaxTokens > 0 {
		mt := req.MaxTokens
		params.MaxTokens = &mt
	}

	resp, err := p.backend.Completion(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llm: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty choices in response")
	}

	return resp.Choices[0].Message.ContentString(), nil
}
