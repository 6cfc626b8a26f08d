package driven

import (
	"context"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// LLMService is a chat-completion backend. Groq and OpenAI share one
// adapter; Anthropic, Gemini and Ollama each have their own.
type LLMService interface {
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName is the model requests are sent to.
	ModelName() string

	// Ping makes the cheapest authenticated call the provider offers.
	Ping(ctx context.Context) error

	Close() error
}

// ChatMessage is one prompt turn. System turns come first; adapters whose
// API has no system role fold them into a separate field.
type ChatMessage = domain.Message

// ChatOptions bounds a single completion. Zero values leave the
// provider's defaults in place.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
}

// LLMValidator checks that settings reach a working model.
// Unconfigured settings are not an error.
type LLMValidator interface {
	ValidateLLM(ctx context.Context, settings *domain.LLMSettings) error
}
