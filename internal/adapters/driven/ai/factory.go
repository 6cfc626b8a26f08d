// Package ai provides factory functions for creating LLM service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/workspace-agent/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/workspace-agent/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/workspace-agent/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/workspace-agent/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: no provider configured. Run 'wsagent settings llm' or set %s",
			domain.ErrLLMUnavailable, providerKeyEnv(settings))
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'wsagent settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'wsagent settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateLLMService creates the LLM service for the configured provider.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, domain.ErrLLMUnavailable
	}

	switch settings.Provider {
	case domain.AIProviderGroq:
		return createGroqLLM(settings)

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createGroqLLM creates a Groq service on the OpenAI-compatible adapter.
func createGroqLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = openaillm.GroqBaseURL
	}
	model := settings.Model
	if model == "" {
		model = domain.DefaultLLMModels()[domain.AIProviderGroq]
	}
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: baseURL,
		Model:   model,
		Name:    "groq",
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func providerKeyEnv(settings *domain.LLMSettings) string {
	if settings == nil || !settings.Provider.IsValid() {
		return domain.AIProviderGroq.APIKeyEnv()
	}
	if env := settings.Provider.APIKeyEnv(); env != "" {
		return env
	}
	return "a provider"
}
