// Package openai talks to OpenAI-compatible chat completion APIs. Groq is
// served by the same adapter with GroqBaseURL.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/workspace-agent/internal/adapters/driven/llm/httpapi"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	GroqBaseURL       = "https://api.groq.com/openai/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig configures an OpenAI-compatible endpoint.
type LLMConfig struct {
	// APIKey is sent as a bearer token. Required.
	APIKey string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Model defaults to DefaultLLMModel.
	Model string

	Timeout time.Duration

	// Name labels errors, e.g. "groq". Defaults to "openai".
	Name string
}

// LLMService calls /chat/completions.
type LLMService struct {
	api   *httpapi.Client
	model string
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message      message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

// NewLLMService validates cfg and applies defaults.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", cfg.Name)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		api:   httpapi.New(cfg.Name, cfg.BaseURL, cfg.Timeout, httpapi.WithHeader("Authorization", "Bearer "+cfg.APIKey)),
		model: cfg.Model,
	}, nil
}

// Chat returns the first choice.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := completionRequest{
		Model:       s.model,
		Messages:    make([]message, len(messages)),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	for i, m := range messages {
		req.Messages[i] = message{Role: string(m.Role), Content: m.Content}
	}

	var resp completionResponse
	if err := s.api.Do(ctx, http.MethodPost, "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: no response choices returned", s.api.Name())
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "length" {
		logger.Debug("%s: reply truncated at %d tokens", s.api.Name(), opts.MaxTokens)
	}
	return choice.Message.Content, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Do(ctx, http.MethodGet, "/models", nil, nil)
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
