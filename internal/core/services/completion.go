package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// CompletionProvider sends prompts to the language model and keeps a bounded
// conversation history. A failed call leaves the history unchanged and is
// never retried.
type CompletionProvider struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	opts    driven.ChatOptions

	mu      sync.Mutex
	history *domain.Conversation
}

// CompletionOption configures a CompletionProvider.
type CompletionOption func(*CompletionProvider)

// WithHistorySize bounds the conversation history.
func WithHistorySize(n int) CompletionOption {
	return func(p *CompletionProvider) {
		p.history = domain.NewConversation(n)
	}
}

// WithChatOptions overrides the token limit and temperature.
// Zero values keep the defaults.
func WithChatOptions(maxTokens int, temperature float64) CompletionOption {
	return func(p *CompletionProvider) {
		if maxTokens > 0 {
			p.opts.MaxTokens = maxTokens
		}
		if temperature > 0 {
			p.opts.Temperature = temperature
		}
	}
}

// WithPromptStore sets the store for the summarise prompt.
func WithPromptStore(store driven.PromptStore) CompletionOption {
	return func(p *CompletionProvider) {
		p.prompts = store
	}
}

// NewCompletionProvider creates a provider backed by the given LLM service.
func NewCompletionProvider(llm driven.LLMService, opts ...CompletionOption) *CompletionProvider {
	p := &CompletionProvider{
		llm:     llm,
		history: domain.NewConversation(domain.DefaultHistorySize),
		opts: driven.ChatOptions{
			MaxTokens:   domain.DefaultMaxTokens,
			Temperature: domain.DefaultTemperature,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Complete sends the system instruction (if any), the current history and the
// prompt, and returns the raw reply. On success the prompt and reply are
// appended to the history.
func (p *CompletionProvider) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	if p.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	// The lock spans the call so concurrent callers see a consistent history.
	p.mu.Lock()
	defer p.mu.Unlock()

	messages := p.buildMessages(prompt, systemInstruction)

	logger.Debug("completion: %d messages, model %s", len(messages), p.llm.ModelName())

	reply, err := p.llm.Chat(ctx, messages, p.opts)
	if err != nil {
		logger.Error("completion failed: %v", err)
		return "", err
	}

	p.history.Append(domain.RoleUser, prompt)
	p.history.Append(domain.RoleAssistant, reply)

	return reply, nil
}

func (p *CompletionProvider) buildMessages(prompt, systemInstruction string) []driven.ChatMessage {
	past := p.history.Messages()
	messages := make([]driven.ChatMessage, 0, len(past)+2)

	if systemInstruction != "" {
		messages = append(messages, driven.ChatMessage{Role: domain.RoleSystem, Content: systemInstruction})
	}
	for _, m := range past {
		messages = append(messages, driven.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return append(messages, driven.ChatMessage{Role: domain.RoleUser, Content: prompt})
}

// Summarize asks for a summary under maxLength characters and truncates the
// reply to maxLength runes.
func (p *CompletionProvider) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	if maxLength <= 0 {
		return "", fmt.Errorf("%w: max length must be positive", domain.ErrInvalidInput)
	}

	system := fmt.Sprintf(loadPrompt(p.prompts, driven.PromptSummarise), maxLength)
	summary, err := p.Complete(ctx, text, system)
	if err != nil {
		return "", err
	}

	if r := []rune(summary); len(r) > maxLength {
		summary = string(r[:maxLength])
	}
	return summary, nil
}

// Reset clears the conversation history.
func (p *CompletionProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history.Clear()
}

// History returns a copy of the conversation history.
func (p *CompletionProvider) History() []domain.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.Messages()
}
