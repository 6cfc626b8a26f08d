package services

import (
	"context"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// Completer produces a model reply for a prompt and optional system instruction.
// CompletionProvider is the production implementation.
type Completer interface {
	Complete(ctx context.Context, prompt, systemInstruction string) (string, error)
}

// IntentExtractor classifies a natural-language request.
type IntentExtractor struct {
	completer Completer
	prompts   driven.PromptStore
}

// NewIntentExtractor creates an extractor. prompts may be nil.
func NewIntentExtractor(completer Completer, prompts driven.PromptStore) *IntentExtractor {
	return &IntentExtractor{completer: completer, prompts: prompts}
}

// Extract returns the intent of the request. Model output that cannot be
// parsed yields the fallback intent; only a failed model call is an error.
func (e *IntentExtractor) Extract(ctx context.Context, request string) (domain.Intent, error) {
	logger.Section("Intent")

	reply, err := e.completer.Complete(ctx, request, loadPrompt(e.prompts, driven.PromptIntentSystem))
	if err != nil {
		return domain.Intent{}, err
	}

	intent, err := domain.ParseIntent(reply)
	if err != nil {
		logger.Warn("unparseable intent, falling back to multi: %v", err)
		return domain.FallbackIntent(request), nil
	}

	intent.Request = request
	logger.Debug("intent: service=%s action=%s details=%v", intent.Service, intent.Action, intent.Details)
	return intent, nil
}
