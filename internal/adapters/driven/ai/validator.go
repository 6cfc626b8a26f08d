package ai

import (
	"context"
	"time"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

var _ driven.LLMValidator = (*ConfigValidator)(nil)

// ConfigValidator builds a throwaway service from settings and pings it.
type ConfigValidator struct {
	timeout time.Duration
}

func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout}
}

func (v *ConfigValidator) ValidateLLM(ctx context.Context, settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	defer svc.Close()
	return svc.Ping(ctx)
}
