package driving

import (
	"context"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// SettingsService is how commands read and change configuration.
type SettingsService interface {
	// Get merges the config file, the environment and the defaults.
	Get() (*domain.AppSettings, error)

	Save(settings *domain.AppSettings) error

	// SetLLMProvider switches provider and model in one step.
	// An empty model selects the provider's default.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks settings without contacting anything.
	Validate() error

	// ValidateLLMConfig contacts the configured provider.
	ValidateLLMConfig(ctx context.Context) error
}
