package services

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driving"
)

var _ driving.SettingsService = (*SettingsService)(nil)

//nolint:gosec // G101: key and variable names, not credentials.
const (
	keyLLMProvider = "llm.provider"
	keyLLMAPIKey   = "llm.api_key"

	envSlackBotToken      = "SLACK_BOT_TOKEN"
	envSlackUserToken     = "SLACK_USER_TOKEN"
	envSlackSigningSecret = "SLACK_SIGNING_SECRET"
)

// field binds a config key to one plain setting. Missing or zero values
// keep the default, except floats where zero is meaningful.
type field struct {
	key  string
	load func(driven.ConfigStore, *domain.AppSettings)
	save func(*domain.AppSettings) any
}

func text(key string, at func(*domain.AppSettings) *string) field {
	return field{
		key: key,
		load: func(c driven.ConfigStore, a *domain.AppSettings) {
			if v := c.GetString(key); v != "" {
				*at(a) = v
			}
		},
		save: func(a *domain.AppSettings) any { return *at(a) },
	}
}

func count(key string, at func(*domain.AppSettings) *int) field {
	return field{
		key: key,
		load: func(c driven.ConfigStore, a *domain.AppSettings) {
			if v := c.GetInt(key); v != 0 {
				*at(a) = v
			}
		},
		save: func(a *domain.AppSettings) any { return *at(a) },
	}
}

func ratio(key string, at func(*domain.AppSettings) *float64) field {
	return field{
		key: key,
		load: func(c driven.ConfigStore, a *domain.AppSettings) {
			if _, ok := c.Get(key); ok {
				*at(a) = c.GetFloat(key)
			}
		},
		save: func(a *domain.AppSettings) any { return *at(a) },
	}
}

var fields = []field{
	text("llm.model", func(a *domain.AppSettings) *string { return &a.LLM.Model }),
	text("llm.base_url", func(a *domain.AppSettings) *string { return &a.LLM.BaseURL }),
	count("agent.history_size", func(a *domain.AppSettings) *int { return &a.Agent.HistorySize }),
	count("agent.max_tokens", func(a *domain.AppSettings) *int { return &a.Agent.MaxTokens }),
	ratio("agent.temperature", func(a *domain.AppSettings) *float64 { return &a.Agent.Temperature }),
	count("agent.max_parallel_steps", func(a *domain.AppSettings) *int { return &a.Agent.MaxParallelSteps }),
	text("google.credentials_file", func(a *domain.AppSettings) *string { return &a.Google.CredentialsFile }),
	text("google.token_file", func(a *domain.AppSettings) *string { return &a.Google.TokenFile }),
	text("bridge.addr", func(a *domain.AppSettings) *string { return &a.Bridge.Addr }),
	count("bridge.requests_per_minute", func(a *domain.AppSettings) *int { return &a.Bridge.RequestsPerMinute }),
}

// secret is a credential that may live in the config file or the environment.
type secret struct {
	key string
	at  *string
	env []string
}

func secretsOf(a *domain.AppSettings) []secret {
	return []secret{
		{keyLLMAPIKey, &a.LLM.APIKey, []string{a.LLM.Provider.APIKeyEnv()}},
		{"bridge.slack_token", &a.Bridge.SlackToken, []string{envSlackBotToken, envSlackUserToken}},
		{"bridge.signing_secret", &a.Bridge.SigningSecret, []string{envSlackSigningSecret}},
	}
}

// SettingsService reads and writes AppSettings through a ConfigStore,
// filling secrets from the environment when the file leaves them empty.
type SettingsService struct {
	store     driven.ConfigStore
	validator driven.LLMValidator
	getenv    func(string) string
}

// NewSettingsService creates a settings service. validator may be nil, in
// which case ValidateLLMConfig always succeeds.
func NewSettingsService(store driven.ConfigStore, validator driven.LLMValidator) *SettingsService {
	return &SettingsService{store: store, validator: validator, getenv: os.Getenv}
}

// SetEnvLookup replaces os.Getenv.
func (s *SettingsService) SetEnvLookup(fn func(string) string) {
	s.getenv = fn
}

func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	// The provider decides the default model and which key variable applies.
	if p := domain.AIProvider(s.store.GetString(keyLLMProvider)); p.IsValid() {
		settings.LLM.Provider = p
	}
	settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]

	for _, f := range fields {
		f.load(s.store, &settings)
	}
	for _, sec := range secretsOf(&settings) {
		*sec.at = s.store.GetString(sec.key)
		if *sec.at == "" {
			*sec.at = s.lookupEnv(sec.env...)
		}
	}
	return &settings, nil
}

// Save writes every setting. A secret is written only when the caller set
// it, never when it merely echoes the environment.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.store.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save %s: %w", keyLLMProvider, err)
	}
	for _, f := range fields {
		if err := s.store.Set(f.key, f.save(settings)); err != nil {
			return fmt.Errorf("save %s: %w", f.key, err)
		}
	}
	for _, sec := range secretsOf(settings) {
		if *sec.at == "" || *sec.at == s.lookupEnv(sec.env...) {
			continue
		}
		if err := s.store.Set(sec.key, *sec.at); err != nil {
			return fmt.Errorf("save %s: %w", sec.key, err)
		}
	}
	return nil
}

// SetLLMProvider switches provider and model. An empty apiKey is accepted
// when the provider's environment variable holds one; the stored key is
// cleared so the variable takes effect.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.getenv(provider.APIKeyEnv()) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	switch {
	case !provider.IsLocal():
		settings.LLM.BaseURL = ""
	case settings.LLM.BaseURL == "":
		settings.LLM.BaseURL = "http://localhost:11434"
	}

	settings.LLM.APIKey = apiKey
	if err := s.store.Set(keyLLMAPIKey, apiKey); err != nil {
		return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
	}
	return s.Save(settings)
}

// Validate reports the first setting that would stop the agent working.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		if env := settings.LLM.Provider.APIKeyEnv(); env != "" {
			return fmt.Errorf("%w: set %s or run 'wsagent settings llm'", domain.ErrLLMUnavailable, env)
		}
		return fmt.Errorf("%w: run 'wsagent settings llm'", domain.ErrLLMUnavailable)
	}

	agent := settings.Agent
	switch {
	case agent.HistorySize <= 0:
		return fmt.Errorf("%w: agent.history_size must be positive", domain.ErrInvalidInput)
	case agent.MaxTokens <= 0:
		return fmt.Errorf("%w: agent.max_tokens must be positive", domain.ErrInvalidInput)
	case agent.MaxParallelSteps <= 0:
		return fmt.Errorf("%w: agent.max_parallel_steps must be positive", domain.ErrInvalidInput)
	case agent.Temperature < 0 || agent.Temperature > 2:
		return fmt.Errorf("%w: agent.temperature must be between 0 and 2", domain.ErrInvalidInput)
	}
	return nil
}

// ValidateLLMConfig pings the configured provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateLLM(ctx, &settings.LLM)
}

// lookupEnv returns the first non-empty variable among names.
func (s *SettingsService) lookupEnv(names ...string) string {
	for _, name := range names {
		if name == "" {
			continue
		}
		if v := s.getenv(name); v != "" {
			return v
		}
	}
	return ""
}
