package domain

const unknownDescription = "Unknown"

// AIProvider names a chat-completion backend.
type AIProvider string

const (
	AIProviderGroq      AIProvider = "groq"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
	AIProviderGemini    AIProvider = "gemini"
	AIProviderOllama    AIProvider = "ollama"
)

type providerInfo struct {
	description string
	keyEnv      string // empty for providers that run locally without a key
	model       string
}

// providers is ordered as the settings menu lists them.
var providers = []struct {
	id AIProvider
	providerInfo
}{
	{AIProviderGroq, providerInfo{"Groq (cloud)", "GROQ_API_KEY", "llama-3.3-70b-versatile"}},
	{AIProviderOpenAI, providerInfo{"OpenAI (cloud)", "OPENAI_API_KEY", "gpt-4o-mini"}},
	{AIProviderAnthropic, providerInfo{"Anthropic (cloud)", "ANTHROPIC_API_KEY", "claude-3-5-sonnet-latest"}},
	{AIProviderGemini, providerInfo{"Gemini (cloud)", "GEMINI_API_KEY", "gemini-2.0-flash"}},
	{AIProviderOllama, providerInfo{"Ollama (local)", "", "llama3.2"}},
}

func (p AIProvider) info() (providerInfo, bool) {
	for _, entry := range providers {
		if entry.id == p {
			return entry.providerInfo, true
		}
	}
	return providerInfo{}, false
}

func (p AIProvider) IsValid() bool {
	_, ok := p.info()
	return ok
}

// RequiresAPIKey is true for every known provider that is not local.
func (p AIProvider) RequiresAPIKey() bool {
	return p.APIKeyEnv() != ""
}

func (p AIProvider) IsLocal() bool {
	info, ok := p.info()
	return ok && info.keyEnv == ""
}

// APIKeyEnv names the variable the provider's key is read from.
func (p AIProvider) APIKeyEnv() string {
	info, _ := p.info()
	return info.keyEnv
}

func (p AIProvider) String() string {
	return string(p)
}

func (p AIProvider) Description() string {
	if info, ok := p.info(); ok {
		return info.description
	}
	return unknownDescription
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible hosts).
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// AgentSettings tunes request handling.
type AgentSettings struct {
	// HistorySize bounds the conversation history sent to the model.
	HistorySize int

	// MaxTokens caps every completion.
	MaxTokens int

	// Temperature is the sampling temperature for every completion.
	Temperature float64

	// MaxParallelSteps bounds concurrent steps of a multi-service plan.
	MaxParallelSteps int
}

// GoogleSettings locates the OAuth client secrets and stored token.
type GoogleSettings struct {
	// CredentialsFile is the OAuth client secrets JSON downloaded from Google Cloud.
	CredentialsFile string

	// TokenFile is where the user's token is persisted.
	TokenFile string
}

// BridgeSettings configures the chat bridge listener.
type BridgeSettings struct {
	// Addr is the listen address, e.g. ":3000".
	Addr string

	// SlackToken is the token used for chat.postMessage.
	SlackToken string

	// SigningSecret verifies inbound Slack requests. Empty disables verification.
	SigningSecret string

	// RequestsPerMinute limits inbound events per client IP.
	RequestsPerMinute int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Agent holds request handling settings.
	Agent AgentSettings

	// Google holds workspace credential locations.
	Google GoogleSettings

	// Bridge holds chat bridge settings.
	Bridge BridgeSettings
}

// Defaults used by DefaultAppSettings.
const (
	DefaultMaxTokens         = 1024
	DefaultTemperature       = 0.7
	DefaultMaxParallelSteps  = 4
	DefaultBridgeAddr        = ":3000"
	DefaultRequestsPerMinute = 60
)

// DefaultAppSettings returns settings with sensible defaults.
// The LLM defaults to Groq; the API key comes from config or environment.
// Google file locations are resolved against the home directory by the caller.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider: AIProviderGroq,
			Model:    DefaultLLMModels()[AIProviderGroq],
		},
		Agent: AgentSettings{
			HistorySize:      DefaultHistorySize,
			MaxTokens:        DefaultMaxTokens,
			Temperature:      DefaultTemperature,
			MaxParallelSteps: DefaultMaxParallelSteps,
		},
		Google: GoogleSettings{
			CredentialsFile: "~/.google/workspace_agent_credentials.json",
			TokenFile:       "~/.google/workspace_agent_token.json",
		},
		Bridge: BridgeSettings{
			Addr:              DefaultBridgeAddr,
			RequestsPerMinute: DefaultRequestsPerMinute,
		},
	}
}

// AllLLMProviders lists the providers in menu order.
func AllLLMProviders() []AIProvider {
	ids := make([]AIProvider, len(providers))
	for i, entry := range providers {
		ids[i] = entry.id
	}
	return ids
}

// DefaultLLMModels maps each provider to the model used when none is set.
func DefaultLLMModels() map[AIProvider]string {
	models := make(map[AIProvider]string, len(providers))
	for _, entry := range providers {
		models[entry.id] = entry.model
	}
	return models
}
