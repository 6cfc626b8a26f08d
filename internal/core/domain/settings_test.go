package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	for _, p := range AllLLMProviders() {
		assert.True(t, p.IsValid(), "%s should be valid", p)
		assert.NotEqual(t, unknownDescription, p.Description())
	}
	assert.False(t, AIProvider("").IsValid())
	assert.False(t, AIProvider("mistral").IsValid())
	assert.Equal(t, unknownDescription, AIProvider("mistral").Description())
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	tests := []struct {
		provider AIProvider
		want     bool
		env      string
	}{
		{AIProviderGroq, true, "GROQ_API_KEY"},
		{AIProviderOpenAI, true, "OPENAI_API_KEY"},
		{AIProviderAnthropic, true, "ANTHROPIC_API_KEY"},
		{AIProviderGemini, true, "GEMINI_API_KEY"},
		{AIProviderOllama, false, ""},
		{AIProvider("bogus"), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.provider.RequiresAPIKey())
			assert.Equal(t, tt.env, tt.provider.APIKeyEnv())
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderGroq}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderGroq, APIKey: "gsk"}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderGroq, s.LLM.Provider)
	assert.NotEmpty(t, s.LLM.Model)
	assert.Equal(t, 10, s.Agent.HistorySize)
	assert.Equal(t, 1024, s.Agent.MaxTokens)
	assert.InDelta(t, 0.7, s.Agent.Temperature, 1e-9)
	assert.Equal(t, ":3000", s.Bridge.Addr)
	assert.Contains(t, s.Google.TokenFile, "workspace_agent_token.json")
	assert.Contains(t, s.Google.CredentialsFile, "workspace_agent_credentials.json")
}

func TestDefaultLLMModels_CoverAllProviders(t *testing.T) {
	models := DefaultLLMModels()
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, models[p], "missing default model for %s", p)
	}
}
