package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

type mockModels struct {
	reply    *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	getErr   error
}

func (m *mockModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.model = model
	m.contents = contents
	m.config = config
	return m.reply, m.err
}

func (m *mockModels) Get(_ context.Context, model string, _ *genai.GetModelConfig) (*genai.Model, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &genai.Model{Name: "models/" + model}, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(context.Background(), Config{})
	assert.ErrorContains(t, err, "API key is required")
}

func TestLLMService_Chat(t *testing.T) {
	models := &mockModels{reply: textResponse(`{"service":"calendar"}`)}
	svc := NewWithModels(models, "")

	reply, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: "system", Content: "classify"},
		{Role: "user", Content: "what's on today"},
		{Role: "assistant", Content: "nothing"},
		{Role: "user", Content: "and tomorrow"},
	}, driven.ChatOptions{MaxTokens: 512, Temperature: 0.5})

	require.NoError(t, err)
	assert.Equal(t, `{"service":"calendar"}`, reply)
	assert.Equal(t, DefaultModel, models.model)

	require.Len(t, models.contents, 3)
	assert.Equal(t, string(genai.RoleUser), models.contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), models.contents[1].Role)

	require.NotNil(t, models.config.SystemInstruction)
	assert.Equal(t, "classify", models.config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, int32(512), models.config.MaxOutputTokens)
	require.NotNil(t, models.config.Temperature)
	assert.InDelta(t, 0.5, *models.config.Temperature, 1e-6)
}

func TestLLMService_ChatErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		svc := NewWithModels(&mockModels{err: errors.New("quota")}, "gemini-pro")
		_, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})
		assert.EqualError(t, err, "gemini error: quota")
	})

	t.Run("no candidates", func(t *testing.T) {
		svc := NewWithModels(&mockModels{reply: &genai.GenerateContentResponse{}}, "gemini-pro")
		_, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})
		assert.ErrorContains(t, err, "no response candidates")
	})
}

func TestLLMService_Ping(t *testing.T) {
	svc := NewWithModels(&mockModels{}, "gemini-pro")
	assert.NoError(t, svc.Ping(context.Background()))
	assert.Equal(t, "gemini-pro", svc.ModelName())

	svc = NewWithModels(&mockModels{getErr: errors.New("bad key")}, "gemini-pro")
	assert.ErrorContains(t, svc.Ping(context.Background()), "bad key")
	assert.NoError(t, svc.Close())
}
