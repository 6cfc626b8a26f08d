package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

func TestCompletionProvider_Complete_BuildsMessages(t *testing.T) {
	llm := &mockLLM{replies: []string{"first", "second"}}
	p := NewCompletionProvider(llm)
	ctx := context.Background()

	reply, err := p.Complete(ctx, "hello", "be brief")
	require.NoError(t, err)
	assert.Equal(t, "first", reply)

	_, err = p.Complete(ctx, "again", "")
	require.NoError(t, err)

	require.Len(t, llm.calls, 2)
	first := llm.calls[0]
	require.Len(t, first, 2)
	assert.Equal(t, domain.RoleSystem, first[0].Role)
	assert.Equal(t, "be brief", first[0].Content)
	assert.Equal(t, domain.RoleUser, first[1].Role)

	second := llm.calls[1]
	require.Len(t, second, 3, "no system message, two history turns, new prompt")
	assert.Equal(t, "hello", second[0].Content)
	assert.Equal(t, domain.RoleAssistant, second[1].Role)
	assert.Equal(t, "first", second[1].Content)
	assert.Equal(t, "again", second[2].Content)

	assert.Equal(t, 1024, llm.lastOpts.MaxTokens)
	assert.InDelta(t, 0.7, llm.lastOpts.Temperature, 1e-9)
}

func TestCompletionProvider_HistoryNeverExceedsBound(t *testing.T) {
	llm := &mockLLM{chatFunc: func(_ []driven.ChatMessage) (string, error) { return "ok", nil }}
	p := NewCompletionProvider(llm, WithHistorySize(4))

	for i := 0; i < 7; i++ {
		_, err := p.Complete(context.Background(), fmt.Sprintf("q%d", i), "")
		require.NoError(t, err)
		assert.LessOrEqual(t, len(p.History()), 4)
	}

	history := p.History()
	require.Len(t, history, 4)
	assert.Equal(t, "q5", history[0].Content)
	assert.Equal(t, "q6", history[2].Content)
}

func TestCompletionProvider_FailureLeavesHistoryUnchanged(t *testing.T) {
	cause := errors.New("upstream 503")
	llm := &mockLLM{replies: []string{"ok"}}
	p := NewCompletionProvider(llm)
	ctx := context.Background()

	_, err := p.Complete(ctx, "one", "")
	require.NoError(t, err)

	llm.err = cause
	_, err = p.Complete(ctx, "two", "")
	require.Error(t, err)
	assert.Equal(t, cause, err, "model errors are returned unchanged")
	assert.Len(t, llm.calls, 2, "no retry")
	assert.Len(t, p.History(), 2)
}

func TestCompletionProvider_NoLLM(t *testing.T) {
	p := NewCompletionProvider(nil)
	_, err := p.Complete(context.Background(), "x", "")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestCompletionProvider_Options(t *testing.T) {
	llm := &mockLLM{replies: []string{"ok"}}
	p := NewCompletionProvider(llm, WithChatOptions(256, 0.2), WithChatOptions(0, 0))

	_, err := p.Complete(context.Background(), "x", "")
	require.NoError(t, err)
	assert.Equal(t, 256, llm.lastOpts.MaxTokens)
	assert.InDelta(t, 0.2, llm.lastOpts.Temperature, 1e-9)
}

func TestCompletionProvider_Summarize(t *testing.T) {
	long := strings.Repeat("abc", 50)
	llm := &mockLLM{replies: []string{long, "short"}}
	p := NewCompletionProvider(llm)
	ctx := context.Background()

	summary, err := p.Summarize(ctx, "text to summarise", 20)
	require.NoError(t, err)
	assert.Len(t, summary, 20)
	assert.Contains(t, llm.calls[0][0].Content, "under 20 characters")

	summary, err = p.Summarize(ctx, "more", 20)
	require.NoError(t, err)
	assert.Equal(t, "short", summary)

	_, err = p.Summarize(ctx, "x", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompletionProvider_SummarizeUsesPromptStore(t *testing.T) {
	llm := &mockLLM{replies: []string{"ok"}}
	store := &mockPromptStore{prompts: map[string]string{driven.PromptSummarise: "Max %d chars."}}
	p := NewCompletionProvider(llm, WithPromptStore(store))

	_, err := p.Summarize(context.Background(), "x", 50)
	require.NoError(t, err)
	assert.Equal(t, "Max 50 chars.", llm.calls[0][0].Content)
}

func TestCompletionProvider_Reset(t *testing.T) {
	llm := &mockLLM{replies: []string{"ok"}}
	p := NewCompletionProvider(llm)

	_, err := p.Complete(context.Background(), "x", "")
	require.NoError(t, err)
	require.NotEmpty(t, p.History())

	p.Reset()
	assert.Empty(t, p.History())
}
