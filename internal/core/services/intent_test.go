package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

func TestIntentExtractor_Extract(t *testing.T) {
	completer := &mockCompleter{reply: `{"service":"email","action":"send","details":{"to":"a@x.com"}}`}
	e := NewIntentExtractor(completer, nil)

	intent, err := e.Extract(context.Background(), "email a@x.com")
	require.NoError(t, err)

	assert.Equal(t, domain.ServiceMail, intent.Service)
	assert.Equal(t, "send", intent.Action)
	assert.Equal(t, "a@x.com", intent.Details.String("to", ""))
	assert.Equal(t, "email a@x.com", intent.Request)
	assert.Equal(t, defaultIntentSystemPrompt, completer.systems[0])
	assert.Equal(t, "email a@x.com", completer.prompts[0])
}

func TestIntentExtractor_FallbackOnMalformedOutput(t *testing.T) {
	replies := []string{
		"I'm not sure what you mean.",
		`{"service":"email","action":"send","details":{"to":`,
		`{"action":"send"}`,
		"",
	}

	for _, reply := range replies {
		t.Run(reply, func(t *testing.T) {
			e := NewIntentExtractor(&mockCompleter{reply: reply}, nil)

			intent, err := e.Extract(context.Background(), "do the thing")
			require.NoError(t, err)
			assert.Equal(t, domain.ServiceMulti, intent.Service)
			assert.Equal(t, "interpret", intent.Action)
			assert.Equal(t, "do the thing", intent.Details.String("text", ""))
			assert.Equal(t, "do the thing", intent.Request)
		})
	}
}

func TestIntentExtractor_FallbackDetailsJSON(t *testing.T) {
	e := NewIntentExtractor(&mockCompleter{reply: "not json at all"}, nil)

	intent, err := e.Extract(context.Background(), "summarise my week")
	require.NoError(t, err)

	data, err := json.Marshal(intent)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"service":"multi","action":"interpret","details":{"text":"summarise my week"},"request":"summarise my week"}`,
		string(data))
}

func TestIntentExtractor_TransportErrorPropagates(t *testing.T) {
	cause := errors.New("connection refused")
	e := NewIntentExtractor(&mockCompleter{err: cause}, nil)

	_, err := e.Extract(context.Background(), "x")
	assert.ErrorIs(t, err, cause)
}

func TestIntentExtractor_UsesPromptStore(t *testing.T) {
	completer := &mockCompleter{reply: `{"service":"docs","action":"list"}`}
	store := &mockPromptStore{prompts: map[string]string{driven.PromptIntentSystem: "custom"}}

	_, err := NewIntentExtractor(completer, store).Extract(context.Background(), "list docs")
	require.NoError(t, err)
	assert.Equal(t, "custom", completer.systems[0])

	// A failing store falls back to the built-in prompt.
	completer.systems = nil
	_, err = NewIntentExtractor(completer, &mockPromptStore{err: errors.New("io")}).Extract(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, defaultIntentSystemPrompt, completer.systems[0])
}
