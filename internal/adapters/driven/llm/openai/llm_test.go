package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

func TestNewLLMService(t *testing.T) {
	t.Run("requires an API key", func(t *testing.T) {
		_, err := NewLLMService(LLMConfig{Name: "groq"})
		assert.ErrorContains(t, err, "groq: API key is required")
	})

	t.Run("applies defaults", func(t *testing.T) {
		svc, err := NewLLMService(LLMConfig{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, DefaultLLMModel, svc.ModelName())
		assert.Equal(t, DefaultBaseURL, svc.api.BaseURL())
		assert.NoError(t, svc.Close())
	})
}

func TestLLMService_Chat(t *testing.T) {
	t.Run("sends messages and options", func(t *testing.T) {
		var got completionRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
		}))
		defer srv.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "key", BaseURL: srv.URL, Model: "llama"})
		require.NoError(t, err)

		reply, err := svc.Chat(context.Background(), []driven.ChatMessage{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hi"},
		}, driven.ChatOptions{MaxTokens: 1024, Temperature: 0.7})

		require.NoError(t, err)
		assert.Equal(t, "hello", reply)
		assert.Equal(t, "llama", got.Model)
		assert.Equal(t, 1024, got.MaxTokens)
		assert.InDelta(t, 0.7, got.Temperature, 1e-9)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
	})

	t.Run("surfaces API errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth"}}`))
		}))
		defer srv.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "bad", BaseURL: srv.URL, Name: "groq"})
		require.NoError(t, err)

		_, err = svc.Chat(context.Background(), nil, driven.ChatOptions{})
		assert.EqualError(t, err, "groq: status 401: invalid api key")
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})

	t.Run("non json failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}))
		defer srv.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = svc.Chat(context.Background(), nil, driven.ChatOptions{})
		assert.EqualError(t, err, "openai: status 502: upstream down")
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = svc.Chat(context.Background(), nil, driven.ChatOptions{})
		assert.ErrorContains(t, err, "no response choices")
	})
}

func TestLLMService_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("nope"))
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	good, err := NewLLMService(LLMConfig{APIKey: "good", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, good.Ping(context.Background()))

	bad, err := NewLLMService(LLMConfig{APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.ErrorContains(t, bad.Ping(context.Background()), "status 401: nope")
}
