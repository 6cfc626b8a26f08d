package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

const messagesPath = "/gmail/v1/users/me/messages"

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc, err := gmail.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return New(svc)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_Service(t *testing.T) {
	client := New(nil)

	assert.Equal(t, domain.ServiceMail, client.Service())
	var _ driven.CapabilityClient = client
}

func TestClient_Create(t *testing.T) {
	t.Run("sends a raw RFC 2822 message", func(t *testing.T) {
		var raw string
		mux := http.NewServeMux()
		mux.HandleFunc("POST "+messagesPath+"/send", func(w http.ResponseWriter, r *http.Request) {
			var body gmail.Message
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			raw = body.Raw
			writeJSON(t, w, map[string]any{"id": "m1", "threadId": "t1", "labelIds": []string{"SENT"}})
		})
		client := newTestClient(t, mux)

		got, err := client.Create(context.Background(), domain.Details{
			"to":      []any{"a@example.com", "b@example.com"},
			"subject": "Hello",
			"body":    "See you soon",
		})

		require.NoError(t, err)
		msg, ok := got.(Message)
		require.True(t, ok)
		assert.Equal(t, "m1", msg.ID)
		assert.Equal(t, []string{"SENT"}, msg.Labels)

		decoded, err := base64.URLEncoding.DecodeString(raw)
		require.NoError(t, err)
		assert.Contains(t, string(decoded), "To: a@example.com, b@example.com\r\n")
		assert.Contains(t, string(decoded), "Subject: Hello\r\n")
		assert.Contains(t, string(decoded), "See you soon")
	})

	t.Run("requires a recipient", func(t *testing.T) {
		client := newTestClient(t, http.NewServeMux())

		_, err := client.Create(context.Background(), domain.Details{"subject": "x"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("maps permission errors", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST "+messagesPath+"/send", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"Insufficient Permission"}}`))
		})
		client := newTestClient(t, mux)

		_, err := client.Create(context.Background(), domain.Details{"to": "a@example.com"})

		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
		assert.Contains(t, err.Error(), "Insufficient Permission")
	})
}

func TestClient_List(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+messagesPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "from:boss", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("maxResults"))
		assert.Equal(t, []string{"INBOX", "UNREAD"}, r.URL.Query()["labelIds"])
		writeJSON(t, w, map[string]any{"messages": []map[string]string{{"id": "m1", "threadId": "t1"}}})
	})
	mux.HandleFunc("GET "+messagesPath+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "m1", r.PathValue("id"))
		assert.Equal(t, "metadata", r.URL.Query().Get("format"))
		writeJSON(t, w, map[string]any{
			"id":       "m1",
			"threadId": "t1",
			"snippet":  "quarterly numbers",
			"payload": map[string]any{
				"headers": []map[string]string{
					{"name": "From", "value": "boss@example.com"},
					{"name": "Subject", "value": "Q3"},
				},
			},
		})
	})
	client := newTestClient(t, mux)

	items, err := client.List(context.Background(), driven.ListOptions{
		MaxResults: 5,
		Query:      "from:boss",
		Filters:    domain.Details{"label_ids": "INBOX, UNREAD"},
	})

	require.NoError(t, err)
	require.Len(t, items, 1)
	msg := items[0].(Message)
	assert.Equal(t, "boss@example.com", msg.From)
	assert.Equal(t, "Q3", msg.Subject)
	assert.Equal(t, "quarterly numbers", msg.Snippet)
}

func TestClient_Get(t *testing.T) {
	t.Run("extracts the plain text body", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET "+messagesPath+"/{id}", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "full", r.URL.Query().Get("format"))
			writeJSON(t, w, map[string]any{
				"id": r.PathValue("id"),
				"payload": map[string]any{
					"mimeType": "multipart/alternative",
					"parts": []map[string]any{
						{"mimeType": "text/html", "body": map[string]string{"data": base64.URLEncoding.EncodeToString([]byte("<b>hi</b>"))}},
						{"mimeType": "text/plain", "body": map[string]string{"data": base64.URLEncoding.EncodeToString([]byte("hi there"))}},
					},
				},
			})
		})
		client := newTestClient(t, mux)

		got, err := client.Get(context.Background(), "m9")

		require.NoError(t, err)
		msg := got.(Message)
		assert.Equal(t, "m9", msg.ID)
		assert.Equal(t, "hi there", msg.Body)
		assert.Equal(t, WebURL("m9"), msg.Link)
	})

	t.Run("maps not found", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET "+messagesPath+"/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
		})
		client := newTestClient(t, mux)

		_, err := client.Get(context.Background(), "missing")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestClient_Update(t *testing.T) {
	t.Run("modifies labels", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST "+messagesPath+"/{id}/modify", func(w http.ResponseWriter, r *http.Request) {
			var req gmail.ModifyMessageRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"STARRED"}, req.AddLabelIds)
			assert.Equal(t, []string{"UNREAD"}, req.RemoveLabelIds)
			writeJSON(t, w, map[string]any{"id": r.PathValue("id"), "labelIds": []string{"INBOX", "STARRED"}})
		})
		client := newTestClient(t, mux)

		got, err := client.Update(context.Background(), "m1", domain.Details{
			"add_labels":    []any{"STARRED"},
			"remove_labels": "UNREAD",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"INBOX", "STARRED"}, got.(Message).Labels)
	})

	t.Run("requires a label change", func(t *testing.T) {
		client := newTestClient(t, http.NewServeMux())

		_, err := client.Update(context.Background(), "m1", domain.Details{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestClient_Delete(t *testing.T) {
	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE "+messagesPath+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, mux)

	require.NoError(t, client.Delete(context.Background(), "m1"))
	assert.Equal(t, "m1", deleted)
}

func TestClient_Extension(t *testing.T) {
	_, ok := New(nil).Extension("upload")
	assert.False(t, ok)
}
