package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLM implements driven.LLMService, replying from a queue.
type mockLLM struct {
	mu       sync.Mutex
	replies  []string
	err      error
	calls    [][]driven.ChatMessage
	lastOpts driven.ChatOptions
	chatFunc func(messages []driven.ChatMessage) (string, error)
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, messages)
	m.lastOpts = opts
	if m.chatFunc != nil {
		return m.chatFunc(messages)
	}
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockCompleter implements Completer without history.
type mockCompleter struct {
	reply      string
	err        error
	prompts    []string
	systems    []string
	completeFn func(prompt string) (string, error)
}

func (m *mockCompleter) Complete(_ context.Context, prompt, system string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.systems = append(m.systems, system)
	if m.completeFn != nil {
		return m.completeFn(prompt)
	}
	return m.reply, m.err
}

// clientCall records one call on a mockClient.
type clientCall struct {
	Op      string
	ID      string
	Details domain.Details
	Opts    driven.ListOptions
}

// mockClient implements driven.CapabilityClient and records every call.
type mockClient struct {
	mu         sync.Mutex
	service    domain.Service
	calls      []clientCall
	err        error
	payload    any
	panicMsg   string
	extensions map[string]driven.ExtensionFunc
}

func newMockClient(service domain.Service) *mockClient {
	return &mockClient{service: service, payload: map[string]any{"id": "x1"}}
}

func (m *mockClient) record(c clientCall) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

func (m *mockClient) Service() domain.Service { return m.service }

func (m *mockClient) List(_ context.Context, opts driven.ListOptions) ([]any, error) {
	p, err := m.record(clientCall{Op: "list", Opts: opts})
	if err != nil {
		return nil, err
	}
	return []any{p}, nil
}

func (m *mockClient) Get(_ context.Context, id string) (any, error) {
	return m.record(clientCall{Op: "get", ID: id})
}

func (m *mockClient) Create(_ context.Context, d domain.Details) (any, error) {
	return m.record(clientCall{Op: "create", Details: d})
}

func (m *mockClient) Update(_ context.Context, id string, d domain.Details) (any, error) {
	return m.record(clientCall{Op: "update", ID: id, Details: d})
}

func (m *mockClient) Delete(_ context.Context, id string) error {
	_, err := m.record(clientCall{Op: "delete", ID: id})
	return err
}

func (m *mockClient) Extension(name string) (driven.ExtensionFunc, bool) {
	if fn, ok := m.extensions[name]; ok {
		return fn, true
	}
	switch {
	case m.service == domain.ServiceStorage && (name == "upload" || name == "download"),
		m.service == domain.ServiceSpreadsheet && (name == "read_values" || name == "write_values"),
		m.service == domain.ServiceDocument && name == "append_text":
		return func(_ context.Context, d domain.Details) (any, error) {
			return m.record(clientCall{Op: name, Details: d})
		}, true
	}
	return nil, false
}

func (m *mockClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockClient) lastCall() clientCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockActivityStore implements driven.ActivityStore.
type mockActivityStore struct {
	mu       sync.Mutex
	recorded []domain.Activity
	err      error
}

func (m *mockActivityStore) Record(_ context.Context, a *domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.recorded = append(m.recorded, *a)
	return nil
}

func (m *mockActivityStore) Recent(_ context.Context, limit int) ([]domain.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.recorded) {
		limit = len(m.recorded)
	}
	return m.recorded[:limit], m.err
}

func (m *mockActivityStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = nil
	return m.err
}

// mockMetrics implements driven.MetricsRecorder.
type mockMetrics struct {
	services []domain.Service
	statuses []domain.Status
}

func (m *mockMetrics) ObserveRequest(s domain.Service, st domain.Status, _ time.Duration) {
	m.services = append(m.services, s)
	m.statuses = append(m.statuses, st)
}

// allClients returns one mock per capability service.
func allClients() map[domain.Service]*mockClient {
	clients := make(map[domain.Service]*mockClient)
	for _, s := range domain.CapabilityServices() {
		clients[s] = newMockClient(s)
	}
	return clients
}

func asCapabilityClients(m map[domain.Service]*mockClient) []driven.CapabilityClient {
	out := make([]driven.CapabilityClient, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}
