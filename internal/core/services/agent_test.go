package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// newTestAgent wires the real pipeline over a scripted LLM.
func newTestAgent(llm *mockLLM, clients map[domain.Service]*mockClient) (*Agent, *CompletionProvider) {
	completion := NewCompletionProvider(llm)
	planner := NewPlanner(completion, nil, 0)
	router := NewRouter(asCapabilityClients(clients), planner)
	return NewAgent(NewIntentExtractor(completion, nil), router, completion), completion
}

func TestAgent_EmailSend(t *testing.T) {
	llm := &mockLLM{replies: []string{`{"service":"email","action":"send","details":{"to":"a@x.com","subject":"Hi","body":"Yo"}}`}}
	clients := allClients()
	clients[domain.ServiceMail].payload = map[string]any{"id": "m1"}
	agent, _ := newTestAgent(llm, clients)

	result := agent.Handle(context.Background(), "Email a@x.com saying Yo with subject Hi")

	require.True(t, result.OK(), result.Message)
	assert.Equal(t, map[string]any{"id": "m1"}, result.Payload)
	call := clients[domain.ServiceMail].lastCall()
	assert.Equal(t, "create", call.Op)
	assert.Equal(t, "a@x.com", call.Details.String("to", ""))
	assert.Equal(t, "Hi", call.Details.String("subject", ""))
	assert.Equal(t, "Yo", call.Details.String("body", ""))
}

func TestAgent_FallbackGoesToPlanner(t *testing.T) {
	llm := &mockLLM{replies: []string{
		"not json at all",
		`{"email": {"action": "read", "details": {"max_results": 5}}}`,
	}}
	clients := allClients()
	agent, completion := newTestAgent(llm, clients)

	result := agent.Handle(context.Background(), "catch me up")

	require.True(t, result.IsBundle())
	assert.True(t, result.Results["email"].OK())
	assert.Equal(t, 5, clients[domain.ServiceMail].lastCall().Opts.MaxResults)
	assert.Len(t, completion.History(), 4)
}

func TestAgent_LLMFailureBecomesErrorResult(t *testing.T) {
	llm := &mockLLM{err: errors.New("401 invalid api key")}
	agent, _ := newTestAgent(llm, allClients())

	result := agent.Handle(context.Background(), "list my files")

	assert.Equal(t, domain.StatusError, result.Status)
	assert.Contains(t, result.Message, "invalid api key")
}

func TestAgent_EmptyRequest(t *testing.T) {
	llm := &mockLLM{}
	agent, _ := newTestAgent(llm, allClients())

	result := agent.Handle(context.Background(), "   ")

	assert.False(t, result.OK())
	assert.Empty(t, llm.calls)
}

func TestAgent_RecoversPanics(t *testing.T) {
	agent := NewAgent(panickingExtractor{}, nil, nil)

	result := agent.Handle(context.Background(), "boom")

	assert.False(t, result.OK())
	assert.Contains(t, result.Message, "kaboom")
}

func TestAgent_RecordsActivityAndMetrics(t *testing.T) {
	llm := &mockLLM{replies: []string{`{"service":"docs","action":"list","details":{}}`}}
	agent, _ := newTestAgent(llm, allClients())
	store := &mockActivityStore{}
	metrics := &mockMetrics{}
	agent.SetActivityStore(store)
	agent.SetMetricsRecorder(metrics)

	agent.Handle(context.Background(), "list docs")

	require.Len(t, store.recorded, 1)
	got := store.recorded[0]
	assert.Equal(t, "list docs", got.Request)
	assert.Equal(t, domain.ServiceDocument, got.Service)
	assert.Equal(t, "list", got.Action)
	assert.Equal(t, domain.StatusSuccess, got.Status)
	assert.False(t, got.CreatedAt.IsZero())

	assert.Equal(t, []domain.Service{domain.ServiceDocument}, metrics.services)
	assert.Equal(t, []domain.Status{domain.StatusSuccess}, metrics.statuses)
}

func TestAgent_ActivityStoreFailureIgnored(t *testing.T) {
	llm := &mockLLM{replies: []string{`{"service":"docs","action":"list"}`}}
	agent, _ := newTestAgent(llm, allClients())
	agent.SetActivityStore(&mockActivityStore{err: errors.New("disk full")})

	result := agent.Handle(context.Background(), "list docs")
	assert.True(t, result.OK())
}

func TestAgent_Reset(t *testing.T) {
	llm := &mockLLM{replies: []string{`{"service":"docs","action":"list"}`}}
	agent, completion := newTestAgent(llm, allClients())

	agent.Handle(context.Background(), "list docs")
	require.NotEmpty(t, completion.History())

	agent.Reset()
	assert.Empty(t, completion.History())

	NewAgent(nil, nil, nil).Reset()
}

type panickingExtractor struct{}

func (panickingExtractor) Extract(context.Context, string) (domain.Intent, error) {
	panic("kaboom")
}
