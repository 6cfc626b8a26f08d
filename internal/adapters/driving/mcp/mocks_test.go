package mcp

import (
	"context"
	"sync"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// mockAgent is a mock implementation of driving.Agent.
type mockAgent struct {
	mu       sync.Mutex
	result   domain.Result
	requests []string
}

func (m *mockAgent) Handle(_ context.Context, request string) domain.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, request)
	return m.result
}

func (m *mockAgent) Reset() {}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	activities []domain.Activity
	err        error
	lastLimit  int
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.Activity, error) {
	m.lastLimit = limit
	return m.activities, m.err
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	return m.err
}
