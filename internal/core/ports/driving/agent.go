package driving

import (
	"context"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// Agent handles natural-language workspace requests.
type Agent interface {
	// Handle classifies and executes a request. It never returns an error;
	// every failure is reported as an error Result.
	Handle(ctx context.Context, request string) domain.Result

	// Reset clears the conversation history.
	Reset()
}

// HistoryService exposes the log of handled requests.
type HistoryService interface {
	// Recent returns up to limit activities, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Activity, error)

	// Clear deletes all recorded activities.
	Clear(ctx context.Context) error
}
