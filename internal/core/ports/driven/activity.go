package driven

import (
	"context"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// ActivityStore persists the log of handled requests.
type ActivityStore interface {
	// Record appends an activity.
	Record(ctx context.Context, activity *domain.Activity) error

	// Recent returns up to limit activities, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Activity, error)

	// Clear deletes all recorded activities.
	Clear(ctx context.Context) error
}
