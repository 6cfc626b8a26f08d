package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// Ensure ActivityStore implements the interface.
var _ driven.ActivityStore = (*ActivityStore)(nil)

// ActivityStore keeps the request log in memory, bounded to a fixed size.
type ActivityStore struct {
	mu         sync.RWMutex
	limit      int
	activities []domain.Activity
}

// NewActivityStore creates a store that keeps at most limit activities.
// A non-positive limit keeps 100.
func NewActivityStore(limit int) *ActivityStore {
	if limit <= 0 {
		limit = 100
	}
	return &ActivityStore{limit: limit}
}

// Record appends an activity, assigning an ID if missing.
func (s *ActivityStore) Record(_ context.Context, activity *domain.Activity) error {
	if activity == nil {
		return domain.ErrInvalidInput
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(s.activities, *activity)
	if over := len(s.activities) - s.limit; over > 0 {
		s.activities = s.activities[over:]
	}
	return nil
}

// Recent returns up to limit activities, newest first.
func (s *ActivityStore) Recent(_ context.Context, limit int) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.activities)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Activity, 0, n)
	for i := len(s.activities) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.activities[i])
	}
	return out, nil
}

// Clear deletes all recorded activities.
func (s *ActivityStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = nil
	return nil
}
