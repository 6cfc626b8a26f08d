package services

import (
	"context"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// defaultHistoryLimit is used when the caller asks for a non-positive limit.
const defaultHistoryLimit = 20

// HistoryService reads the request activity log.
type HistoryService struct {
	store driven.ActivityStore
}

// NewHistoryService creates a history service.
func NewHistoryService(store driven.ActivityStore) *HistoryService {
	return &HistoryService{store: store}
}

// Recent returns the most recent activities.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.store.Recent(ctx, limit)
}

// Clear deletes all recorded activities.
func (s *HistoryService) Clear(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.Clear(ctx)
}
