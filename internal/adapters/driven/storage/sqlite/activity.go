package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

var _ driven.ActivityStore = (*activityStore)(nil)

type activityStore struct {
	db *sql.DB
}

const activityColumns = "id, request, service, action, status, message, duration_ms, created_at"

// Record fills in a missing ID and timestamp before inserting.
func (s *activityStore) Record(ctx context.Context, a *domain.Activity) error {
	if a == nil {
		return domain.ErrInvalidInput
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO activities ("+activityColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.Request, a.Service.String(), a.Action, string(a.Status), a.Message,
		a.Duration.Milliseconds(), a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

// Recent lists newest first; limit <= 0 lists everything.
func (s *activityStore) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = -1 // SQLite reads a negative LIMIT as unbounded
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+activityColumns+" FROM activities ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanActivity(rows *sql.Rows) (domain.Activity, error) {
	var (
		a               domain.Activity
		service, status string
		ms              int64
	)
	if err := rows.Scan(&a.ID, &a.Request, &service, &a.Action, &status, &a.Message, &ms, &a.CreatedAt); err != nil {
		return a, fmt.Errorf("scanning activity: %w", err)
	}
	a.Service = domain.Service(service)
	a.Status = domain.Status(status)
	a.Duration = time.Duration(ms) * time.Millisecond
	return a, nil
}

func (s *activityStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM activities"); err != nil {
		return fmt.Errorf("clearing activities: %w", err)
	}
	return nil
}
