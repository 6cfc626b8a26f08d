package driven

import (
	"time"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// MetricsRecorder receives request outcomes for monitoring.
type MetricsRecorder interface {
	// ObserveRequest records one handled request.
	ObserveRequest(service domain.Service, status domain.Status, elapsed time.Duration)
}
