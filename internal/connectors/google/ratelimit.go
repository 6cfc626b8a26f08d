package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// Quota is a token bucket: a sustained rate plus a burst allowance.
type Quota struct {
	PerSecond float64
	Burst     int
}

// quotas sit well under Google's per-user limits.
var quotas = map[domain.Service]Quota{
	domain.ServiceMail:        {PerSecond: 2, Burst: 5},
	domain.ServiceStorage:     {PerSecond: 8, Burst: 10},
	domain.ServiceCalendar:    {PerSecond: 5, Burst: 10},
	domain.ServiceSpreadsheet: {PerSecond: 1, Burst: 5},
	domain.ServiceDocument:    {PerSecond: 1, Burst: 5},
}

var fallbackQuota = Quota{PerSecond: 5, Burst: 10}

// defaultPause applies when a 429 carries no usable Retry-After.
const defaultPause = time.Minute

// Limiter throttles calls to one Google API and holds them back entirely
// while a 429 pause is in force.
type Limiter struct {
	bucket *rate.Limiter

	mu       sync.Mutex
	resumeAt time.Time
}

// NewLimiter returns a limiter using the quota for service.
func NewLimiter(service domain.Service) *Limiter {
	q, ok := quotas[service]
	if !ok {
		q = fallbackQuota
	}
	return NewLimiterWithQuota(q)
}

// NewLimiterWithQuota returns a limiter with an explicit quota.
func NewLimiterWithQuota(q Quota) *Limiter {
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(q.PerSecond), q.Burst)}
}

// Wait blocks until a pause has elapsed and the bucket has a token.
func (l *Limiter) Wait(ctx context.Context) error {
	if d := time.Until(l.ResumeAt()); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return l.bucket.Wait(ctx)
}

// Pause holds calls back for d, or defaultPause when d is not positive.
// A shorter pause never cuts an existing one short.
func (l *Limiter) Pause(d time.Duration) {
	if d <= 0 {
		d = defaultPause
	}
	until := time.Now().Add(d)

	l.mu.Lock()
	if until.After(l.resumeAt) {
		l.resumeAt = until
	}
	l.mu.Unlock()
}

// ResumeAt reports when the current pause ends, or the zero time if none is active.
func (l *Limiter) ResumeAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !time.Now().Before(l.resumeAt) {
		return time.Time{}
	}
	return l.resumeAt
}
