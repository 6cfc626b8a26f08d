package google

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

func TestWrapError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapError(domain.ServiceMail, "send", nil))
	})

	tests := []struct {
		name     string
		code     int
		sentinel error
	}{
		{"forbidden", http.StatusForbidden, domain.ErrPermissionDenied},
		{"not found", http.StatusNotFound, domain.ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
		{"unauthorised", http.StatusUnauthorized, domain.ErrAuthExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(domain.ServiceStorage, "get", &googleapi.Error{Code: tt.code, Message: "boom"})

			var remote *domain.RemoteError
			require.ErrorAs(t, err, &remote)
			assert.Equal(t, tt.code, remote.Code)
			assert.Equal(t, "boom", remote.Reason)
			assert.Equal(t, domain.ServiceStorage, remote.Service)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}

	t.Run("reason falls back to error items", func(t *testing.T) {
		gerr := &googleapi.Error{
			Code:   http.StatusForbidden,
			Errors: []googleapi.ErrorItem{{Reason: "insufficientPermissions"}},
		}
		err := WrapError(domain.ServiceDocument, "get", gerr)

		assert.Contains(t, err.Error(), "insufficientPermissions")
		assert.Contains(t, err.Error(), "HTTP 403")
	})

	t.Run("reason falls back to status text", func(t *testing.T) {
		err := WrapError(domain.ServiceCalendar, "list", &googleapi.Error{Code: http.StatusNotFound})
		assert.Contains(t, err.Error(), "Not Found")
	})

	t.Run("non google errors keep their cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := WrapError(domain.ServiceMail, "list", cause)

		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, "mail list failed: connection reset", err.Error())
	})
}

func TestRetryAfter(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "17")

	assert.Equal(t, 17*time.Second, RetryAfter(&googleapi.Error{Code: 429, Header: header}))
	assert.Zero(t, RetryAfter(&googleapi.Error{Code: 429}))
	assert.Zero(t, RetryAfter(errors.New("plain")))

	date := http.Header{}
	date.Set("Retry-After", time.Now().Add(90*time.Second).UTC().Format(http.TimeFormat))
	assert.InDelta(t, 90, RetryAfter(&googleapi.Error{Code: 429, Header: date}).Seconds(), 2)

	past := http.Header{}
	past.Set("Retry-After", time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat))
	assert.Zero(t, RetryAfter(&googleapi.Error{Code: 429, Header: past}))

	junk := http.Header{}
	junk.Set("Retry-After", "soon")
	assert.Zero(t, RetryAfter(&googleapi.Error{Code: 429, Header: junk}))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.False(t, IsRateLimited(&googleapi.Error{Code: http.StatusForbidden}))
	assert.False(t, IsRateLimited(errors.New("other")))
}
