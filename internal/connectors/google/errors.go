package google

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// WrapError converts a Google API error into a *domain.RemoteError so callers
// can classify it with errors.Is against the domain sentinels.
func WrapError(service domain.Service, operation string, err error) error {
	if err == nil {
		return nil
	}

	remote := &domain.RemoteError{
		Service:   service,
		Operation: operation,
		Err:       err,
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		remote.Code = gerr.Code
		remote.Reason = reason(gerr)
	}
	return remote
}

// IsRateLimited returns true if the error is an HTTP 429 from Google.
func IsRateLimited(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// RetryAfter reads the Retry-After header of a Google error. Both the
// delta-seconds and HTTP-date forms are understood; anything else is zero.
func RetryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	value := gerr.Header.Get("Retry-After")
	if secs, convErr := strconv.Atoi(value); convErr == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, parseErr := http.ParseTime(value); parseErr == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func reason(gerr *googleapi.Error) string {
	if gerr.Message != "" {
		return gerr.Message
	}
	for _, item := range gerr.Errors {
		if item.Message != "" {
			return item.Message
		}
		if item.Reason != "" {
			return item.Reason
		}
	}
	return http.StatusText(gerr.Code)
}
