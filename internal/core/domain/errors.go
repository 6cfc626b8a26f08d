package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedService indicates an intent names an unknown service.
	ErrUnsupportedService = errors.New("unsupported service")

	// ErrUnsupportedAction indicates a service has no handler for an action.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrServiceNotConfigured indicates no client is registered for a service.
	ErrServiceNotConfigured = errors.New("service not configured")

	// ErrNestedMulti indicates a plan step asked for another decomposition.
	ErrNestedMulti = errors.New("nested multi-service requests are not supported")

	// ErrMalformedOutput indicates the model answer is not the expected JSON.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Authentication Errors.

	// ErrAuthRequired indicates no credential has been stored yet.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the credential expired and cannot be refreshed.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrCredentialsRevoked indicates the credential was revoked in this process.
	ErrCredentialsRevoked = errors.New("credentials revoked")

	// ErrTokenRefreshFailed indicates token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Remote API Errors.

	// ErrPermissionDenied indicates the remote API refused the call (HTTP 403).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// RemoteError is a failure reported by a workspace API.
type RemoteError struct {
	Service   Service
	Operation string
	Code      int
	Reason    string
	Err       error
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Service, e.Operation)
	if e.Code != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Code)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is maps HTTP status codes onto the domain sentinels.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrPermissionDenied:
		return e.Code == http.StatusForbidden
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrRateLimited:
		return e.Code == http.StatusTooManyRequests
	case ErrAuthExpired:
		return e.Code == http.StatusUnauthorized
	}
	return false
}

// ParseError reports model output that could not be decoded.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrMalformedOutput) match any parse failure.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedOutput
}
