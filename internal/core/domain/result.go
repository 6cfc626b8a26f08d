package domain

import (
	"fmt"
	"sort"
)

// Status is the outcome of a routed intent.
type Status string

// Result statuses.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the uniform outcome of handling a request.
// A bundle carries per-service Results; its own Status only reports whether
// decomposition succeeded, so sub-results may fail independently.
type Result struct {
	Status  Status            `json:"status"`
	Payload any               `json:"payload,omitempty"`
	Message string            `json:"message,omitempty"`
	Results map[string]Result `json:"results,omitempty"`
}

// Success wraps a client payload.
func Success(payload any) Result {
	return Result{Status: StatusSuccess, Payload: payload}
}

// Failure builds an error result with a human-readable message.
func Failure(format string, args ...any) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// Bundle aggregates the results of a multi-service plan.
func Bundle(results map[string]Result) Result {
	if results == nil {
		results = map[string]Result{}
	}
	return Result{Status: StatusSuccess, Results: results}
}

// OK returns true if the status is success.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// IsBundle returns true if the result aggregates sub-results.
func (r Result) IsBundle() bool {
	return r.Results != nil
}

// FailedKeys returns the sorted keys of failed sub-results.
func (r Result) FailedKeys() []string {
	var keys []string
	for k, sub := range r.Results {
		if !sub.OK() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Keys returns the sorted keys of all sub-results.
func (r Result) Keys() []string {
	keys := make([]string, 0, len(r.Results))
	for k := range r.Results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
