package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driving"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// Ensure Agent implements the interface.
var _ driving.Agent = (*Agent)(nil)

// Extractor classifies a request into an intent.
type Extractor interface {
	Extract(ctx context.Context, request string) (domain.Intent, error)
}

// IntentRouter executes an intent.
type IntentRouter interface {
	Route(ctx context.Context, intent domain.Intent) domain.Result
}

// Resetter clears conversation state.
type Resetter interface {
	Reset()
}

// Agent is the entry point for natural-language requests.
type Agent struct {
	extractor    Extractor
	router       IntentRouter
	conversation Resetter
	activity     driven.ActivityStore
	metrics      driven.MetricsRecorder
}

// NewAgent creates an agent. conversation may be nil.
func NewAgent(extractor Extractor, router IntentRouter, conversation Resetter) *Agent {
	return &Agent{
		extractor:    extractor,
		router:       router,
		conversation: conversation,
	}
}

// SetActivityStore enables request history recording.
func (a *Agent) SetActivityStore(store driven.ActivityStore) {
	a.activity = store
}

// SetMetricsRecorder enables request metrics.
func (a *Agent) SetMetricsRecorder(m driven.MetricsRecorder) {
	a.metrics = m
}

// Handle extracts the intent and routes it. Every failure, including a
// panic in a downstream component, is returned as an error result.
func (a *Agent) Handle(ctx context.Context, request string) (result domain.Result) {
	start := time.Now()
	var intent domain.Intent

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("request handling panicked: %v", rec)
			result = domain.Failure("Request processing failed: %v", rec)
		}
		a.observe(ctx, request, intent, result, start)
	}()

	if strings.TrimSpace(request) == "" {
		return domain.Failure("Request processing failed: empty request")
	}

	intent, err := a.extractor.Extract(ctx, request)
	if err != nil {
		logger.Error("intent extraction failed: %v", err)
		return domain.Failure("Request processing failed: %v", err)
	}

	return a.router.Route(ctx, intent)
}

// Reset clears the conversation history.
func (a *Agent) Reset() {
	if a.conversation != nil {
		a.conversation.Reset()
	}
}

func (a *Agent) observe(ctx context.Context, request string, intent domain.Intent, result domain.Result, started time.Time) {
	elapsed := time.Since(started)
	if a.metrics != nil {
		a.metrics.ObserveRequest(intent.Service, result.Status, elapsed)
	}
	if a.activity == nil {
		return
	}

	message := result.Message
	if result.IsBundle() {
		if failed := result.FailedKeys(); len(failed) > 0 {
			message = "failed: " + strings.Join(failed, ", ")
		}
	}

	err := a.activity.Record(context.WithoutCancel(ctx), &domain.Activity{
		Request:   request,
		Service:   intent.Service,
		Action:    intent.Action,
		Status:    result.Status,
		Message:   message,
		Duration:  elapsed,
		CreatedAt: started,
	})
	if err != nil {
		logger.Warn("record activity: %v", err)
	}
}
