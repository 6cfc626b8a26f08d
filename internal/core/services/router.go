package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// defaultMaxResults applies to every list-style action without max_results.
const defaultMaxResults = 10

// handlerFunc performs exactly one client call for an intent.
type handlerFunc func(ctx context.Context, client driven.CapabilityClient, d domain.Details) (any, error)

// actionTable maps an action name to its handler.
type actionTable map[string]handlerFunc

// Router dispatches intents to capability clients.
// Multi-service intents are handed to the Planner, whose steps come back
// through a route function that refuses further decomposition.
type Router struct {
	clients map[domain.Service]driven.CapabilityClient
	tables  map[domain.Service]actionTable
	planner *Planner
}

// NewRouter creates a router over the given clients. planner may be nil, in
// which case multi-service requests fail.
func NewRouter(clients []driven.CapabilityClient, planner *Planner) *Router {
	r := &Router{
		clients: make(map[domain.Service]driven.CapabilityClient, len(clients)),
		tables:  defaultActionTables(),
		planner: planner,
	}
	for _, c := range clients {
		if c != nil {
			r.clients[c.Service()] = c
		}
	}
	return r
}

// Route executes the intent and never returns an error value: failures are
// reported as error results.
func (r *Router) Route(ctx context.Context, intent domain.Intent) domain.Result {
	logger.Section("Router")

	if intent.Service == domain.ServiceMulti || intent.Service == "" {
		if r.planner == nil {
			return domain.Failure("Multi-service request processing failed: planner not configured")
		}
		return r.planner.PlanAndExecute(ctx, intent, r.routeStep)
	}
	return r.dispatch(ctx, intent)
}

// routeStep routes one step of a plan. Nested decomposition is rejected.
func (r *Router) routeStep(ctx context.Context, intent domain.Intent) domain.Result {
	if intent.Service == domain.ServiceMulti {
		logger.Warn("rejecting nested multi-service step")
		return domain.Failure("%s", capitalise(domain.ErrNestedMulti.Error()))
	}
	return r.dispatch(ctx, intent)
}

func (r *Router) dispatch(ctx context.Context, intent domain.Intent) (result domain.Result) {
	table, ok := r.tables[intent.Service]
	if !ok {
		logger.Warn("unsupported service %q", intent.Service)
		return domain.Failure("Unsupported service: %s", intent.Service)
	}

	handler, ok := table[intent.Action]
	if !ok {
		logger.Warn("unsupported action %q for %s", intent.Action, intent.Service)
		return domain.Failure("Unsupported action: %s for service %s", intent.Action, intent.Service)
	}

	client, ok := r.clients[intent.Service]
	if !ok {
		return domain.Failure("Service not configured: %s", intent.Service)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%s %s panicked: %v", intent.Service, intent.Action, rec)
			logger.Error("%v", err)
			result = domain.Failure("%v", err)
		}
	}()

	details := intent.Details
	if details == nil {
		details = domain.Details{}
	}

	logger.Debug("dispatch %s.%s", intent.Service, intent.Action)
	payload, err := handler(ctx, client, details)
	if err != nil {
		logFailure(intent, err)
		return domain.Failure("%v", err)
	}
	return domain.Success(payload)
}

// logFailure logs a client error, distinguishing the common HTTP failures.
func logFailure(intent domain.Intent, err error) {
	op := fmt.Sprintf("%s %s", intent.Service, intent.Action)

	var remote *domain.RemoteError
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		logger.Error("%s: permission denied (HTTP 403): %v", op, err)
	case errors.Is(err, domain.ErrNotFound):
		logger.Error("%s: resource not found (HTTP 404): %v", op, err)
	case errors.Is(err, domain.ErrRateLimited):
		logger.Error("%s: rate limited (HTTP 429): %v", op, err)
	case errors.As(err, &remote) && remote.Code != 0:
		logger.Error("%s: HTTP %d: %v", op, remote.Code, err)
	default:
		logger.Error("%s: %v", op, err)
	}
}

// SupportedActions returns the action names accepted for a service.
func (r *Router) SupportedActions(service domain.Service) []string {
	table := r.tables[service]
	actions := make([]string, 0, len(table))
	for name := range table {
		actions = append(actions, name)
	}
	return actions
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
