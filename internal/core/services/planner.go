package services

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// RouteFunc routes a single plan step.
type RouteFunc func(ctx context.Context, intent domain.Intent) domain.Result

// Planner decomposes multi-service requests into per-service steps.
type Planner struct {
	completer   Completer
	prompts     driven.PromptStore
	maxParallel int
}

// NewPlanner creates a planner. prompts may be nil; maxParallel <= 0 uses
// domain.DefaultMaxParallelSteps.
func NewPlanner(completer Completer, prompts driven.PromptStore, maxParallel int) *Planner {
	if maxParallel <= 0 {
		maxParallel = domain.DefaultMaxParallelSteps
	}
	return &Planner{
		completer:   completer,
		prompts:     prompts,
		maxParallel: maxParallel,
	}
}

// PlanAndExecute asks the model for a plan, routes every step and bundles
// the results under the model's service keys. A step failure never affects
// its siblings; only a failed decomposition fails the bundle.
func (p *Planner) PlanAndExecute(ctx context.Context, intent domain.Intent, route RouteFunc) domain.Result {
	logger.Section("Planner")

	prompt := fmt.Sprintf(loadPrompt(p.prompts, driven.PromptDecompose), planSubject(intent))
	reply, err := p.completer.Complete(ctx, prompt, loadPrompt(p.prompts, driven.PromptDecomposeSystem))
	if err != nil {
		return domain.Failure("Multi-service request processing failed: %v", err)
	}

	plan, err := domain.ParsePlan(reply)
	if err != nil {
		logger.Warn("unparseable plan: %v", err)
		return domain.Failure("Multi-service request processing failed: %v", err)
	}

	logger.Info("executing plan with %d steps", len(plan))

	results := make([]domain.Result, len(plan))
	var g errgroup.Group
	g.SetLimit(p.maxParallel)
	for i, step := range plan {
		if step.Err != nil {
			results[i] = domain.Failure("%v", step.Err)
			continue
		}
		g.Go(func() error {
			results[i] = route(ctx, step.Intent)
			return nil
		})
	}
	_ = g.Wait()

	bundle := make(map[string]domain.Result, len(plan))
	for i, step := range plan {
		bundle[step.Key] = results[i]
	}
	return domain.Bundle(bundle)
}

// planSubject picks the text to decompose: the original request, free-text
// details, or the details as JSON.
func planSubject(intent domain.Intent) string {
	if intent.Request != "" {
		return intent.Request
	}
	if text := intent.Details.String("text", ""); text != "" {
		return text
	}
	data, err := json.Marshal(intent.Details)
	if err != nil {
		return fmt.Sprint(intent.Details)
	}
	return string(data)
}
