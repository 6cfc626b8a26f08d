package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// PlanStep is one service call in a multi-service plan.
// Err is set when the step could not be decoded; it is reported as an
// error result for Key without aborting the other steps.
type PlanStep struct {
	Key    string
	Intent Intent
	Err    error
}

// Plan is a decomposed multi-service request, ordered by key.
type Plan []PlanStep

type rawStep struct {
	Action     string          `json:"action"`
	Details    json.RawMessage `json:"details"`
	Parameters json.RawMessage `json:"parameters"`
}

// ParsePlan parses the model's decomposition of a multi-service request.
// The answer must be a JSON object mapping service names to
// {"action": ..., "details": {...}} objects.
func ParsePlan(text string) (Plan, error) {
	obj, err := extractJSONObject(text)
	if err != nil {
		return nil, &ParseError{What: "plan", Err: err}
	}

	var steps map[string]json.RawMessage
	if err := json.Unmarshal(obj, &steps); err != nil {
		return nil, &ParseError{What: "plan", Err: err}
	}
	if len(steps) == 0 {
		return nil, &ParseError{What: "plan", Err: errors.New("no steps")}
	}

	keys := make([]string, 0, len(steps))
	for k := range steps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	plan := make(Plan, 0, len(keys))
	for _, key := range keys {
		plan = append(plan, parseStep(key, steps[key]))
	}
	return plan, nil
}

func parseStep(key string, payload json.RawMessage) PlanStep {
	step := PlanStep{Key: key}

	var raw rawStep
	if err := json.Unmarshal(payload, &raw); err != nil {
		step.Err = fmt.Errorf("invalid step for %s: %w", key, err)
		return step
	}
	if strings.TrimSpace(raw.Action) == "" {
		step.Err = fmt.Errorf("invalid step for %s: missing action", key)
		return step
	}

	body := raw.Details
	if isEmptyJSON(body) {
		body = raw.Parameters
	}
	details, err := decodeDetails(body)
	if err != nil {
		step.Err = fmt.Errorf("invalid step for %s: %w", key, err)
		return step
	}

	step.Intent = Intent{
		Service: ParseService(key),
		Action:  normaliseAction(raw.Action),
		Details: details,
	}
	return step
}
