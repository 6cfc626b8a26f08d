package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ActionInterpret is the action of the fallback intent.
const ActionInterpret = "interpret"

// Intent is a request classified into a service, an action and details.
// Intents are ephemeral and never persisted.
type Intent struct {
	Service Service `json:"service"`
	Action  string  `json:"action"`
	Details Details `json:"details,omitempty"`

	// Request is the original natural-language text.
	Request string `json:"request,omitempty"`
}

// FallbackIntent is used when the model output cannot be parsed.
// The whole request is handed to the multi-service planner as free-text
// details under "text".
func FallbackIntent(request string) Intent {
	return Intent{
		Service: ServiceMulti,
		Action:  ActionInterpret,
		Details: Details{"text": request},
		Request: request,
	}
}

// rawIntent mirrors the JSON shape the model is asked to produce.
type rawIntent struct {
	Service    string          `json:"service"`
	Action     string          `json:"action"`
	Details    json.RawMessage `json:"details"`
	Parameters json.RawMessage `json:"parameters"`
}

// ParseIntent parses a model answer into an Intent.
// It tolerates Markdown code fences, prose around the JSON object, unknown
// fields and "parameters" in place of "details". It fails when the answer
// holds no JSON object or the object lacks a service or action.
func ParseIntent(text string) (Intent, error) {
	obj, err := extractJSONObject(text)
	if err != nil {
		return Intent{}, &ParseError{What: "intent", Err: err}
	}

	var raw rawIntent
	if err := json.Unmarshal(obj, &raw); err != nil {
		return Intent{}, &ParseError{What: "intent", Err: err}
	}

	if strings.TrimSpace(raw.Service) == "" {
		return Intent{}, &ParseError{What: "intent", Err: errors.New("missing service")}
	}
	if strings.TrimSpace(raw.Action) == "" {
		return Intent{}, &ParseError{What: "intent", Err: errors.New("missing action")}
	}

	payload := raw.Details
	if isEmptyJSON(payload) {
		payload = raw.Parameters
	}
	details, err := decodeDetails(payload)
	if err != nil {
		return Intent{}, &ParseError{What: "intent details", Err: err}
	}

	return Intent{
		Service: ParseService(raw.Service),
		Action:  normaliseAction(raw.Action),
		Details: details,
	}, nil
}

// decodeDetails accepts an object, a bare string or nothing.
// A bare string is kept under the "text" key.
func decodeDetails(payload json.RawMessage) (Details, error) {
	if isEmptyJSON(payload) {
		return Details{}, nil
	}

	trimmed := bytes.TrimSpace(payload)
	switch trimmed[0] {
	case '{':
		var d Details
		if err := json.Unmarshal(trimmed, &d); err != nil {
			return nil, err
		}
		if d == nil {
			d = Details{}
		}
		return d, nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return Details{"text": s}, nil
	default:
		return nil, fmt.Errorf("details must be an object, got %s", truncate(string(trimmed), 40))
	}
}

func normaliseAction(action string) string {
	a := strings.ToLower(strings.TrimSpace(action))
	return strings.ReplaceAll(a, " ", "_")
}

func isEmptyJSON(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// extractJSONObject finds the outermost JSON object in free text.
func extractJSONObject(text string) ([]byte, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, ErrMalformedOutput
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in %q", ErrMalformedOutput, truncate(s, 60))
	}
	return []byte(s[start : end+1]), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
