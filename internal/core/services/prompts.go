package services

import (
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// Fallback prompts used when no PromptStore is configured.
const (
	defaultIntentSystemPrompt = `You are an intent extraction assistant for a workspace agent.
Classify the user's request and reply with ONLY a JSON object of the form:
{"service": "<email|calendar|drive|sheets|docs|multi>", "action": "<action>", "details": {...}}

Actions per service:
- email: send (to, subject, body), read (max_results, query), get (id), update (id, add_labels, remove_labels), delete (id)
- calendar: create (summary, start_time, end_time, description, attendees), list (max_results, time_min, time_max), get, update, delete (event_id)
- drive: upload (local_path, name, mime_type, parent_id), download (file_id, local_path), list (max_results, query), create (name, mime_type), get, update, delete (file_id)
- sheets: create (title), read (spreadsheet_id, range_name), write (spreadsheet_id, range_name, values), list, get, update, delete
- docs: create (title, content), append (document_id, text), list, get, update, delete
- multi: the request needs more than one service

Times are RFC 3339. Do not add commentary.`

	defaultDecomposeSystemPrompt = `You are a workflow decomposition assistant.`

	defaultDecomposePrompt = `Break down this multi-service request into specific actions:
%s

Reply with ONLY a JSON object mapping each service (email, calendar, drive, sheets, docs)
to {"action": "<action>", "details": {...}}. Use at most one action per service.`

	defaultSummarisePrompt = `Summarize the following text concisely in under %d characters:`
)

var fallbackPrompts = map[string]string{
	driven.PromptIntentSystem:    defaultIntentSystemPrompt,
	driven.PromptDecomposeSystem: defaultDecomposeSystemPrompt,
	driven.PromptDecompose:       defaultDecomposePrompt,
	driven.PromptSummarise:       defaultSummarisePrompt,
}

// loadPrompt returns the named prompt from the store, or the built-in default.
func loadPrompt(store driven.PromptStore, name string) string {
	if store == nil {
		return fallbackPrompts[name]
	}
	prompt, err := store.Load(name)
	if err != nil || prompt == "" {
		logger.Warn("prompt %q unavailable, using default: %v", name, err)
		return fallbackPrompts[name]
	}
	return prompt
}
