// Package render turns agent Results into text for terminals and chat.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// Text renders a Result as plain text. Success payloads are shown as
// indented JSON unless they are already strings; bundles list each
// sub-result under its service key.
func Text(result domain.Result) string {
	if result.IsBundle() {
		return bundleText(result)
	}
	if !result.OK() {
		return "Error: " + result.Message
	}
	return payloadText(result.Payload)
}

// JSON renders a Result as indented JSON.
func JSON(result domain.Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), nil
}

func bundleText(result domain.Result) string {
	keys := result.Keys()
	if len(keys) == 0 {
		return "Done. No services were involved."
	}

	var b strings.Builder
	if failed := result.FailedKeys(); len(failed) > 0 {
		fmt.Fprintf(&b, "Completed %d of %d steps.\n", len(keys)-len(failed), len(keys))
	} else {
		fmt.Fprintf(&b, "Completed %d steps.\n", len(keys))
	}

	for _, key := range keys {
		sub := result.Results[key]
		mark := "ok"
		if !sub.OK() {
			mark = "failed"
		}
		fmt.Fprintf(&b, "\n[%s] %s\n", key, mark)
		b.WriteString(indent(Text(sub)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func payloadText(payload any) string {
	switch p := payload.(type) {
	case nil:
		return "Done."
	case string:
		return p
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
