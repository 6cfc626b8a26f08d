// Package messages defines Bubbletea message types for the chat TUI.
package messages

import (
	"time"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// ResultReceived carries the agent's answer back to the model.
type ResultReceived struct {
	Request string
	Result  domain.Result
	Elapsed time.Duration
}

// ConversationReset is sent after the agent history has been cleared.
type ConversationReset struct{}
