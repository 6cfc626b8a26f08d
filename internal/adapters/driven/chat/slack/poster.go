// Package slack posts agent replies to Slack channels.
package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// Ensure Poster implements the interface.
var _ driven.ChatPoster = (*Poster)(nil)

// maxMessageLength is Slack's limit for the text field of chat.postMessage.
const maxMessageLength = 40000

// Poster sends messages with chat.postMessage.
type Poster struct {
	client *slack.Client
}

// NewPoster creates a poster authenticated with a bot or user token.
// Options are passed to the slack client, e.g. slack.OptionAPIURL in tests.
func NewPoster(token string, opts ...slack.Option) *Poster {
	return &Poster{client: slack.New(token, opts...)}
}

// PostMessage posts text to the channel, truncating oversized replies.
func (p *Poster) PostMessage(ctx context.Context, channel, text string) error {
	if len([]rune(text)) > maxMessageLength {
		text = string([]rune(text)[:maxMessageLength-1]) + "…"
	}
	if _, _, err := p.client.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("slack: post to %s: %w", channel, err)
	}
	return nil
}
