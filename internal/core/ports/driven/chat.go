package driven

import "context"

// ChatPoster sends messages to a chat channel.
type ChatPoster interface {
	// PostMessage posts text to the channel.
	PostMessage(ctx context.Context, channel, text string) error
}
