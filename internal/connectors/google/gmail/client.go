// Package gmail implements the mail capability client on the Gmail API.
package gmail

import (
	"context"
	"fmt"

	"google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/workspace-agent/internal/connectors/google"
	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CapabilityClient = (*Client)(nil)

const defaultUser = "me"

// metadataHeaders are fetched for each listed message.
var metadataHeaders = []string{"From", "To", "Subject", "Date"}

// Client sends, lists and labels mail for the authenticated user.
type Client struct {
	svc     *gmail.Service
	limiter *google.Limiter
	userID  string
}

// New creates a mail client.
func New(svc *gmail.Service) *Client {
	return &Client{
		svc:     svc,
		limiter: google.NewLimiter(domain.ServiceMail),
		userID:  defaultUser,
	}
}

// Service returns domain.ServiceMail.
func (c *Client) Service() domain.Service {
	return domain.ServiceMail
}

// sendInput is the non-recipient part of a send request.
type sendInput struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	HTMLBody string `json:"html_body"`
}

// Create sends an email. Recipients come from "to", "cc" and "bcc".
func (c *Client) Create(ctx context.Context, details domain.Details) (any, error) {
	var in sendInput
	if err := google.Decode(details.Without("to", "cc", "bcc"), &in); err != nil {
		return nil, err
	}

	msg := outgoing{
		To:       details.StringSlice("to"),
		Cc:       details.StringSlice("cc"),
		Bcc:      details.StringSlice("bcc"),
		Subject:  in.Subject,
		Body:     in.Body,
		HTMLBody: in.HTMLBody,
	}
	if len(msg.To) == 0 {
		return nil, fmt.Errorf("%w: missing recipient (to)", domain.ErrInvalidInput)
	}

	raw, err := msg.raw()
	if err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}

	sent, err := google.Call(ctx, c.limiter, domain.ServiceMail, "send", func() (*gmail.Message, error) {
		return c.svc.Users.Messages.Send(c.userID, &gmail.Message{Raw: raw}).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return toMessage(sent), nil
}

// List returns message summaries matching the query and label filters.
func (c *Client) List(ctx context.Context, opts driven.ListOptions) ([]any, error) {
	call := c.svc.Users.Messages.List(c.userID)
	if opts.MaxResults > 0 {
		call = call.MaxResults(int64(opts.MaxResults))
	}
	if opts.Query != "" {
		call = call.Q(opts.Query)
	}
	if labels := opts.Filters.StringSlice("label_ids"); len(labels) > 0 {
		call = call.LabelIds(labels...)
	}

	resp, err := google.Call(ctx, c.limiter, domain.ServiceMail, "list", func() (*gmail.ListMessagesResponse, error) {
		return call.Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(resp.Messages))
	for _, ref := range resp.Messages {
		msg, err := c.fetch(ctx, ref.Id, "metadata")
		if err != nil {
			return nil, err
		}
		items = append(items, toMessage(msg))
	}
	return items, nil
}

// Get returns a message with its plain text body.
func (c *Client) Get(ctx context.Context, id string) (any, error) {
	msg, err := c.fetch(ctx, id, "full")
	if err != nil {
		return nil, err
	}
	return toMessage(msg), nil
}

func (c *Client) fetch(ctx context.Context, id, format string) (*gmail.Message, error) {
	return google.Call(ctx, c.limiter, domain.ServiceMail, "get", func() (*gmail.Message, error) {
		call := c.svc.Users.Messages.Get(c.userID, id).Format(format)
		if format == "metadata" {
			call = call.MetadataHeaders(metadataHeaders...)
		}
		return call.Context(ctx).Do()
	})
}

// Update adds and removes labels ("add_labels", "remove_labels").
func (c *Client) Update(ctx context.Context, id string, details domain.Details) (any, error) {
	req := &gmail.ModifyMessageRequest{
		AddLabelIds:    details.StringSlice("add_labels"),
		RemoveLabelIds: details.StringSlice("remove_labels"),
	}
	if len(req.AddLabelIds) == 0 && len(req.RemoveLabelIds) == 0 {
		return nil, fmt.Errorf("%w: add_labels or remove_labels required", domain.ErrInvalidInput)
	}

	msg, err := google.Call(ctx, c.limiter, domain.ServiceMail, "modify", func() (*gmail.Message, error) {
		return c.svc.Users.Messages.Modify(c.userID, id, req).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return toMessage(msg), nil
}

// Delete permanently deletes a message.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := google.Call(ctx, c.limiter, domain.ServiceMail, "delete", func() (struct{}, error) {
		return struct{}{}, c.svc.Users.Messages.Delete(c.userID, id).Context(ctx).Do()
	})
	return err
}

// Extension reports no mail-specific operations.
func (c *Client) Extension(string) (driven.ExtensionFunc, bool) {
	return nil, false
}
