// Package docs implements the document capability client on the Google
// Docs API. Listing and deletion go through Drive.
package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/workspace-agent/internal/connectors/google"
	gdrive "github.com/custodia-labs/workspace-agent/internal/connectors/google/drive"
	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.CapabilityClient = (*Client)(nil)

// Client manages Google Docs.
type Client struct {
	svc        *docs.Service
	limiter    *google.Limiter
	files      *gdrive.Files
	extensions map[string]driven.ExtensionFunc
}

// New creates a document client. The Drive handle serves List and Delete.
func New(svc *docs.Service, driveSvc *drive.Service) *Client {
	c := &Client{
		svc:     svc,
		limiter: google.NewLimiter(domain.ServiceDocument),
		files:   gdrive.NewFiles(driveSvc, domain.ServiceDocument, gdrive.MimeTypeGoogleDoc),
	}
	c.extensions = map[string]driven.ExtensionFunc{
		"append_text": c.AppendText,
	}
	return c
}

// Service returns domain.ServiceDocument.
func (c *Client) Service() domain.Service {
	return domain.ServiceDocument
}

// List returns documents from Drive.
func (c *Client) List(ctx context.Context, opts driven.ListOptions) ([]any, error) {
	return c.files.List(ctx, opts)
}

// Get returns a document with its plain text.
func (c *Client) Get(ctx context.Context, id string) (any, error) {
	doc, err := c.document(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocument(doc), nil
}

func (c *Client) document(ctx context.Context, id string) (*docs.Document, error) {
	return google.Call(ctx, c.limiter, domain.ServiceDocument, "get", func() (*docs.Document, error) {
		return c.svc.Documents.Get(id).Context(ctx).Do()
	})
}

// Create makes a document. "content" may be text or a list of
// {"text": ...} items, inserted in order at the start of the body.
func (c *Client) Create(ctx context.Context, details domain.Details) (any, error) {
	title := details.String("title", details.String("name", ""))
	if title == "" {
		return nil, fmt.Errorf("%w: missing title", domain.ErrInvalidInput)
	}

	created, err := google.Call(ctx, c.limiter, domain.ServiceDocument, "create", func() (*docs.Document, error) {
		return c.svc.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}

	if text := contentText(details["content"]); text != "" {
		if _, err := c.batchUpdate(ctx, created.DocumentId, []*docs.Request{insertText(text, 1)}); err != nil {
			return nil, err
		}
	}

	out := toDocument(created)
	if out.Text == "" {
		out.Text = contentText(details["content"])
	}
	return out, nil
}

func contentText(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case []any:
		parts := make([]string, 0, len(c))
		for _, item := range c {
			switch p := item.(type) {
			case string:
				parts = append(parts, p)
			case map[string]any:
				if s, ok := p["text"].(string); ok {
					parts = append(parts, s)
				}
			}
		}
		return strings.Join(parts, "")
	default:
		return ""
	}
}

// Update applies raw Docs "requests", or replaces every "find" with "replace".
func (c *Client) Update(ctx context.Context, id string, details domain.Details) (any, error) {
	var requests []*docs.Request

	if raw, ok := details["requests"]; ok {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: requests: %v", domain.ErrInvalidInput, err)
		}
		if err := json.Unmarshal(data, &requests); err != nil {
			return nil, fmt.Errorf("%w: requests: %v", domain.ErrInvalidInput, err)
		}
	}
	if find := details.String("find", ""); find != "" {
		requests = append(requests, &docs.Request{
			ReplaceAllText: &docs.ReplaceAllTextRequest{
				ContainsText: &docs.SubstringMatchCriteria{Text: find, MatchCase: true},
				ReplaceText:  details.String("replace", ""),
			},
		})
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	return c.batchUpdate(ctx, id, requests)
}

// Delete removes the document file from Drive.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.files.Delete(ctx, id)
}

// Extension returns "append_text".
func (c *Client) Extension(name string) (driven.ExtensionFunc, bool) {
	fn, ok := c.extensions[name]
	return fn, ok
}

// UpdateResult summarises a batch update.
type UpdateResult struct {
	DocumentID string `json:"document_id"`
	Replies    int    `json:"replies"`
}

func (c *Client) batchUpdate(ctx context.Context, id string, requests []*docs.Request) (UpdateResult, error) {
	resp, err := google.Call(ctx, c.limiter, domain.ServiceDocument, "batch update",
		func() (*docs.BatchUpdateDocumentResponse, error) {
			req := &docs.BatchUpdateDocumentRequest{Requests: requests}
			return c.svc.Documents.BatchUpdate(id, req).Context(ctx).Do()
		})
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{DocumentID: id, Replies: len(resp.Replies)}, nil
}

func insertText(text string, index int64) *docs.Request {
	return &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: index},
			Text:     text,
		},
	}
}
